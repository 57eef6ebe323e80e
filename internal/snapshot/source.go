package snapshot

import (
	"context"
)

// Source produces one Snapshot per call.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (Snapshot, error)
}
