// Package coalesce lets concurrent callers share one in-flight fetch.
package coalesce

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"exchangesnapshot/internal/snapshot"
)

const key = "snapshot"

// Source coalesces concurrent Fetch calls on S into a single call. The
// shared call is detached from any one caller's cancellation; a caller
// whose context ends stops waiting and gets a fetch failure.
type Source struct {
	S      snapshot.Source
	Logger *zap.Logger

	sf singleflight.Group
}

// New wraps s. logger may be nil.
func New(s snapshot.Source, logger *zap.Logger) *Source { return &Source{S: s, Logger: logger} }

func (c *Source) Name() string { return c.S.Name() }

func (c *Source) Fetch(ctx context.Context) (snapshot.Snapshot, error) {
	ch := c.sf.DoChan(key, func() (any, error) {
		return c.S.Fetch(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return snapshot.Snapshot{}, snapshot.Abort(c.Logger, c.Name(), "waiting for shared fetch", ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			return snapshot.Snapshot{}, r.Err
		}
		return r.Val.(snapshot.Snapshot), nil
	}
}
