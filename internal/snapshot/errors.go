package snapshot

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrFetchFailed is the only failure surfaced by the core. Network, HTTP
// status and payload shape failures all wrap it.
var ErrFetchFailed = errors.New("fetch failed")

// Abort reports a fetch that a wrapper gave up on before or while waiting
// for source. It logs err once and returns it wrapped in ErrFetchFailed.
// logger may be nil.
func Abort(logger *zap.Logger, source, stage string, err error) error {
	if logger != nil {
		logger.Error("fetch aborted",
			zap.String("provider", source),
			zap.String("stage", stage),
			zap.Error(err),
		)
	}
	return fmt.Errorf("%w: %s: %w", ErrFetchFailed, stage, err)
}
