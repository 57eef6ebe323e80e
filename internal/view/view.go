// Package view owns the FetchState of a presented snapshot view.
package view

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"exchangesnapshot/internal/snapshot"
)

// View runs one fetch per activation and holds the resulting FetchState.
// Re-activating cancels the fetch still in flight; only the latest
// activation may write the state.
type View struct {
	source   snapshot.Source
	logger   *zap.Logger
	onChange func(snapshot.FetchState)

	publishMu sync.Mutex

	mu         sync.Mutex
	state      snapshot.FetchState
	generation uint64
	cancel     context.CancelFunc
}

// Option is a configuration option for the View.
type Option func(*View)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(v *View) {
		v.logger = logger
	}
}

// WithOnChange registers a callback invoked after every state transition.
// It runs on the goroutine that made the transition.
func WithOnChange(fn func(snapshot.FetchState)) Option {
	return func(v *View) {
		v.onChange = fn
	}
}

// New creates a View in the Loading state.
func New(source snapshot.Source, opts ...Option) *View {
	v := &View{
		source: source,
		logger: zap.NewNop(),
		state:  snapshot.LoadingState(),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = zap.NewNop()
	}
	return v
}

// State returns the current FetchState.
func (v *View) State() snapshot.FetchState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Activate resets the view to Loading and starts a single fetch. The
// returned channel is closed once that fetch has resolved, whether its
// result was applied or discarded because the view moved on.
func (v *View) Activate(ctx context.Context) <-chan struct{} {
	ctx, cancel := context.WithCancel(ctx)

	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	v.generation++
	gen := v.generation
	v.cancel = cancel
	v.state = snapshot.LoadingState()
	v.mu.Unlock()
	v.publish()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()

		s, err := v.source.Fetch(ctx)
		next := snapshot.ReadyState(s)
		if err != nil {
			next = snapshot.FailedState()
		}

		v.mu.Lock()
		if gen != v.generation {
			v.mu.Unlock()
			v.logger.Debug("discarding superseded fetch", zap.Uint64("generation", gen))
			return
		}
		v.state = next
		v.cancel = nil
		v.mu.Unlock()

		if err != nil {
			v.logger.Info("snapshot unavailable", zap.String("source", v.source.Name()), zap.Error(err))
		} else {
			v.logger.Info("snapshot ready", zap.String("source", v.source.Name()), zap.Int("exchanges", s.Len()))
		}
		v.publish()
	}()
	return done
}

// Deactivate cancels the fetch in flight, if any. Its result is discarded
// and the state stays where it was.
func (v *View) Deactivate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.generation++
}

// publish hands the current state to onChange. Calls are serialized and
// always read the state afresh, so the last callback sees the final state.
func (v *View) publish() {
	if v.onChange == nil {
		return
	}
	v.publishMu.Lock()
	defer v.publishMu.Unlock()
	v.onChange(v.State())
}
