package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"exchangesnapshot/internal/snapshot"
)

// MinInterval spaces fetches of S at least Interval apart. Each caller
// reserves its own start slot under the lock, so concurrent callers queue
// one Interval behind another instead of firing together.
type MinInterval struct {
	S        snapshot.Source
	Interval time.Duration
	Logger   *zap.Logger

	mu   sync.Mutex
	next time.Time
}

func (m *MinInterval) Name() string { return m.S.Name() }

// reserve returns the start time granted to this call.
func (m *MinInterval) reserve(now time.Time) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	at := now
	if m.next.After(at) {
		at = m.next
	}
	m.next = at.Add(m.Interval)
	return at
}

// release hands back a slot whose caller gave up, if nobody queued behind it.
func (m *MinInterval) release(at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.next.Equal(at.Add(m.Interval)) {
		m.next = at
	}
}

func (m *MinInterval) Fetch(ctx context.Context) (snapshot.Snapshot, error) {
	if m.Interval <= 0 {
		return m.S.Fetch(ctx)
	}
	at := m.reserve(time.Now())
	if err := sleepUntil(ctx, at); err != nil {
		m.release(at)
		return snapshot.Snapshot{}, snapshot.Abort(m.Logger, m.Name(), "waiting for min interval", err)
	}
	return m.S.Fetch(ctx)
}

func sleepUntil(ctx context.Context, at time.Time) error {
	d := time.Until(at)
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
