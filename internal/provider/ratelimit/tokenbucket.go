package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"exchangesnapshot/internal/snapshot"
)

// TokenBucket allows bursts of up to capacity calls and refills at rate
// tokens per second. Waiters take their token up front, driving the
// balance negative, so each one is handed a distinct point in time.
type TokenBucket struct {
	rate     float64
	capacity float64

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

func NewTokenBucket(tokensPerSecond float64, burst int) *TokenBucket {
	if tokensPerSecond <= 0 {
		tokensPerSecond = 1e-7
	}
	if burst <= 0 {
		burst = 1
	}
	return &TokenBucket{
		rate:     tokensPerSecond,
		capacity: float64(burst),
		tokens:   float64(burst),
		last:     time.Now(),
	}
}

// reserve debits one token and reports how long the caller must wait
// before using it.
func (tb *TokenBucket) reserve(now time.Time) time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if elapsed := now.Sub(tb.last).Seconds(); elapsed > 0 {
		tb.tokens = min(tb.capacity, tb.tokens+elapsed*tb.rate)
		tb.last = now
	}
	tb.tokens--
	if tb.tokens >= 0 {
		return 0
	}
	return time.Duration(-tb.tokens / tb.rate * float64(time.Second))
}

// refund returns a token whose caller stopped waiting.
func (tb *TokenBucket) refund() {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.tokens = min(tb.capacity, tb.tokens+1)
}

// Wait blocks until the caller's token is due or ctx is canceled.
func (tb *TokenBucket) Wait(ctx context.Context) error {
	d := tb.reserve(time.Now())
	if err := sleepUntil(ctx, time.Now().Add(d)); err != nil {
		tb.refund()
		return err
	}
	return nil
}

// TokenBucketSource gates fetches of S with a token bucket.
type TokenBucketSource struct {
	S      snapshot.Source
	TB     *TokenBucket
	Logger *zap.Logger
}

func (t *TokenBucketSource) Name() string { return t.S.Name() }

func (t *TokenBucketSource) Fetch(ctx context.Context) (snapshot.Snapshot, error) {
	if t.TB != nil {
		if err := t.TB.Wait(ctx); err != nil {
			return snapshot.Snapshot{}, snapshot.Abort(t.Logger, t.Name(), "waiting for rate limit", err)
		}
	}
	return t.S.Fetch(ctx)
}

// Wrap applies the limiter the settings ask for: a token bucket when
// maxPerMinute is set, otherwise a minimum interval, otherwise none.
func Wrap(s snapshot.Source, maxPerMinute, burst int, minInterval time.Duration, logger *zap.Logger) snapshot.Source {
	switch {
	case maxPerMinute > 0:
		return &TokenBucketSource{S: s, TB: NewTokenBucket(float64(maxPerMinute)/60.0, burst), Logger: logger}
	case minInterval > 0:
		return &MinInterval{S: s, Interval: minInterval, Logger: logger}
	default:
		return s
	}
}
