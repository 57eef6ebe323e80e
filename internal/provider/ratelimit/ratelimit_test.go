package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"exchangesnapshot/internal/snapshot"
)

type countingSource struct {
	calls atomic.Int32

	mu  sync.Mutex
	ats []time.Time
}

func (c *countingSource) Name() string { return "counting" }
func (c *countingSource) Fetch(context.Context) (snapshot.Snapshot, error) {
	c.calls.Add(1)
	c.mu.Lock()
	c.ats = append(c.ats, time.Now())
	c.mu.Unlock()
	return snapshot.New([]snapshot.ExchangeQuote{{Market: "Kraken"}}), nil
}

func (c *countingSource) times() []time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Time(nil), c.ats...)
}

// fetchConcurrently runs n fetches at once and waits for all of them.
func fetchConcurrently(s snapshot.Source, n int) []error {
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.Fetch(context.Background())
		}()
	}
	wg.Wait()
	return errs
}

func requireSpaced(t *testing.T, ats []time.Time, gap time.Duration) {
	t.Helper()
	for i := 1; i < len(ats); i++ {
		require.GreaterOrEqual(t, ats[i].Sub(ats[i-1]), gap, "fetch %d followed fetch %d too closely", i+1, i)
	}
}

func TestTokenBucket_BurstThenBlocks(t *testing.T) {
	src := &countingSource{}
	s := &TokenBucketSource{S: src, TB: NewTokenBucket(0.001, 2)}

	for i := 0; i < 2; i++ {
		_, err := s.Fetch(t.Context())
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	_, err := s.Fetch(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.ErrorIs(t, err, snapshot.ErrFetchFailed)
	require.Equal(t, int32(2), src.calls.Load())
}

func TestTokenBucket_Refills(t *testing.T) {
	tb := NewTokenBucket(100, 1)
	require.NoError(t, tb.Wait(t.Context()))

	start := time.Now()
	require.NoError(t, tb.Wait(t.Context()))
	require.Less(t, time.Since(start), time.Second)
}

func TestTokenBucket_ConcurrentWaitersAreSpaced(t *testing.T) {
	// Arrange
	src := &countingSource{}
	s := &TokenBucketSource{S: src, TB: NewTokenBucket(10, 1)}

	// Act
	errs := fetchConcurrently(s, 3)

	// Assert
	for _, err := range errs {
		require.NoError(t, err)
	}
	ats := src.times()
	require.Len(t, ats, 3)
	requireSpaced(t, ats, 80*time.Millisecond)
}

func TestTokenBucket_CanceledWaiterRefunds(t *testing.T) {
	tb := NewTokenBucket(10, 1)
	require.NoError(t, tb.Wait(t.Context()))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	require.ErrorIs(t, tb.Wait(ctx), context.Canceled)

	start := time.Now()
	require.NoError(t, tb.Wait(t.Context()))
	require.Less(t, time.Since(start), 150*time.Millisecond)
}

func TestMinInterval(t *testing.T) {
	src := &countingSource{}
	s := &MinInterval{S: src, Interval: time.Hour}

	_, err := s.Fetch(t.Context())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	_, err = s.Fetch(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.ErrorIs(t, err, snapshot.ErrFetchFailed)
	require.Equal(t, int32(1), src.calls.Load())
}

func TestMinInterval_ConcurrentCallersAreSpaced(t *testing.T) {
	// Arrange
	const interval = 100 * time.Millisecond
	src := &countingSource{}
	s := &MinInterval{S: src, Interval: interval}
	_, err := s.Fetch(t.Context())
	require.NoError(t, err)

	// Act
	errs := fetchConcurrently(s, 2)

	// Assert
	for _, err := range errs {
		require.NoError(t, err)
	}
	ats := src.times()
	require.Len(t, ats, 3)
	requireSpaced(t, ats, interval-20*time.Millisecond)
}

func TestMinInterval_CanceledCallerReleasesSlot(t *testing.T) {
	const interval = 200 * time.Millisecond
	src := &countingSource{}
	s := &MinInterval{S: src, Interval: interval}
	_, err := s.Fetch(t.Context())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	_, err = s.Fetch(ctx)
	require.Error(t, err)

	start := time.Now()
	_, err = s.Fetch(t.Context())
	require.NoError(t, err)
	require.Less(t, time.Since(start), interval+100*time.Millisecond)
}

func TestAbortedWaitIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	src := &countingSource{}
	s := Wrap(src, 1, 1, 0, zap.New(core))

	_, err := s.Fetch(t.Context())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	_, err = s.Fetch(ctx)

	require.ErrorIs(t, err, snapshot.ErrFetchFailed)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	entries := logs.FilterMessage("fetch aborted").All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	require.Equal(t, "counting", entries[0].ContextMap()["provider"])
}

func TestWrap(t *testing.T) {
	src := &countingSource{}

	require.IsType(t, &TokenBucketSource{}, Wrap(src, 30, 1, time.Second, nil))
	require.IsType(t, &MinInterval{}, Wrap(src, 0, 1, time.Second, nil))
	require.Same(t, src, Wrap(src, 0, 0, 0, nil))
	require.Equal(t, "counting", Wrap(src, 30, 1, 0, nil).Name())
}
