package snapshot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"exchangesnapshot/internal/metrics"
	"exchangesnapshot/internal/provider/cryptocompare"
)

// Fetcher issues one top-exchanges request for BTC/USD per call and
// normalizes the result. It performs no retries.
type Fetcher struct {
	client  TopExchangesClient
	logger  *zap.Logger
	metrics *metrics.Metrics
	limit   int
}

// FetcherOption is a configuration option for the Fetcher.
type FetcherOption func(*Fetcher)

// WithLogger sets the logger used for failure diagnostics.
func WithLogger(logger *zap.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) FetcherOption {
	return func(f *Fetcher) {
		f.metrics = m
	}
}

// WithLimit overrides how many ranked exchanges are kept.
func WithLimit(n int) FetcherOption {
	return func(f *Fetcher) {
		f.limit = n
	}
}

// NewFetcher creates a Fetcher over client.
func NewFetcher(client TopExchangesClient, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client: client,
		logger: zap.NewNop(),
		limit:  TopN,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = zap.NewNop()
	}
	return f
}

func (f *Fetcher) Name() string { return "CryptoCompare" }

// FetchRaw performs the request and checks the payload shape. Every
// failure wraps ErrFetchFailed and is logged once.
func (f *Fetcher) FetchRaw(ctx context.Context) (*cryptocompare.TopExchangesResponse, error) {
	start := time.Now()
	res, err := f.client.GetTopExchangesFull(ctx, FromSymbol, ToSymbol)
	if err == nil && res == nil {
		err = fmt.Errorf("empty payload")
	}
	if err == nil {
		if _, ok := res.Data.ExchangeList(); !ok {
			err = fmt.Errorf("payload has no Data.Exchanges")
		}
	}
	if err != nil {
		f.metrics.ObserveFetch(metrics.OutcomeFailure, time.Since(start))
		f.logger.Error("fetching top exchanges",
			zap.String("provider", f.Name()),
			zap.String("fsym", FromSymbol),
			zap.String("tsym", ToSymbol),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	f.metrics.ObserveFetch(metrics.OutcomeSuccess, time.Since(start))
	return res, nil
}

// Fetch returns the normalized Snapshot of the top exchanges.
func (f *Fetcher) Fetch(ctx context.Context) (Snapshot, error) {
	res, err := f.FetchRaw(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	s, dropped, err := normalize(res, f.limit)
	if err != nil {
		return Snapshot{}, err
	}
	if dropped > 0 {
		f.logger.Warn("dropped malformed exchange entries",
			zap.Int("dropped", dropped),
			zap.Int("kept", s.Len()),
		)
		f.metrics.AddDropped(dropped)
	}
	f.metrics.SetSnapshotSize(s.Len())
	return s, nil
}
