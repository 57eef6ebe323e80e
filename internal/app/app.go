// Package app assembles the snapshot source from configuration.
package app

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"exchangesnapshot/internal/config"
	"exchangesnapshot/internal/httpx"
	"exchangesnapshot/internal/metrics"
	"exchangesnapshot/internal/provider/cryptocompare"
	"exchangesnapshot/internal/provider/ratelimit"
	"exchangesnapshot/internal/snapshot"
)

const userAgent = "exchange-snapshot/1.0"

// NewSource builds the CryptoCompare fetcher and wraps it with the
// configured outbound rate limit. m may be nil.
func NewSource(cfg config.Config, logger *zap.Logger, m *metrics.Metrics) (snapshot.Source, error) {
	if cfg.CryptoCompare.APIKey == "" {
		logger.Warn("CRYPTOCOMPARE_API_KEY not set; the provider will reject requests")
	}

	httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)
	httpClient.UserAgent = userAgent

	opts := []cryptocompare.CryptoCompareAPIClientOption{
		cryptocompare.WithHTTPClient(httpClient),
		cryptocompare.WithHeader(http.Header{"Accept": []string{"application/json"}}),
	}
	if cfg.CryptoCompare.BaseURL != "" {
		opts = append(opts, cryptocompare.WithBaseURL(cfg.CryptoCompare.BaseURL))
	}
	client, err := cryptocompare.NewCryptoCompareAPIClient(cfg.CryptoCompare.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("cryptocompare client: %w", err)
	}

	fetcher := snapshot.NewFetcher(client,
		snapshot.WithLogger(logger.With(zap.String("component", "fetcher"))),
		snapshot.WithMetrics(m),
	)
	return ratelimit.Wrap(fetcher,
		cfg.CryptoCompare.MaxRequestsPerMinute,
		cfg.CryptoCompare.Burst,
		time.Duration(cfg.CryptoCompare.MinRequestIntervalSec)*time.Second,
		logger.With(zap.String("component", "ratelimit")),
	), nil
}
