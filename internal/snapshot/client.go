package snapshot

import (
	"context"

	"exchangesnapshot/internal/provider/cryptocompare"
)

// TopExchangesClient describes the provider call the Fetcher depends on.
//
//go:generate mockgen -package=snapshot_test -destination=mock_client_test.go -source=client.go TopExchangesClient
type TopExchangesClient interface {
	GetTopExchangesFull(ctx context.Context, fsym, tsym string) (*cryptocompare.TopExchangesResponse, error)
}
