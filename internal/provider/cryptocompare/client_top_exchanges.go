package cryptocompare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
)

var (
	// ErrUnauthorized is returned when the provider rejects the API key.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited is returned when the provider throttles the key.
	ErrRateLimited = errors.New("rate limited")
)

// GetTopExchangesFull retrieves the exchanges ranked by the provider for
// the fsym/tsym pair.
func (c *CryptoCompareAPIClient) GetTopExchangesFull(ctx context.Context, fsym, tsym string) (*TopExchangesResponse, error) {
	query := maps.Clone(c.query)
	query.Set("fsym", fsym)
	query.Set("tsym", tsym)

	url := fmt.Sprintf("%s/data/top/exchanges/full?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized

	case http.StatusTooManyRequests:
		return nil, ErrRateLimited

	default:
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return nil, fmt.Errorf("unexpected status code: %d: %s", res.StatusCode, string(b))
	}

	var body TopExchangesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding top exchanges response: %w", err)
	}
	if body.Response == ResponseError {
		return nil, fmt.Errorf("provider error: %s", body.Message)
	}

	return &body, nil
}
