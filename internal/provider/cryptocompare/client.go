package cryptocompare

import (
	"net/http"
	"net/url"
)

// baseURL is the public CryptoCompare min-api host.
const baseURL = "https://min-api.cryptocompare.com"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=cryptocompare_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// CryptoCompareAPIClient is a client for the CryptoCompare market-data API.
type CryptoCompareAPIClient struct {
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient is the HTTP httpClient.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
	// query contains additional query parameters to be sent with each request.
	query url.Values
}

// CryptoCompareAPIClientOption is a configuration option for the CryptoCompare API client.
type CryptoCompareAPIClientOption func(*CryptoCompareAPIClient)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) CryptoCompareAPIClientOption {
	return func(c *CryptoCompareAPIClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) CryptoCompareAPIClientOption {
	return func(c *CryptoCompareAPIClient) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) CryptoCompareAPIClientOption {
	return func(c *CryptoCompareAPIClient) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// NewCryptoCompareAPIClient creates a new CryptoCompare API client.
//
// An empty key is still sent, as "Apikey undefined", and the provider
// answers it with an authentication error.
func NewCryptoCompareAPIClient(key string, options ...CryptoCompareAPIClientOption) (*CryptoCompareAPIClient, error) {
	var cryptoCompareAPIClient = &CryptoCompareAPIClient{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		query:      url.Values{},
	}
	if key == "" {
		key = "undefined"
	}
	// https://min-api.cryptocompare.com/documentation?key=Auth
	cryptoCompareAPIClient.header.Set("Authorization", "Apikey "+key)
	for _, option := range options {
		option(cryptoCompareAPIClient)
	}
	return cryptoCompareAPIClient, nil
}
