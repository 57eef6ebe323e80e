package cryptocompare_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	cryptocompare "exchangesnapshot/internal/provider/cryptocompare"
)

// okResponse returns a minimal successful top-exchanges body.
func okResponse(t *testing.T) *http.Response {
	t.Helper()

	buffer := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(buffer).Encode(map[string]any{
		"Response": "Success",
		"Data":     map[string]any{"Exchanges": []any{}},
	}))

	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(buffer),
	}
}

func TestNewCryptoCompareAPIClient(t *testing.T) {
	t.Parallel()

	// Assert: a valid key should return a client.
	client, err := cryptocompare.NewCryptoCompareAPIClient("test")
	require.NoErrorf(t, err, "unexpected error: %v", err)
	require.NotNilf(t, client, "unexpected nil client")
}

func TestNewCryptoCompareAPIClient_AuthorizationHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "with key", key: "secret", want: "Apikey secret"},
		{name: "without key", key: "", want: "Apikey undefined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Arrange: create a mock http client
			ctrl := gomock.NewController(t)
			httpClient := NewMockHTTPClient(ctrl)

			// Assert: the credential travels in the authorization header
			httpClient.EXPECT().
				Do(gomock.Any()).
				DoAndReturn(func(req *http.Request) (*http.Response, error) {
					require.Equal(t, tt.want, req.Header.Get("authorization"))
					return okResponse(t), nil
				}).
				Times(1)

			client, err := cryptocompare.NewCryptoCompareAPIClient(tt.key, cryptocompare.WithHTTPClient(httpClient))
			require.NoError(t, err)

			// Act: perform a request.
			_, err = client.GetTopExchangesFull(t.Context(), "BTC", "USD")
			require.NoError(t, err)
		})
	}
}

func TestWithBaseURL(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock http client
	httpClient := NewMockHTTPClient(ctrl)

	// Arrange: define a base url
	baseURL := "http://localhost:8080"

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Truef(t, strings.HasPrefix(req.URL.String(), baseURL), "expected url to start with base url, received: %s", req.URL.String())
			return okResponse(t), nil
		}).
		Times(1)

	// Arrange: create a new client.
	client, err := cryptocompare.NewCryptoCompareAPIClient("test", cryptocompare.WithHTTPClient(httpClient), cryptocompare.WithBaseURL(baseURL))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call GetTopExchangesFull with the overridden base URL.
	_, err = client.GetTopExchangesFull(t.Context(), "BTC", "USD")
	require.NoError(t, err)
}

func TestWithHeader(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock http client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method to check the extra header
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "bar", req.Header.Get("foo"))
			require.Equal(t, "Apikey test", req.Header.Get("Authorization"))
			return okResponse(t), nil
		}).
		Times(1)

	// Arrange: create a new client with a custom header.
	client, err := cryptocompare.NewCryptoCompareAPIClient("test", cryptocompare.WithHTTPClient(httpClient), cryptocompare.WithHeader(http.Header{
		"foo": []string{"bar"},
	}))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call GetTopExchangesFull with the custom header.
	_, err = client.GetTopExchangesFull(t.Context(), "BTC", "USD")
	require.NoError(t, err)
}
