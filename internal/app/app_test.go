package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"exchangesnapshot/internal/config"
	"exchangesnapshot/internal/provider/ratelimit"
	"exchangesnapshot/internal/snapshot"
)

const body = `{"Response":"Success","Data":{"Exchanges":[
	{"MARKET":"Binance","PRICE":67000.5,"VOLUME24HOUR":1500.25},
	{"MARKET":"Coinbase","PRICE":67123.45,"VOLUME24HOUR":812.3}
]}}`

func TestNewSource_FetchesThroughConfiguredStack(t *testing.T) {
	// Arrange
	var gotAuth, gotUA, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.CryptoCompare.APIKey = "secret"
	cfg.CryptoCompare.BaseURL = srv.URL

	// Act
	src, err := NewSource(cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	s, err := src.Fetch(t.Context())

	// Assert
	require.NoError(t, err)
	require.IsType(t, &ratelimit.TokenBucketSource{}, src)
	require.Equal(t, "CryptoCompare", src.Name())
	require.Equal(t, []string{"Binance", "Coinbase"}, s.Labels())
	require.Equal(t, "Apikey secret", gotAuth)
	require.Equal(t, "exchange-snapshot/1.0", gotUA)
	require.Equal(t, "fsym=BTC&tsym=USD", gotQuery)
}

func TestNewSource_NoLimit(t *testing.T) {
	cfg := config.Default()
	cfg.CryptoCompare.MaxRequestsPerMinute = 0

	src, err := NewSource(cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	require.IsType(t, &snapshot.Fetcher{}, src)
}
