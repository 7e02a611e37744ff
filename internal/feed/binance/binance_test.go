package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/ticker/bookTicker", r.URL.Path)
		w.Write([]byte(`[
			{"symbol":"BTCUSDT","bidPrice":"50000.10","bidQty":"3.5","askPrice":"50001.20","askQty":"1.2"},
			{"symbol":"ETHUSDT","bidPrice":"2999","bidQty":"10","askPrice":"3000","askQty":"8"}
		]`))
	}))
	defer server.Close()

	adapter := NewWithBaseURL(testLogger(), server.URL)
	quotes, err := adapter.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	btc := quotes[0]
	assert.Equal(t, "BTCUSDT", btc.Symbol)
	assert.Equal(t, Source, btc.Source)
	assert.True(t, btc.BidPrice.Equal(decimal.RequireFromString("50000.10")))
	assert.True(t, btc.AskPrice.Equal(decimal.RequireFromString("50001.20")))
	require.True(t, btc.BidQty.Valid)
	assert.True(t, btc.BidQty.Decimal.Equal(decimal.RequireFromString("3.5")))
}

func TestFetchSkipsMalformedEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"symbol":"BTCUSDT","bidPrice":"not-a-number","askPrice":"50001"},
			{"symbol":"","bidPrice":"1","askPrice":"2"},
			{"symbol":"ETHUSDT","bidPrice":"2999","askPrice":"3000"}
		]`))
	}))
	defer server.Close()

	adapter := NewWithBaseURL(testLogger(), server.URL)
	quotes, err := adapter.Fetch(context.Background())
	require.NoError(t, err, "malformed entries must not abort the batch")
	require.Len(t, quotes, 1)
	assert.Equal(t, "ETHUSDT", quotes[0].Symbol)
	assert.False(t, quotes[0].BidQty.Valid, "missing qty stays null")
}

func TestFetchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	adapter := NewWithBaseURL(testLogger(), server.URL)
	_, err := adapter.Fetch(context.Background())
	assert.Error(t, err)
}
