package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradesim/internal/handler"
	"tradesim/internal/model"
	"tradesim/internal/router"
	"tradesim/internal/service"
	"tradesim/internal/store"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) (*gin.Engine, store.Store, uint) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	mem := store.NewMemory()
	ctx := context.Background()

	account := &model.Account{Username: "testuser"}
	require.NoError(t, mem.Accounts().Create(ctx, account))
	require.NoError(t, mem.Wallets().Save(ctx, &model.Wallet{
		AccountID:        account.ID,
		Currency:         "USDT",
		Balance:          decimal.NewFromInt(50000),
		AvailableBalance: decimal.NewFromInt(50000),
	}))
	require.NoError(t, mem.Quotes().Append(ctx, &model.Quote{
		Symbol:   "ETHUSDT",
		BidPrice: decimal.NewFromInt(2999),
		AskPrice: decimal.NewFromInt(3000),
		Ts:       time.Now().UTC(),
		Source:   "TEST",
	}))

	symbols := []string{"BTCUSDT", "ETHUSDT"}
	engine := service.NewTradeEngine(mem, symbols, "USDT", logger)

	r := router.NewRouter(&router.Config{
		PriceHandler:  handler.NewPriceHandler(service.NewPriceService(mem.Quotes())),
		TradeHandler:  handler.NewTradeHandler(engine, account.ID),
		WalletHandler: handler.NewWalletHandler(service.NewLedger(mem.Wallets()), account.ID),
	})
	return r, mem, account.ID
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestGetLatestPrice(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w, env := do(t, r, http.MethodGet, "/v1/prices/ETHUSDT", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	var quote model.Quote
	require.NoError(t, json.Unmarshal(env.Data, &quote))
	assert.Equal(t, "ETHUSDT", quote.Symbol)
	assert.True(t, quote.AskPrice.Equal(decimal.NewFromInt(3000)))
}

func TestGetLatestPriceUnknownSymbol(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w, env := do(t, r, http.MethodGet, "/v1/prices/XRPUSDT", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "no price data available")
}

func TestExecuteTradeEndpoint(t *testing.T) {
	r, mem, accountID := newTestRouter(t)

	w, env := do(t, r, http.MethodPost, "/v1/trades",
		`{"symbol":"ETHUSDT","side":"BUY","quantity":"2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Trade executed successfully", env.Message)

	var trade model.Trade
	require.NoError(t, json.Unmarshal(env.Data, &trade))
	assert.Equal(t, model.StatusCompleted, trade.Status)
	assert.True(t, trade.TotalAmount.Equal(decimal.NewFromInt(6000)))

	usdt, err := mem.Wallets().Get(context.Background(), accountID, "USDT")
	require.NoError(t, err)
	assert.True(t, usdt.AvailableBalance.Equal(decimal.NewFromInt(44000)))
}

func TestExecuteTradeEndpointErrors(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		message string
	}{
		{"invalid symbol", `{"symbol":"DOGEUSDT","side":"BUY","quantity":"1"}`, "invalid trading symbol"},
		{"invalid side", `{"symbol":"ETHUSDT","side":"HOLD","quantity":"1"}`, "invalid trade side"},
		{"no quote", `{"symbol":"BTCUSDT","side":"BUY","quantity":"1"}`, "no price data available"},
		{"insufficient funds", `{"symbol":"ETHUSDT","side":"BUY","quantity":"1000"}`, "insufficient funds"},
		{"missing fields", `{"side":"BUY"}`, "Symbol"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, _, _ := newTestRouter(t)
			w, env := do(t, r, http.MethodPost, "/v1/trades", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, env.Success)
			assert.Contains(t, env.Message, tc.message)
		})
	}
}

func TestWalletListEndpoint(t *testing.T) {
	r, _, _ := newTestRouter(t)

	_, _ = do(t, r, http.MethodPost, "/v1/trades",
		`{"symbol":"ETHUSDT","side":"BUY","quantity":"1"}`)

	w, env := do(t, r, http.MethodGet, "/v1/wallets", "")
	require.Equal(t, http.StatusOK, w.Code)

	var wallets []model.Wallet
	require.NoError(t, json.Unmarshal(env.Data, &wallets))
	require.Len(t, wallets, 2)
	assert.Equal(t, "ETH", wallets[0].Currency)
	assert.Equal(t, "USDT", wallets[1].Currency)
}

func TestTradeHistoryEndpoint(t *testing.T) {
	r, _, _ := newTestRouter(t)

	_, _ = do(t, r, http.MethodPost, "/v1/trades",
		`{"symbol":"ETHUSDT","side":"BUY","quantity":"1"}`)
	_, _ = do(t, r, http.MethodPost, "/v1/trades",
		`{"symbol":"ETHUSDT","side":"SELL","quantity":"1"}`)

	_, env := do(t, r, http.MethodGet, "/v1/trades", "")
	var trades []model.Trade
	require.NoError(t, json.Unmarshal(env.Data, &trades))
	require.Len(t, trades, 2)

	_, env = do(t, r, http.MethodGet, "/v1/trades/BTCUSDT", "")
	require.NoError(t, json.Unmarshal(env.Data, &trades))
	assert.Empty(t, trades)
}

func TestHealthEndpoint(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w, env := do(t, r, http.MethodGet, "/v1/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}
