// Package binance fetches best bid/ask tickers from the Binance REST API.
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"tradesim/internal/model"
)

const (
	BaseURL        = "https://api.binance.com"
	Source         = "BINANCE"
	RequestTimeout = 10 * time.Second
)

// bookTicker is the raw Binance /api/v3/ticker/bookTicker entry. All numeric
// fields arrive as strings.
type bookTicker struct {
	Symbol   string `json:"symbol"`
	BidPrice string `json:"bidPrice"`
	BidQty   string `json:"bidQty"`
	AskPrice string `json:"askPrice"`
	AskQty   string `json:"askQty"`
}

type Adapter struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logrus.Entry
}

func New(logger *logrus.Logger) *Adapter {
	return NewWithBaseURL(logger, BaseURL)
}

// NewWithBaseURL allows pointing the adapter at a test server.
func NewWithBaseURL(logger *logrus.Logger, baseURL string) *Adapter {
	return &Adapter{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: RequestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(2), 2),
		logger:     logger.WithField("venue", strings.ToLower(Source)),
	}
}

func (a *Adapter) Name() string { return Source }

func (a *Adapter) Fetch(ctx context.Context) ([]model.Quote, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := a.baseURL + "/api/v3/ticker/bookTicker"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var tickers []bookTicker
	if err := json.NewDecoder(resp.Body).Decode(&tickers); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return a.normalize(tickers), nil
}

// normalize converts raw tickers into quotes, skipping entries whose
// numeric fields do not parse.
func (a *Adapter) normalize(tickers []bookTicker) []model.Quote {
	now := time.Now().UTC()
	quotes := make([]model.Quote, 0, len(tickers))
	for _, t := range tickers {
		if t.Symbol == "" {
			continue
		}
		bid, err := decimal.NewFromString(t.BidPrice)
		if err != nil {
			a.logger.WithField("symbol", t.Symbol).Debug("Skipping ticker with bad bid price")
			continue
		}
		ask, err := decimal.NewFromString(t.AskPrice)
		if err != nil {
			a.logger.WithField("symbol", t.Symbol).Debug("Skipping ticker with bad ask price")
			continue
		}

		quote := model.Quote{
			Symbol:   strings.ToUpper(t.Symbol),
			BidPrice: bid,
			AskPrice: ask,
			Ts:       now,
			Source:   Source,
		}
		if qty, err := decimal.NewFromString(t.BidQty); err == nil {
			quote.BidQty = decimal.NewNullDecimal(qty)
		}
		if qty, err := decimal.NewFromString(t.AskQty); err == nil {
			quote.AskQty = decimal.NewNullDecimal(qty)
		}
		quotes = append(quotes, quote)
	}
	return quotes
}
