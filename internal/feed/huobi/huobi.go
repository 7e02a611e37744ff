// Package huobi fetches market tickers from the Huobi REST API.
package huobi

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
	BaseURL        = "https://api.huobi.pro"
	Source         = "HUOBI"
	RequestTimeout = 10 * time.Second
)

// tickersResponse is the raw Huobi /market/tickers payload. Symbols arrive
// lower-case and prices as floats.
type tickersResponse struct {
	Status string   `json:"status"`
	Data   []ticker `json:"data"`
}

type ticker struct {
	Symbol  string  `json:"symbol"`
	Bid     float64 `json:"bid"`
	BidSize float64 `json:"bidSize"`
	Ask     float64 `json:"ask"`
	AskSize float64 `json:"askSize"`
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

	url := a.baseURL + "/market/tickers"
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

	var payload tickersResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if payload.Status != "ok" {
		return nil, fmt.Errorf("unexpected payload status %q", payload.Status)
	}

	return a.normalize(payload.Data), nil
}

// normalize converts raw tickers into quotes, skipping entries without a
// usable bid/ask pair.
func (a *Adapter) normalize(tickers []ticker) []model.Quote {
	now := time.Now().UTC()
	quotes := make([]model.Quote, 0, len(tickers))
	for _, t := range tickers {
		if t.Symbol == "" || t.Bid <= 0 || t.Ask <= 0 {
			a.logger.WithField("symbol", t.Symbol).Debug("Skipping ticker without bid/ask")
			continue
		}

		quote := model.Quote{
			Symbol:   strings.ToUpper(t.Symbol),
			BidPrice: decimal.NewFromFloat(t.Bid),
			AskPrice: decimal.NewFromFloat(t.Ask),
			Ts:       now,
			Source:   Source,
		}
		if t.BidSize > 0 {
			quote.BidQty = decimal.NewNullDecimal(decimal.NewFromFloat(t.BidSize))
		}
		if t.AskSize > 0 {
			quote.AskQty = decimal.NewNullDecimal(decimal.NewFromFloat(t.AskSize))
		}
		quotes = append(quotes, quote)
	}
	return quotes
}
