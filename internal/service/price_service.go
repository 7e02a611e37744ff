package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tradesim/internal/apperr"
	"tradesim/internal/model"
	"tradesim/internal/store"
)

// PriceService answers price lookups from the durable quote history.
type PriceService struct {
	quotes store.QuoteStore
}

func NewPriceService(quotes store.QuoteStore) *PriceService {
	return &PriceService{quotes: quotes}
}

// Latest returns the most recently accepted quote for symbol.
func (p *PriceService) Latest(ctx context.Context, symbol string) (*model.Quote, error) {
	quote, err := p.quotes.LatestBySymbol(ctx, strings.ToUpper(symbol))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w for symbol %s", apperr.ErrNoQuoteAvailable, strings.ToUpper(symbol))
		}
		return nil, err
	}
	return quote, nil
}

// History returns up to limit accepted quotes for symbol, newest first.
func (p *PriceService) History(ctx context.Context, symbol string, limit int) ([]model.Quote, error) {
	return p.quotes.HistoryBySymbol(ctx, strings.ToUpper(symbol), limit)
}
