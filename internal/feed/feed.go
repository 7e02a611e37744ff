// Package feed defines the venue adapter contract. Each venue package fetches
// raw ticker data over HTTP and normalizes it into model.Quote before the
// aggregation core ever sees it.
package feed

import (
	"context"

	"tradesim/internal/model"
)

// Adapter fetches one poll's worth of tickers from a single venue.
// Implementations must apply a bounded request timeout and skip malformed
// entries instead of failing the whole batch.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context) ([]model.Quote, error)
}
