// Package aggregator drives the venue adapters on a fixed schedule and
// arbitrates competing quotes per symbol.
package aggregator

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"tradesim/internal/apperr"
	"tradesim/internal/feed"
	"tradesim/internal/model"
	"tradesim/internal/store"
)

// Publisher receives every accepted quote. The websocket hub implements it;
// a nil publisher disables broadcasting.
type Publisher interface {
	Publish(quote model.Quote)
}

type Config struct {
	// Interval between aggregation cycles.
	Interval time.Duration

	// VenueTimeout bounds a single venue fetch.
	VenueTimeout time.Duration

	// Symbols is the supported symbol universe; quotes for anything else
	// are dropped. Matching is case-insensitive.
	Symbols []string
}

type Aggregator struct {
	adapters  []feed.Adapter
	quotes    store.QuoteStore
	cache     *Cache
	publisher Publisher
	symbols   map[string]struct{}
	cfg       Config
	logger    *logrus.Entry
}

func New(cfg Config, adapters []feed.Adapter, quotes store.QuoteStore, cache *Cache, publisher Publisher, logger *logrus.Logger) *Aggregator {
	symbols := make(map[string]struct{}, len(cfg.Symbols))
	for _, s := range cfg.Symbols {
		symbols[strings.ToUpper(s)] = struct{}{}
	}
	return &Aggregator{
		adapters:  adapters,
		quotes:    quotes,
		cache:     cache,
		publisher: publisher,
		symbols:   symbols,
		cfg:       cfg,
		logger:    logger.WithField("component", "aggregator"),
	}
}

// Cache exposes the best-quote cache for read paths.
func (a *Aggregator) Cache() *Cache { return a.cache }

// Run executes aggregation cycles until ctx is cancelled. Cycles never
// overlap: the next tick is consumed only after the current cycle finishes.
func (a *Aggregator) Run(ctx context.Context) {
	a.logger.WithField("interval", a.cfg.Interval).Info("Starting price aggregation loop")

	a.runCycle(ctx)

	ticker := time.NewTicker(a.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Stopping price aggregation loop")
			return
		case <-ticker.C:
			a.runCycle(ctx)
		}
	}
}

// runCycle polls every venue once. A failing venue is logged and skipped;
// the cycle always completes. A cycle in which every fetch fails simply
// leaves cache and store unchanged.
func (a *Aggregator) runCycle(ctx context.Context) {
	accepted := 0
	for _, adapter := range a.adapters {
		fetchCtx, cancel := context.WithTimeout(ctx, a.cfg.VenueTimeout)
		quotes, err := adapter.Fetch(fetchCtx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			fetchErr := &apperr.FetchError{Venue: adapter.Name(), Err: err}
			a.logger.WithError(fetchErr).Warn("Venue fetch failed")
			continue
		}

		for _, quote := range quotes {
			if !a.relevant(quote.Symbol) {
				continue
			}
			if a.process(ctx, quote) {
				accepted++
			}
		}
	}
	a.logger.WithField("accepted", accepted).Debug("Aggregation cycle completed")
}

func (a *Aggregator) relevant(symbol string) bool {
	_, ok := a.symbols[strings.ToUpper(symbol)]
	return ok
}

// process applies the dominance rule and, on acceptance, persists the quote
// and updates the cache. Rejected quotes leave no trace.
func (a *Aggregator) process(ctx context.Context, quote model.Quote) bool {
	quote.Symbol = strings.ToUpper(quote.Symbol)

	if !a.dominates(quote) {
		return false
	}

	// Persist first: the trade engine settles against the durable record,
	// so the cache must never get ahead of the store.
	if err := a.quotes.Append(ctx, &quote); err != nil {
		a.logger.WithError(err).WithField("symbol", quote.Symbol).Error("Failed to persist quote")
		return false
	}
	a.cache.put(quote)
	if a.publisher != nil {
		a.publisher.Publish(quote)
	}

	a.logger.WithFields(logrus.Fields{
		"symbol": quote.Symbol,
		"bid":    quote.BidPrice,
		"ask":    quote.AskPrice,
		"source": quote.Source,
	}).Debug("Accepted best quote")
	return true
}

// dominates reports whether quote beats the cached best quote for its
// symbol. A strictly lower ask or a strictly higher bid is enough on its
// own, even if the other side is worse. Equal-on-both-sides is rejected.
func (a *Aggregator) dominates(quote model.Quote) bool {
	current, ok := a.cache.Get(quote.Symbol)
	if !ok {
		return true
	}
	return quote.AskPrice.LessThan(current.AskPrice) ||
		quote.BidPrice.GreaterThan(current.BidPrice)
}
