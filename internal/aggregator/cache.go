package aggregator

import (
	"strings"
	"sync"

	"tradesim/internal/model"
)

// Cache holds the current best quote per symbol. It is written only by the
// aggregation cycle and read concurrently by API handlers, so readers always
// observe a complete quote, never a partial update.
type Cache struct {
	mu   sync.RWMutex
	best map[string]model.Quote
}

func NewCache() *Cache {
	return &Cache{best: make(map[string]model.Quote)}
}

// Get returns the cached best quote for symbol, case-insensitively.
func (c *Cache) Get(symbol string) (model.Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	quote, ok := c.best[strings.ToUpper(symbol)]
	return quote, ok
}

// Snapshot returns a copy of every cached best quote.
func (c *Cache) Snapshot() map[string]model.Quote {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]model.Quote, len(c.best))
	for symbol, quote := range c.best {
		out[symbol] = quote
	}
	return out
}

// put is unexported: the aggregator is the cache's single writer.
func (c *Cache) put(quote model.Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.best[strings.ToUpper(quote.Symbol)] = quote
}
