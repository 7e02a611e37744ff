package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"tradesim/internal/apperr"
	"tradesim/internal/model"
	"tradesim/internal/store"
)

// TradeEngine validates and settles market orders against the latest
// persisted quote. Settlement is atomic: both wallet mutations and the trade
// record commit together or not at all.
type TradeEngine struct {
	store         store.Store
	symbols       map[string]struct{}
	quoteCurrency string
	locks         walletLocks
	logger        *logrus.Entry
}

func NewTradeEngine(st store.Store, symbols []string, quoteCurrency string, logger *logrus.Logger) *TradeEngine {
	set := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		set[strings.ToUpper(s)] = struct{}{}
	}
	return &TradeEngine{
		store:         st,
		symbols:       set,
		quoteCurrency: strings.ToUpper(quoteCurrency),
		locks:         walletLocks{held: make(map[string]*sync.Mutex)},
		logger:        logger.WithField("component", "trade-engine"),
	}
}

// ExecuteTrade settles a market BUY or SELL of quantity units of the
// symbol's base asset for accountID. It returns the completed trade record,
// or one of the apperr sentinels with no side effects.
func (e *TradeEngine) ExecuteTrade(ctx context.Context, accountID uint, symbol, side string, quantity decimal.Decimal) (*model.Trade, error) {
	if !quantity.IsPositive() {
		return nil, apperr.NewValidation("quantity", quantity.String(), apperr.ErrInvalidQuantity)
	}

	normalized := strings.ToUpper(symbol)
	if _, ok := e.symbols[normalized]; !ok {
		return nil, apperr.NewValidation("symbol", symbol, apperr.ErrInvalidSymbol)
	}

	normalizedSide := strings.ToUpper(side)
	if normalizedSide != model.SideBuy && normalizedSide != model.SideSell {
		return nil, apperr.NewValidation("side", side, apperr.ErrInvalidSide)
	}

	baseCurrency := e.baseCurrency(normalized)

	// Settlement uses the durable record, not the in-memory cache.
	quote, err := e.store.Quotes().LatestBySymbol(ctx, normalized)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w for symbol %s", apperr.ErrNoQuoteAvailable, normalized)
		}
		return nil, err
	}

	// Serialize concurrent trades touching the same wallets. Disjoint
	// (account, currency) pairs proceed in parallel.
	unlock := e.locks.lock(
		walletKey(accountID, baseCurrency),
		walletKey(accountID, e.quoteCurrency),
	)
	defer unlock()

	execPrice := quote.AskPrice
	if normalizedSide == model.SideSell {
		execPrice = quote.BidPrice
	}
	totalAmount := quantity.Mul(execPrice)

	var trade *model.Trade
	err = e.store.Transaction(ctx, func(tx store.Store) error {
		ledger := NewLedger(tx.Wallets())

		if normalizedSide == model.SideBuy {
			if err := e.settleBuy(ctx, ledger, accountID, baseCurrency, quantity, totalAmount); err != nil {
				return err
			}
		} else {
			if err := e.settleSell(ctx, ledger, accountID, baseCurrency, quantity, totalAmount); err != nil {
				return err
			}
		}

		trade = &model.Trade{
			TradeID:     uuid.NewString(),
			AccountID:   accountID,
			Symbol:      normalized,
			Side:        normalizedSide,
			Quantity:    quantity,
			Price:       execPrice,
			TotalAmount: totalAmount,
			Ts:          time.Now().UTC(),
			Status:      model.StatusCompleted,
		}
		return tx.Trades().Create(ctx, trade)
	})
	if err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"trade_id": trade.TradeID,
		"symbol":   trade.Symbol,
		"side":     trade.Side,
		"quantity": trade.Quantity,
		"price":    trade.Price,
	}).Info("Trade settled")
	return trade, nil
}

// settleBuy debits totalAmount of the quote currency and credits quantity of
// the base asset. Available balance equal to the required amount succeeds.
func (e *TradeEngine) settleBuy(ctx context.Context, ledger *Ledger, accountID uint, baseCurrency string, quantity, totalAmount decimal.Decimal) error {
	quoteWallet, err := ledger.GetOrCreate(ctx, accountID, e.quoteCurrency)
	if err != nil {
		return err
	}
	if quoteWallet.AvailableBalance.LessThan(totalAmount) {
		return fmt.Errorf("%w: %s balance %s below required %s",
			apperr.ErrInsufficientFunds, e.quoteCurrency, quoteWallet.AvailableBalance, totalAmount)
	}
	if err := ledger.Adjust(ctx, quoteWallet, totalAmount.Neg()); err != nil {
		return err
	}

	baseWallet, err := ledger.GetOrCreate(ctx, accountID, baseCurrency)
	if err != nil {
		return err
	}
	return ledger.Adjust(ctx, baseWallet, quantity)
}

// settleSell debits quantity of the base asset and credits totalAmount of
// the quote currency. A missing base wallet counts as zero balance.
func (e *TradeEngine) settleSell(ctx context.Context, ledger *Ledger, accountID uint, baseCurrency string, quantity, totalAmount decimal.Decimal) error {
	baseWallet, err := ledger.GetOrCreate(ctx, accountID, baseCurrency)
	if err != nil {
		return err
	}
	if baseWallet.AvailableBalance.LessThan(quantity) {
		return fmt.Errorf("%w: %s balance %s below required %s",
			apperr.ErrInsufficientFunds, baseCurrency, baseWallet.AvailableBalance, quantity)
	}
	if err := ledger.Adjust(ctx, baseWallet, quantity.Neg()); err != nil {
		return err
	}

	quoteWallet, err := ledger.GetOrCreate(ctx, accountID, e.quoteCurrency)
	if err != nil {
		return err
	}
	return ledger.Adjust(ctx, quoteWallet, totalAmount)
}

// History returns the account's trades, newest first, optionally filtered by
// symbol.
func (e *TradeEngine) History(ctx context.Context, accountID uint, symbol string) ([]model.Trade, error) {
	if symbol == "" {
		return e.store.Trades().ListByAccount(ctx, accountID)
	}
	return e.store.Trades().ListByAccountAndSymbol(ctx, accountID, strings.ToUpper(symbol))
}

// baseCurrency strips the fixed quote-currency suffix, so BTCUSDT -> BTC.
func (e *TradeEngine) baseCurrency(symbol string) string {
	return strings.TrimSuffix(symbol, e.quoteCurrency)
}

func walletKey(accountID uint, currency string) string {
	return fmt.Sprintf("%d|%s", accountID, currency)
}

// walletLocks is a striped mutex keyed by (account, currency). lock acquires
// every key in sorted order to avoid lock-order inversion between trades.
type walletLocks struct {
	mu   sync.Mutex
	held map[string]*sync.Mutex
}

func (w *walletLocks) lock(keys ...string) (unlock func()) {
	sort.Strings(keys)

	acquired := make([]*sync.Mutex, 0, len(keys))
	var last string
	for _, key := range keys {
		if key == last {
			continue
		}
		last = key

		w.mu.Lock()
		m, ok := w.held[key]
		if !ok {
			m = &sync.Mutex{}
			w.held[key] = m
		}
		w.mu.Unlock()

		m.Lock()
		acquired = append(acquired, m)
	}

	return func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			acquired[i].Unlock()
		}
	}
}
