// Package store defines the persistence interfaces the trading core depends
// on, plus the Postgres and in-memory implementations. Business rules never
// touch gorm directly; they only see these interfaces.
package store

import (
	"context"
	"errors"

	"tradesim/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

type AccountStore interface {
	Create(ctx context.Context, account *model.Account) error
	FindByID(ctx context.Context, id uint) (*model.Account, error)
	FindByUsername(ctx context.Context, username string) (*model.Account, error)
}

// QuoteStore is the append-only history of accepted quotes.
type QuoteStore interface {
	Append(ctx context.Context, quote *model.Quote) error

	// LatestBySymbol returns the most recently accepted quote for symbol,
	// by timestamp. ErrNotFound if no quote was ever accepted.
	LatestBySymbol(ctx context.Context, symbol string) (*model.Quote, error)

	HistoryBySymbol(ctx context.Context, symbol string, limit int) ([]model.Quote, error)
}

type WalletStore interface {
	// Get returns ErrNotFound when the (account, currency) wallet does not
	// exist yet.
	Get(ctx context.Context, accountID uint, currency string) (*model.Wallet, error)

	// GetOrCreate returns the wallet for (account, currency), creating it
	// with zero balances when absent. It never returns an absent result.
	GetOrCreate(ctx context.Context, accountID uint, currency string) (*model.Wallet, error)

	Save(ctx context.Context, wallet *model.Wallet) error
	ListByAccount(ctx context.Context, accountID uint) ([]model.Wallet, error)
}

type TradeStore interface {
	Create(ctx context.Context, trade *model.Trade) error
	ListByAccount(ctx context.Context, accountID uint) ([]model.Trade, error)
	ListByAccountAndSymbol(ctx context.Context, accountID uint, symbol string) ([]model.Trade, error)
}

// Store bundles the per-entity stores with a transactional commit. Everything
// done through the Store passed to the Transaction callback persists
// atomically: either all of it or none of it.
type Store interface {
	Accounts() AccountStore
	Quotes() QuoteStore
	Wallets() WalletStore
	Trades() TradeStore

	Transaction(ctx context.Context, fn func(tx Store) error) error
}
