// Package service holds the business rules of the trading core: the wallet
// ledger, the trade engine, and price lookup. All persistence goes through
// the store interfaces.
package service

import (
	"context"

	"github.com/shopspring/decimal"

	"tradesim/internal/model"
	"tradesim/internal/store"
)

// Ledger owns per-(account, currency) balance transitions. Balance and
// available balance always move together by the same delta; there is no
// separate hold mechanism, settlement is instantaneous.
//
// No non-negativity or balance/available relationship is enforced here:
// sufficiency checks are the caller's responsibility, mirroring the
// permissive behavior this engine was specified with.
type Ledger struct {
	wallets store.WalletStore
}

func NewLedger(wallets store.WalletStore) *Ledger {
	return &Ledger{wallets: wallets}
}

// GetOrCreate never returns an absent wallet: a zero-balance wallet is
// created on first reference.
func (l *Ledger) GetOrCreate(ctx context.Context, accountID uint, currency string) (*model.Wallet, error) {
	return l.wallets.GetOrCreate(ctx, accountID, currency)
}

// Adjust moves both balance fields by delta and persists the wallet before
// returning. Negative deltas debit, positive deltas credit.
func (l *Ledger) Adjust(ctx context.Context, wallet *model.Wallet, delta decimal.Decimal) error {
	wallet.Balance = wallet.Balance.Add(delta)
	wallet.AvailableBalance = wallet.AvailableBalance.Add(delta)
	return l.wallets.Save(ctx, wallet)
}

// List returns every wallet of an account, ordered by currency.
func (l *Ledger) List(ctx context.Context, accountID uint) ([]model.Wallet, error) {
	return l.wallets.ListByAccount(ctx, accountID)
}
