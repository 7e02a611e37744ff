// Package bootstrap idempotently seeds the default account and its starting
// wallets.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"tradesim/internal/model"
	"tradesim/internal/store"
)

type Seed struct {
	// Username of the default account.
	Username string

	// QuoteCurrency receives the starting balance; the base currencies
	// start at zero.
	QuoteCurrency string
	StartBalance  decimal.Decimal

	// BaseCurrencies to create empty wallets for.
	BaseCurrencies []string
}

// Run ensures the seed account and wallets exist. Existing wallets are never
// overwritten, so re-running after trades is safe. It returns the default
// account.
func Run(ctx context.Context, st store.Store, seed Seed, logger *logrus.Logger) (*model.Account, error) {
	log := logger.WithField("component", "bootstrap")

	account, err := st.Accounts().FindByUsername(ctx, seed.Username)
	switch {
	case err == nil:
		log.WithField("account_id", account.ID).Info("Default account already exists")
	case errors.Is(err, store.ErrNotFound):
		account = &model.Account{
			Username: seed.Username,
			Email:    fmt.Sprintf("%s@tradesim.local", seed.Username),
		}
		if err := st.Accounts().Create(ctx, account); err != nil {
			return nil, fmt.Errorf("create default account: %w", err)
		}
		log.WithField("account_id", account.ID).Info("Created default account")
	default:
		return nil, err
	}

	if err := ensureWallet(ctx, st, account.ID, seed.QuoteCurrency, seed.StartBalance, log); err != nil {
		return nil, err
	}
	for _, currency := range seed.BaseCurrencies {
		if err := ensureWallet(ctx, st, account.ID, currency, decimal.Zero, log); err != nil {
			return nil, err
		}
	}

	return account, nil
}

func ensureWallet(ctx context.Context, st store.Store, accountID uint, currency string, balance decimal.Decimal, log *logrus.Entry) error {
	_, err := st.Wallets().Get(ctx, accountID, currency)
	if err == nil {
		log.WithField("currency", currency).Info("Wallet already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	wallet := &model.Wallet{
		AccountID:        accountID,
		Currency:         currency,
		Balance:          balance,
		AvailableBalance: balance,
	}
	if err := st.Wallets().Save(ctx, wallet); err != nil {
		return fmt.Errorf("seed %s wallet: %w", currency, err)
	}
	log.WithFields(logrus.Fields{"currency": currency, "balance": balance}).Info("Seeded wallet")
	return nil
}
