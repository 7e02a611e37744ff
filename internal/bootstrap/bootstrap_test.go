package bootstrap

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradesim/internal/store"
)

func testSeed() Seed {
	return Seed{
		Username:       "testuser",
		QuoteCurrency:  "USDT",
		StartBalance:   decimal.NewFromInt(50000),
		BaseCurrencies: []string{"BTC", "ETH"},
	}
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestRunSeedsAccountAndWallets(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	account, err := Run(ctx, mem, testSeed(), testLogger())
	require.NoError(t, err)
	assert.Equal(t, "testuser", account.Username)

	wallets, err := mem.Wallets().ListByAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, wallets, 3)

	usdt, err := mem.Wallets().Get(ctx, account.ID, "USDT")
	require.NoError(t, err)
	assert.True(t, usdt.Balance.Equal(decimal.NewFromInt(50000)))
	assert.True(t, usdt.AvailableBalance.Equal(decimal.NewFromInt(50000)))

	btc, err := mem.Wallets().Get(ctx, account.ID, "BTC")
	require.NoError(t, err)
	assert.True(t, btc.Balance.IsZero())
}

func TestRunIsIdempotent(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	first, err := Run(ctx, mem, testSeed(), testLogger())
	require.NoError(t, err)

	// Simulate a trade having drained the wallet between restarts.
	usdt, err := mem.Wallets().Get(ctx, first.ID, "USDT")
	require.NoError(t, err)
	usdt.Balance = decimal.NewFromInt(100)
	usdt.AvailableBalance = decimal.NewFromInt(100)
	require.NoError(t, mem.Wallets().Save(ctx, usdt))

	second, err := Run(ctx, mem, testSeed(), testLogger())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "account must not be recreated")

	usdt, err = mem.Wallets().Get(ctx, first.ID, "USDT")
	require.NoError(t, err)
	assert.True(t, usdt.Balance.Equal(decimal.NewFromInt(100)), "existing wallet must not be overwritten")

	wallets, err := mem.Wallets().ListByAccount(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, wallets, 3)
}
