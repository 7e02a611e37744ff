package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradesim/internal/model"
)

func TestMemoryTransactionCommit(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	err := mem.Transaction(ctx, func(tx Store) error {
		wallet, err := tx.Wallets().GetOrCreate(ctx, 1, "USDT")
		if err != nil {
			return err
		}
		wallet.Balance = decimal.NewFromInt(10)
		wallet.AvailableBalance = decimal.NewFromInt(10)
		return tx.Wallets().Save(ctx, wallet)
	})
	require.NoError(t, err)

	wallet, err := mem.Wallets().Get(ctx, 1, "USDT")
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(10)))
}

func TestMemoryTransactionRollback(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	_, err := mem.Wallets().GetOrCreate(ctx, 1, "USDT")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = mem.Transaction(ctx, func(tx Store) error {
		wallet, err := tx.Wallets().Get(ctx, 1, "USDT")
		if err != nil {
			return err
		}
		wallet.Balance = decimal.NewFromInt(99)
		if err := tx.Wallets().Save(ctx, wallet); err != nil {
			return err
		}
		if _, err := tx.Wallets().GetOrCreate(ctx, 1, "BTC"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	wallet, err := mem.Wallets().Get(ctx, 1, "USDT")
	require.NoError(t, err)
	assert.True(t, wallet.Balance.IsZero(), "staged mutation must not leak")

	_, err = mem.Wallets().Get(ctx, 1, "BTC")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryLatestQuoteByTimestamp(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// Insertion order deliberately differs from timestamp order.
	for _, q := range []model.Quote{
		{Symbol: "BTCUSDT", Source: "A", Ts: base.Add(2 * time.Second), AskPrice: decimal.NewFromInt(2)},
		{Symbol: "BTCUSDT", Source: "B", Ts: base.Add(5 * time.Second), AskPrice: decimal.NewFromInt(5)},
		{Symbol: "BTCUSDT", Source: "C", Ts: base.Add(3 * time.Second), AskPrice: decimal.NewFromInt(3)},
		{Symbol: "ETHUSDT", Source: "D", Ts: base.Add(9 * time.Second), AskPrice: decimal.NewFromInt(9)},
	} {
		quote := q
		require.NoError(t, mem.Quotes().Append(ctx, &quote))
	}

	latest, err := mem.Quotes().LatestBySymbol(ctx, "btcusdt")
	require.NoError(t, err)
	assert.Equal(t, "B", latest.Source)

	history, err := mem.Quotes().HistoryBySymbol(ctx, "BTCUSDT", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "B", history[0].Source)
	assert.Equal(t, "C", history[1].Source)
}
