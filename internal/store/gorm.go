package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tradesim/internal/model"
)

// gormStore implements Store on a gorm DB handle. The same type serves both
// the root connection and transaction handles, so the Transaction callback
// sees the exact same interface.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a gorm connection in the Store interface.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Accounts() AccountStore { return (*gormAccountStore)(s) }
func (s *gormStore) Quotes() QuoteStore     { return (*gormQuoteStore)(s) }
func (s *gormStore) Wallets() WalletStore   { return (*gormWalletStore)(s) }
func (s *gormStore) Trades() TradeStore     { return (*gormTradeStore)(s) }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

type gormAccountStore gormStore

func (s *gormAccountStore) Create(ctx context.Context, account *model.Account) error {
	return s.db.WithContext(ctx).Create(account).Error
}

func (s *gormAccountStore) FindByID(ctx context.Context, id uint) (*model.Account, error) {
	var account model.Account
	if err := s.db.WithContext(ctx).First(&account, id).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

func (s *gormAccountStore) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	var account model.Account
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&account).Error
	if err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

type gormQuoteStore gormStore

func (s *gormQuoteStore) Append(ctx context.Context, quote *model.Quote) error {
	return s.db.WithContext(ctx).Create(quote).Error
}

func (s *gormQuoteStore) LatestBySymbol(ctx context.Context, symbol string) (*model.Quote, error) {
	var quote model.Quote
	err := s.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("ts desc").
		First(&quote).Error
	if err != nil {
		return nil, translate(err)
	}
	return &quote, nil
}

func (s *gormQuoteStore) HistoryBySymbol(ctx context.Context, symbol string, limit int) ([]model.Quote, error) {
	var quotes []model.Quote
	err := s.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("ts desc").
		Limit(limit).
		Find(&quotes).Error
	return quotes, err
}

type gormWalletStore gormStore

func (s *gormWalletStore) Get(ctx context.Context, accountID uint, currency string) (*model.Wallet, error) {
	var wallet model.Wallet
	err := s.db.WithContext(ctx).
		Where("account_id = ? AND currency = ?", accountID, currency).
		First(&wallet).Error
	if err != nil {
		return nil, translate(err)
	}
	return &wallet, nil
}

func (s *gormWalletStore) GetOrCreate(ctx context.Context, accountID uint, currency string) (*model.Wallet, error) {
	wallet, err := s.Get(ctx, accountID, currency)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	wallet = &model.Wallet{AccountID: accountID, Currency: currency}
	if err := s.db.WithContext(ctx).Create(wallet).Error; err != nil {
		return nil, err
	}
	return wallet, nil
}

func (s *gormWalletStore) Save(ctx context.Context, wallet *model.Wallet) error {
	return s.db.WithContext(ctx).Save(wallet).Error
}

func (s *gormWalletStore) ListByAccount(ctx context.Context, accountID uint) ([]model.Wallet, error) {
	var wallets []model.Wallet
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("currency").
		Find(&wallets).Error
	return wallets, err
}

type gormTradeStore gormStore

func (s *gormTradeStore) Create(ctx context.Context, trade *model.Trade) error {
	return s.db.WithContext(ctx).Create(trade).Error
}

func (s *gormTradeStore) ListByAccount(ctx context.Context, accountID uint) ([]model.Trade, error) {
	var trades []model.Trade
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("ts desc").
		Find(&trades).Error
	return trades, err
}

func (s *gormTradeStore) ListByAccountAndSymbol(ctx context.Context, accountID uint, symbol string) ([]model.Trade, error) {
	var trades []model.Trade
	err := s.db.WithContext(ctx).
		Where("account_id = ? AND symbol = ?", accountID, symbol).
		Order("ts desc").
		Find(&trades).Error
	return trades, err
}
