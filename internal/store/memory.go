package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"tradesim/internal/model"
)

// Memory is an in-memory Store. It backs tests and the -dev run mode, and
// mirrors the transactional semantics of the Postgres store: mutations made
// inside Transaction become visible only when the callback returns nil.
type Memory struct {
	mu    sync.Mutex
	state memoryState
}

type memoryState struct {
	accounts      []model.Account
	wallets       []model.Wallet
	quotes        []model.Quote
	trades        []model.Trade
	nextAccountID uint
	nextWalletID  uint
	nextQuoteID   uint
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Accounts() AccountStore { return memAccounts{m} }
func (m *Memory) Quotes() QuoteStore     { return memQuotes{m} }
func (m *Memory) Wallets() WalletStore   { return memWallets{m} }
func (m *Memory) Trades() TradeStore     { return memTrades{m} }

// Transaction runs fn against a copy of the state and swaps the copy in only
// on success, so a failing callback leaves no partial mutations behind.
func (m *Memory) Transaction(ctx context.Context, fn func(tx Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := m.state.clone()
	if err := fn(&txStore{state: &staged}); err != nil {
		return err
	}
	m.state = staged
	return nil
}

func (m *Memory) run(fn func(s *memoryState) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(&m.state)
}

func (s memoryState) clone() memoryState {
	out := s
	out.accounts = append([]model.Account(nil), s.accounts...)
	out.wallets = append([]model.Wallet(nil), s.wallets...)
	out.quotes = append([]model.Quote(nil), s.quotes...)
	out.trades = append([]model.Trade(nil), s.trades...)
	return out
}

// txStore operates on staged state; the owning Transaction holds the lock.
type txStore struct {
	state *memoryState
}

func (t *txStore) Accounts() AccountStore { return txAccounts{t.state} }
func (t *txStore) Quotes() QuoteStore     { return txQuotes{t.state} }
func (t *txStore) Wallets() WalletStore   { return txWallets{t.state} }
func (t *txStore) Trades() TradeStore     { return txTrades{t.state} }

// Nested transactions flatten into the enclosing one.
func (t *txStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return fn(t)
}

// State operations, shared by the locked root and the staged transaction.

func (s *memoryState) createAccount(account *model.Account) error {
	s.nextAccountID++
	account.ID = s.nextAccountID
	s.accounts = append(s.accounts, *account)
	return nil
}

func (s *memoryState) findAccountByID(id uint) (*model.Account, error) {
	for _, a := range s.accounts {
		if a.ID == id {
			found := a
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryState) findAccountByUsername(username string) (*model.Account, error) {
	for _, a := range s.accounts {
		if a.Username == username {
			found := a
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryState) appendQuote(quote *model.Quote) error {
	s.nextQuoteID++
	quote.ID = s.nextQuoteID
	s.quotes = append(s.quotes, *quote)
	return nil
}

func (s *memoryState) latestQuote(symbol string) (*model.Quote, error) {
	var latest *model.Quote
	for i := range s.quotes {
		q := &s.quotes[i]
		if !strings.EqualFold(q.Symbol, symbol) {
			continue
		}
		if latest == nil || q.Ts.After(latest.Ts) {
			latest = q
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	found := *latest
	return &found, nil
}

func (s *memoryState) quoteHistory(symbol string, limit int) ([]model.Quote, error) {
	var out []model.Quote
	for _, q := range s.quotes {
		if strings.EqualFold(q.Symbol, symbol) {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Ts.After(out[j].Ts) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memoryState) getWallet(accountID uint, currency string) (*model.Wallet, error) {
	for _, w := range s.wallets {
		if w.AccountID == accountID && w.Currency == currency {
			found := w
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryState) getOrCreateWallet(accountID uint, currency string) (*model.Wallet, error) {
	if wallet, err := s.getWallet(accountID, currency); err == nil {
		return wallet, nil
	}
	s.nextWalletID++
	wallet := model.Wallet{ID: s.nextWalletID, AccountID: accountID, Currency: currency}
	s.wallets = append(s.wallets, wallet)
	return &wallet, nil
}

func (s *memoryState) saveWallet(wallet *model.Wallet) error {
	for i := range s.wallets {
		if s.wallets[i].ID == wallet.ID {
			s.wallets[i] = *wallet
			return nil
		}
	}
	s.nextWalletID++
	wallet.ID = s.nextWalletID
	s.wallets = append(s.wallets, *wallet)
	return nil
}

func (s *memoryState) listWallets(accountID uint) ([]model.Wallet, error) {
	var out []model.Wallet
	for _, w := range s.wallets {
		if w.AccountID == accountID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out, nil
}

func (s *memoryState) createTrade(trade *model.Trade) error {
	s.trades = append(s.trades, *trade)
	return nil
}

func (s *memoryState) listTrades(accountID uint, symbol string) ([]model.Trade, error) {
	var out []model.Trade
	for _, t := range s.trades {
		if t.AccountID != accountID {
			continue
		}
		if symbol != "" && !strings.EqualFold(t.Symbol, symbol) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Ts.After(out[j].Ts) })
	return out, nil
}

// Locked root views.

type memAccounts struct{ m *Memory }

func (v memAccounts) Create(ctx context.Context, account *model.Account) error {
	return v.m.run(func(s *memoryState) error { return s.createAccount(account) })
}

func (v memAccounts) FindByID(ctx context.Context, id uint) (account *model.Account, err error) {
	v.m.run(func(s *memoryState) error { account, err = s.findAccountByID(id); return nil })
	return account, err
}

func (v memAccounts) FindByUsername(ctx context.Context, username string) (account *model.Account, err error) {
	v.m.run(func(s *memoryState) error { account, err = s.findAccountByUsername(username); return nil })
	return account, err
}

type memQuotes struct{ m *Memory }

func (v memQuotes) Append(ctx context.Context, quote *model.Quote) error {
	return v.m.run(func(s *memoryState) error { return s.appendQuote(quote) })
}

func (v memQuotes) LatestBySymbol(ctx context.Context, symbol string) (quote *model.Quote, err error) {
	v.m.run(func(s *memoryState) error { quote, err = s.latestQuote(symbol); return nil })
	return quote, err
}

func (v memQuotes) HistoryBySymbol(ctx context.Context, symbol string, limit int) (quotes []model.Quote, err error) {
	v.m.run(func(s *memoryState) error { quotes, err = s.quoteHistory(symbol, limit); return nil })
	return quotes, err
}

type memWallets struct{ m *Memory }

func (v memWallets) Get(ctx context.Context, accountID uint, currency string) (wallet *model.Wallet, err error) {
	v.m.run(func(s *memoryState) error { wallet, err = s.getWallet(accountID, currency); return nil })
	return wallet, err
}

func (v memWallets) GetOrCreate(ctx context.Context, accountID uint, currency string) (wallet *model.Wallet, err error) {
	v.m.run(func(s *memoryState) error { wallet, err = s.getOrCreateWallet(accountID, currency); return nil })
	return wallet, err
}

func (v memWallets) Save(ctx context.Context, wallet *model.Wallet) error {
	return v.m.run(func(s *memoryState) error { return s.saveWallet(wallet) })
}

func (v memWallets) ListByAccount(ctx context.Context, accountID uint) (wallets []model.Wallet, err error) {
	v.m.run(func(s *memoryState) error { wallets, err = s.listWallets(accountID); return nil })
	return wallets, err
}

type memTrades struct{ m *Memory }

func (v memTrades) Create(ctx context.Context, trade *model.Trade) error {
	return v.m.run(func(s *memoryState) error { return s.createTrade(trade) })
}

func (v memTrades) ListByAccount(ctx context.Context, accountID uint) (trades []model.Trade, err error) {
	v.m.run(func(s *memoryState) error { trades, err = s.listTrades(accountID, ""); return nil })
	return trades, err
}

func (v memTrades) ListByAccountAndSymbol(ctx context.Context, accountID uint, symbol string) (trades []model.Trade, err error) {
	v.m.run(func(s *memoryState) error { trades, err = s.listTrades(accountID, symbol); return nil })
	return trades, err
}

// Staged transaction views.

type txAccounts struct{ s *memoryState }

func (v txAccounts) Create(ctx context.Context, account *model.Account) error {
	return v.s.createAccount(account)
}

func (v txAccounts) FindByID(ctx context.Context, id uint) (*model.Account, error) {
	return v.s.findAccountByID(id)
}

func (v txAccounts) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	return v.s.findAccountByUsername(username)
}

type txQuotes struct{ s *memoryState }

func (v txQuotes) Append(ctx context.Context, quote *model.Quote) error {
	return v.s.appendQuote(quote)
}

func (v txQuotes) LatestBySymbol(ctx context.Context, symbol string) (*model.Quote, error) {
	return v.s.latestQuote(symbol)
}

func (v txQuotes) HistoryBySymbol(ctx context.Context, symbol string, limit int) ([]model.Quote, error) {
	return v.s.quoteHistory(symbol, limit)
}

type txWallets struct{ s *memoryState }

func (v txWallets) Get(ctx context.Context, accountID uint, currency string) (*model.Wallet, error) {
	return v.s.getWallet(accountID, currency)
}

func (v txWallets) GetOrCreate(ctx context.Context, accountID uint, currency string) (*model.Wallet, error) {
	return v.s.getOrCreateWallet(accountID, currency)
}

func (v txWallets) Save(ctx context.Context, wallet *model.Wallet) error {
	return v.s.saveWallet(wallet)
}

func (v txWallets) ListByAccount(ctx context.Context, accountID uint) ([]model.Wallet, error) {
	return v.s.listWallets(accountID)
}

type txTrades struct{ s *memoryState }

func (v txTrades) Create(ctx context.Context, trade *model.Trade) error {
	return v.s.createTrade(trade)
}

func (v txTrades) ListByAccount(ctx context.Context, accountID uint) ([]model.Trade, error) {
	return v.s.listTrades(accountID, "")
}

func (v txTrades) ListByAccountAndSymbol(ctx context.Context, accountID uint, symbol string) ([]model.Trade, error) {
	return v.s.listTrades(accountID, symbol)
}
