// Package model defines the persisted entities of the trading core.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade sides.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// StatusCompleted is the only status a trade row is ever written with:
// records are created on successful settlement and never updated.
const StatusCompleted = "COMPLETED"

// Account owns wallets and trade records.
type Account struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Username  string    `gorm:"column:username;uniqueIndex" json:"username"`
	Email     string    `gorm:"column:email" json:"email"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Account) TableName() string { return "accounts" }

// Wallet is the per-(account, currency) balance pair. Balance and
// AvailableBalance always move together by the same delta; there is no
// hold/reservation mechanism.
type Wallet struct {
	ID               uint            `gorm:"column:id;primaryKey" json:"-"`
	AccountID        uint            `gorm:"column:account_id;uniqueIndex:idx_account_currency" json:"-"`
	Currency         string          `gorm:"column:currency;uniqueIndex:idx_account_currency" json:"currency"`
	Balance          decimal.Decimal `gorm:"column:balance;type:numeric(18,8)" json:"balance"`
	AvailableBalance decimal.Decimal `gorm:"column:available_balance;type:numeric(18,8)" json:"available_balance"`
}

func (Wallet) TableName() string { return "wallets" }

// Quote is one venue's bid/ask pair for a symbol at a point in time.
// No ordering between bid and ask is enforced.
type Quote struct {
	ID       uint                `gorm:"column:id;primaryKey" json:"-"`
	Symbol   string              `gorm:"column:symbol;index:idx_symbol_ts,priority:1" json:"symbol"`
	BidPrice decimal.Decimal     `gorm:"column:bid_price;type:numeric(18,8)" json:"bid_price"`
	AskPrice decimal.Decimal     `gorm:"column:ask_price;type:numeric(18,8)" json:"ask_price"`
	BidQty   decimal.NullDecimal `gorm:"column:bid_qty;type:numeric(18,8)" json:"bid_qty,omitempty"`
	AskQty   decimal.NullDecimal `gorm:"column:ask_qty;type:numeric(18,8)" json:"ask_qty,omitempty"`
	Ts       time.Time           `gorm:"column:ts;index:idx_symbol_ts,priority:2,sort:desc" json:"timestamp"`
	Source   string              `gorm:"column:source" json:"source"`
}

func (Quote) TableName() string { return "quotes" }

// Trade is an immutable settlement record, created exactly once per
// successful trade execution.
type Trade struct {
	TradeID     string          `gorm:"column:trade_id;primaryKey" json:"trade_id"`
	AccountID   uint            `gorm:"column:account_id;index" json:"-"`
	Symbol      string          `gorm:"column:symbol" json:"symbol"`
	Side        string          `gorm:"column:side" json:"side"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:numeric(18,8)" json:"quantity"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(18,8)" json:"price"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(18,8)" json:"total_amount"`
	Ts          time.Time       `gorm:"column:ts;index" json:"timestamp"`
	Status      string          `gorm:"column:status" json:"status"`
}

func (Trade) TableName() string { return "trades" }
