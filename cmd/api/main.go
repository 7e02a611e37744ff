package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tradesim/config"
	"tradesim/internal/aggregator"
	"tradesim/internal/bootstrap"
	"tradesim/internal/feed"
	"tradesim/internal/feed/binance"
	"tradesim/internal/feed/huobi"
	"tradesim/internal/handler"
	"tradesim/internal/logging"
	"tradesim/internal/router"
	"tradesim/internal/service"
	"tradesim/internal/store"
	"tradesim/internal/stream"
)

func main() {
	migrateFlag := flag.Bool("migrate", false, "Run database migrations before serving")
	devFlag := flag.Bool("dev", false, "Run against the in-memory store instead of Postgres")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New()

	var st store.Store
	if *devFlag {
		logger.Info("Running with in-memory store")
		st = store.NewMemory()
	} else {
		db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to database")
		}

		if *migrateFlag {
			sqlDB, err := db.DB()
			if err != nil {
				logger.WithError(err).Fatal("Failed to get sql.DB")
			}
			if err := goose.SetDialect("postgres"); err != nil {
				logger.WithError(err).Fatal("Goose: failed to set dialect")
			}
			logger.Info("Running database migrations...")
			if err := goose.Up(sqlDB, "migrations"); err != nil {
				logger.WithError(err).Fatal("Goose migration failed")
			}
		}

		st = store.NewGormStore(db)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seedBalance, err := decimal.NewFromString(cfg.SeedBalance)
	if err != nil {
		logger.WithError(err).Fatal("Invalid SEED_BALANCE")
	}
	account, err := bootstrap.Run(ctx, st, bootstrap.Seed{
		Username:       cfg.SeedAccount,
		QuoteCurrency:  cfg.QuoteCurrency,
		StartBalance:   seedBalance,
		BaseCurrencies: baseCurrencies(cfg.Symbols, cfg.QuoteCurrency),
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Bootstrap failed")
	}

	hub := stream.NewHub(logger)
	adapters := []feed.Adapter{
		binance.New(logger),
		huobi.New(logger),
	}
	agg := aggregator.New(aggregator.Config{
		Interval:     cfg.AggregationInterval,
		VenueTimeout: cfg.VenueTimeout,
		Symbols:      cfg.Symbols,
	}, adapters, st.Quotes(), aggregator.NewCache(), hub, logger)
	go agg.Run(ctx)

	engine := service.NewTradeEngine(st, cfg.Symbols, cfg.QuoteCurrency, logger)
	ledger := service.NewLedger(st.Wallets())
	prices := service.NewPriceService(st.Quotes())

	routerConfig := &router.Config{
		PriceHandler:  handler.NewPriceHandler(prices),
		TradeHandler:  handler.NewTradeHandler(engine, account.ID),
		WalletHandler: handler.NewWalletHandler(ledger, account.ID),
		StreamHub:     hub,
	}

	r := router.NewRouter(routerConfig)
	if err := r.Run(fmt.Sprintf(":%s", cfg.ServerPort)); err != nil {
		logger.WithError(err).Fatal("HTTP server failed")
	}
}

// baseCurrencies strips the quote currency from each symbol, so the seed
// account gets an empty wallet per tradable base asset.
func baseCurrencies(symbols []string, quoteCurrency string) []string {
	quote := strings.ToUpper(quoteCurrency)
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		symbol := strings.ToUpper(s)
		base := strings.TrimSuffix(symbol, quote)
		if base != "" && base != symbol {
			out = append(out, base)
		}
	}
	return out
}
