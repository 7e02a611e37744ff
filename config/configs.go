// Package config provides application configuration loaded from environment
// variables, with optional .env file support for local development.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// PostgresDSN is the connection string for the trading database.
	PostgresDSN string

	// ServerPort is the port the HTTP API listens on.
	ServerPort string

	// AggregationInterval is the delay between price aggregation cycles.
	AggregationInterval time.Duration

	// VenueTimeout bounds a single venue fetch so one slow venue cannot
	// stall a whole aggregation cycle.
	VenueTimeout time.Duration

	// Symbols is the supported symbol universe (upper-case).
	Symbols []string

	// QuoteCurrency is the fixed settlement currency every symbol ends in.
	QuoteCurrency string

	// SeedAccount is the name of the bootstrap account.
	SeedAccount string

	// SeedBalance is the starting quote-currency balance of the bootstrap
	// account.
	SeedBalance string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("POSTGRES_HOST", "localhost"),
		getEnv("POSTGRES_PORT", "5432"),
		getEnv("POSTGRES_USER", "tradesim"),
		getEnv("POSTGRES_PASSWORD", ""),
		getEnv("POSTGRES_DB", "tradesim"),
		getEnv("POSTGRES_SSLMODE", "disable"),
	)

	return &Config{
		PostgresDSN:         dsn,
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		AggregationInterval: getDuration("AGGREGATION_INTERVAL_SECONDS", 10),
		VenueTimeout:        getDuration("VENUE_TIMEOUT_SECONDS", 5),
		Symbols:             getList("SYMBOLS", "BTCUSDT,ETHUSDT"),
		QuoteCurrency:       getEnv("QUOTE_CURRENCY", "USDT"),
		SeedAccount:         getEnv("SEED_ACCOUNT", "testuser"),
		SeedBalance:         getEnv("SEED_BALANCE", "50000"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultSeconds int) time.Duration {
	seconds := defaultSeconds
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			seconds = parsed
		}
	}
	return time.Duration(seconds) * time.Second
}

func getList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, strings.ToUpper(trimmed))
		}
	}
	return out
}
