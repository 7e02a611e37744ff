// Package router wires the HTTP handlers into a gin engine.
package router

import (
	"github.com/gin-gonic/gin"

	"tradesim/internal/handler"
	"tradesim/internal/stream"
)

type Config struct {
	PriceHandler  *handler.PriceHandler
	TradeHandler  *handler.TradeHandler
	WalletHandler *handler.WalletHandler
	StreamHub     *stream.Hub
}

func NewRouter(cfg *Config) *gin.Engine {
	router := gin.Default()

	api := router.Group("/v1")
	registerPriceRoutes(api, cfg.PriceHandler, cfg.StreamHub)
	registerTradeRoutes(api, cfg.TradeHandler)
	registerWalletRoutes(api, cfg.WalletHandler)
	api.GET("/health", handler.Health)

	return router
}
