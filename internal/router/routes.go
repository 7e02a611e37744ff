package router

import (
	"github.com/gin-gonic/gin"

	"tradesim/internal/handler"
	"tradesim/internal/stream"
)

func registerPriceRoutes(api *gin.RouterGroup, priceHandler *handler.PriceHandler, hub *stream.Hub) {
	prices := api.Group("/prices")
	{
		if hub != nil {
			prices.GET("/stream", gin.WrapH(hub))
		}
		prices.GET("/:symbol", priceHandler.GetLatest)
		prices.GET("/:symbol/history", priceHandler.GetHistory)
	}
}

func registerTradeRoutes(api *gin.RouterGroup, tradeHandler *handler.TradeHandler) {
	trades := api.Group("/trades")
	{
		trades.POST("", tradeHandler.Execute)
		trades.GET("", tradeHandler.GetHistory)
		trades.GET("/:symbol", tradeHandler.GetHistory)
	}
}

func registerWalletRoutes(api *gin.RouterGroup, walletHandler *handler.WalletHandler) {
	api.GET("/wallets", walletHandler.List)
}
