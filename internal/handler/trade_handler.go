package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tradesim/internal/apperr"
	"tradesim/internal/service"
)

// TradeHandler serves trade submission and history for the fixed default
// account the HTTP boundary is scoped to. The engine itself is
// account-agnostic.
type TradeHandler struct {
	engine    *service.TradeEngine
	accountID uint
}

func NewTradeHandler(engine *service.TradeEngine, accountID uint) *TradeHandler {
	return &TradeHandler{engine: engine, accountID: accountID}
}

type tradeRequest struct {
	Symbol   string          `json:"symbol" binding:"required"`
	Side     string          `json:"side" binding:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Execute settles a market order and answers with the trade record.
func (h *TradeHandler) Execute(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, failure(err.Error()))
		return
	}

	trade, err := h.engine.ExecuteTrade(c.Request.Context(), h.accountID, req.Symbol, req.Side, req.Quantity)
	if err != nil {
		status := http.StatusInternalServerError
		if apperr.IsClientError(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, failure(err.Error()))
		return
	}

	c.JSON(http.StatusOK, successMsg("Trade executed successfully", trade))
}

// GetHistory answers with the account's trades, newest first.
func (h *TradeHandler) GetHistory(c *gin.Context) {
	trades, err := h.engine.History(c.Request.Context(), h.accountID, c.Param("symbol"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, failure(err.Error()))
		return
	}
	c.JSON(http.StatusOK, success(trades))
}
