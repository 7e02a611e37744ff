package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tradesim/internal/service"
)

type PriceHandler struct {
	prices *service.PriceService
}

func NewPriceHandler(prices *service.PriceService) *PriceHandler {
	return &PriceHandler{prices: prices}
}

// GetLatest answers with the most recently accepted quote for a symbol.
func (h *PriceHandler) GetLatest(c *gin.Context) {
	quote, err := h.prices.Latest(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		c.JSON(http.StatusBadRequest, failure(err.Error()))
		return
	}
	c.JSON(http.StatusOK, success(quote))
}

// GetHistory answers with accepted quotes for a symbol, newest first.
// A ?limit query caps the result, default 50.
func (h *PriceHandler) GetHistory(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	quotes, err := h.prices.History(c.Request.Context(), c.Param("symbol"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, failure(err.Error()))
		return
	}
	c.JSON(http.StatusOK, success(quotes))
}
