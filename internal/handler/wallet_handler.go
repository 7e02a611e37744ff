package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradesim/internal/service"
)

type WalletHandler struct {
	ledger    *service.Ledger
	accountID uint
}

func NewWalletHandler(ledger *service.Ledger, accountID uint) *WalletHandler {
	return &WalletHandler{ledger: ledger, accountID: accountID}
}

// List answers with every wallet of the default account.
func (h *WalletHandler) List(c *gin.Context) {
	wallets, err := h.ledger.List(c.Request.Context(), h.accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, failure(err.Error()))
		return
	}
	c.JSON(http.StatusOK, success(wallets))
}

// Health reports process liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, success("tradesim is running"))
}
