package handler

import (
	"net/http"

	"github.com/AldairAG/PayGlobal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	wallets *service.WalletService
}

func NewWalletHandler(wallets *service.WalletService) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

// GetBalances returns the user's commissions and dividends wallets.
// GET /users/:username/wallets
func (h *WalletHandler) GetBalances(c *gin.Context) {
	wallets, err := h.wallets.Wallets(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallets": wallets})
}

// Transfer sends funds from one of the user's wallets to another user's dividends wallet.
// POST /users/:username/transfers
func (h *WalletHandler) Transfer(c *gin.Context) {
	var req struct {
		To     string          `json:"to" binding:"required"`
		Amount decimal.Decimal `json:"amount"`
		Wallet string          `json:"wallet" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tx, err := h.wallets.Transfer(c.Request.Context(), c.Param("username"), req.To, req.Amount, req.Wallet)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}
