package handler

import (
	"net/http"
	"strings"

	"github.com/AldairAG/PayGlobal/internal/middleware"
	"github.com/AldairAG/PayGlobal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type WithdrawalHandler struct {
	wallets *service.WalletService
	audit   *Auditor
	log     *zap.Logger
}

func NewWithdrawalHandler(wallets *service.WalletService, audit *Auditor, log *zap.Logger) *WithdrawalHandler {
	return &WithdrawalHandler{wallets: wallets, audit: audit, log: log}
}

// Create holds funds from a wallet and opens a pending withdrawal.
// POST /users/:username/withdrawals
func (h *WithdrawalHandler) Create(c *gin.Context) {
	var req struct {
		Wallet  string          `json:"wallet" binding:"required"`
		Amount  decimal.Decimal `json:"amount"`
		Address string          `json:"address" binding:"required,max=255"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tx, err := h.wallets.RequestWithdrawal(c.Request.Context(), c.Param("username"), req.Wallet, req.Amount, req.Address)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// Approve marks a pending withdrawal as paid out. Operator only.
// POST /withdrawals/:reference/approve
func (h *WithdrawalHandler) Approve(c *gin.Context) {
	h.resolve(c, true)
}

// Reject refunds a pending withdrawal. Operator only.
// POST /withdrawals/:reference/reject
func (h *WithdrawalHandler) Reject(c *gin.Context) {
	h.resolve(c, false)
}

func (h *WithdrawalHandler) resolve(c *gin.Context, approve bool) {
	tx, err := h.wallets.ResolveWithdrawal(c.Request.Context(), c.Param("reference"), approve)
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit.Record(c, "withdrawal."+strings.ToLower(tx.Status), "transaction", tx.Reference, tx.Amount.String())
	h.log.Info("withdrawal resolved by operator",
		zap.String("operator", middleware.GetOperator(c)),
		zap.String("reference", tx.Reference),
		zap.String("status", tx.Status))
	c.JSON(http.StatusOK, tx)
}
