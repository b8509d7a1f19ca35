package handler

import (
	"net/http"

	"github.com/AldairAG/PayGlobal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type LicenseHandler struct {
	licenses *service.LicenseService
}

func NewLicenseHandler(licenses *service.LicenseService) *LicenseHandler {
	return &LicenseHandler{licenses: licenses}
}

// Purchase buys a license tier for the user.
// POST /users/:username/licenses
func (h *LicenseHandler) Purchase(c *gin.Context) {
	var req struct {
		Value decimal.Decimal `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.licenses.Purchase(c.Request.Context(), c.Param("username"), req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// PurchaseDelegated buys a license tier for another user, paid from one of the caller's wallets.
// POST /users/:username/licenses/delegated
func (h *LicenseHandler) PurchaseDelegated(c *gin.Context) {
	var req struct {
		Recipient string          `json:"recipient" binding:"required"`
		Value     decimal.Decimal `json:"value"`
		Wallet    string          `json:"wallet" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.licenses.PurchaseDelegated(c.Request.Context(), c.Param("username"), req.Recipient, req.Value, req.Wallet)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
