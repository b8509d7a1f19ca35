package handler

import (
	"net/http"
	"time"

	"github.com/AldairAG/PayGlobal/internal/service"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	journal *service.JournalService
	audit   *Auditor
}

func NewTransactionHandler(journal *service.JournalService, audit *Auditor) *TransactionHandler {
	return &TransactionHandler{journal: journal, audit: audit}
}

// List returns the user's journal, newest first.
// GET /users/:username/transactions?concept=&status=&from=&to=&page=&limit=
func (h *TransactionHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	q := service.TransactionQuery{
		Concept: c.Query("concept"),
		Status:  c.Query("status"),
		Page:    page,
		Limit:   limit,
	}
	for key, dst := range map[string]**time.Time{"from": &q.From, "to": &q.To} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be RFC3339"})
			return
		}
		*dst = &t
	}
	list, total, err := h.journal.List(c.Request.Context(), c.Param("username"), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list, "total": total, "page": page, "limit": limit})
}

// Earnings returns completed income per month.
// GET /users/:username/earnings
func (h *TransactionHandler) Earnings(c *gin.Context) {
	months, err := h.journal.MonthlyEarnings(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"months": months})
}

// UpdateStatus moves a journal entry to a new status. Operator only.
// PATCH /transactions/:reference/status
func (h *TransactionHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tx, err := h.journal.UpdateStatus(c.Request.Context(), c.Param("reference"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit.Record(c, "transaction.status", "transaction", tx.Reference, tx.Status)
	c.JSON(http.StatusOK, tx)
}
