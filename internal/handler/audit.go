package handler

import (
	"net/http"

	"github.com/AldairAG/PayGlobal/internal/middleware"
	"github.com/AldairAG/PayGlobal/internal/models"
	"github.com/AldairAG/PayGlobal/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auditor records operator actions. A failed write is logged and never fails the request.
type Auditor struct {
	repo *repository.AuditLogRepository
	log  *zap.Logger
}

func NewAuditor(repo *repository.AuditLogRepository, log *zap.Logger) *Auditor {
	return &Auditor{repo: repo, log: log}
}

func (a *Auditor) Record(c *gin.Context, action, resource, resourceID, metadata string) {
	entry := &models.AuditLog{
		Operator:   middleware.GetOperator(c),
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Metadata:   metadata,
	}
	if err := a.repo.Create(entry); err != nil {
		a.log.Error("audit log write failed", zap.String("action", action), zap.Error(err))
	}
}

// List returns operator actions, newest first.
// GET /admin/audit-logs?action=&page=&limit=
func (a *Auditor) List(c *gin.Context) {
	page, limit := parsePagination(c)
	list, total, err := a.repo.List(c.Query("action"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": list, "total": total, "page": page, "limit": limit})
}
