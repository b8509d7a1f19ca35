package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/AldairAG/PayGlobal/internal/middleware"
	"github.com/AldairAG/PayGlobal/internal/repository"
	"github.com/AldairAG/PayGlobal/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Batch is a run-once-per-date job.
type Batch interface {
	Run(ctx context.Context, runDate time.Time) (*service.BatchReport, error)
}

// AdminHandler lets operators trigger the daily batches by hand and inspect past runs.
type AdminHandler struct {
	batches map[string]Batch
	runs    *repository.BatchRunRepository
	audit   *Auditor
	loc     *time.Location
	log     *zap.Logger
}

// NewAdminHandler resolves "today" and ?date= in loc, the scheduler's timezone.
func NewAdminHandler(batches map[string]Batch, runs *repository.BatchRunRepository, audit *Auditor, loc *time.Location, log *zap.Logger) *AdminHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AdminHandler{batches: batches, runs: runs, audit: audit, loc: loc, log: log}
}

// RunBatch runs the named batch now, for today or the given date.
// POST /admin/batches/:name/run?date=2006-01-02
func (h *AdminHandler) RunBatch(c *gin.Context) {
	name := c.Param("name")
	batch, ok := h.batches[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown batch"})
		return
	}
	runDate := time.Now().In(h.loc)
	if raw := c.Query("date"); raw != "" {
		d, err := time.ParseInLocation("2006-01-02", raw, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		runDate = d
	}

	h.log.Info("batch triggered by operator", zap.String("batch", name), zap.String("operator", middleware.GetOperator(c)))
	h.audit.Record(c, "batch.run", "batch", name, runDate.Format("2006-01-02"))
	report, err := batch.Run(c.Request.Context(), runDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report, "failed": report.Failed()})
}

// GetRun returns the recorded outcome of a batch on a date.
// GET /admin/batches/:name/runs/:date
func (h *AdminHandler) GetRun(c *gin.Context) {
	run, err := h.runs.Get(c.Param("name"), c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}
