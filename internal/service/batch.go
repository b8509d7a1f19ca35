package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AldairAG/PayGlobal/internal/lock"
	"github.com/AldairAG/PayGlobal/internal/metrics"
	"github.com/AldairAG/PayGlobal/internal/models"
	"github.com/AldairAG/PayGlobal/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// ErrBatchRunning is returned when the same batch is already running here or
// on another instance.
var ErrBatchRunning = errors.New("batch already running")

// Batch item outcomes.
const (
	outcomeProcessed = "processed"
	outcomeSkipped   = "skipped"
	outcomeFailed    = "failed"
)

// BatchItemError is a failure confined to one item of a batch. The batch
// keeps going after it.
type BatchItemError struct {
	Key string `json:"key"`
	Err error  `json:"-"`
}

func (e *BatchItemError) Error() string { return fmt.Sprintf("%s: %v", e.Key, e.Err) }
func (e *BatchItemError) Unwrap() error { return e.Err }

// BatchReport summarises one batch run.
type BatchReport struct {
	Name       string           `json:"name"`
	RunID      string           `json:"run_id"`
	RunDate    string           `json:"run_date"`
	Processed  int              `json:"processed"`
	Skipped    int              `json:"skipped"`
	Failures   []BatchItemError `json:"-"`
	Errors     []string         `json:"errors,omitempty"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
}

func (r *BatchReport) Failed() int { return len(r.Failures) }

func (r *BatchReport) count(outcome string) {
	switch outcome {
	case outcomeProcessed:
		r.Processed++
	case outcomeSkipped:
		r.Skipped++
	}
	metrics.RecordBatchItem(r.Name, outcome)
}

func (r *BatchReport) fail(key string, err error) {
	r.Failures = append(r.Failures, BatchItemError{Key: key, Err: err})
	r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", key, err))
	metrics.RecordBatchItem(r.Name, outcomeFailed)
}

// batchRunner owns the lock, the run record and the summary log line shared
// by every batch.
type batchRunner struct {
	store  *repository.Store
	locker lock.Locker
	ttl    time.Duration
	log    *zap.Logger
}

func (b *batchRunner) run(ctx context.Context, name string, runDate time.Time, body func(ctx context.Context, report *BatchReport) error) (*BatchReport, error) {
	release, err := b.locker.Acquire(ctx, "payglobal:batch:"+name, b.ttl)
	if errors.Is(err, lock.ErrHeld) {
		return nil, fmt.Errorf("%s: %w", name, ErrBatchRunning)
	}
	if err != nil {
		return nil, fmt.Errorf("acquire %s lock: %w", name, err)
	}
	defer release()

	report := &BatchReport{
		Name:      name,
		RunID:     uuid.NewString(),
		RunDate:   runDate.Format(dateLayout),
		StartedAt: time.Now(),
	}
	log := b.log.With(zap.String("batch", name), zap.String("run_id", report.RunID), zap.String("run_date", report.RunDate))
	log.Info("batch started")

	err = body(ctx, report)
	report.FinishedAt = time.Now()
	metrics.RecordBatchRun(name, report.FinishedAt.Sub(report.StartedAt))

	run := &models.BatchRun{
		RunID:      report.RunID,
		Name:       name,
		RunDate:    report.RunDate,
		Processed:  report.Processed,
		Skipped:    report.Skipped,
		Failed:     report.Failed(),
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
	}
	if recErr := b.store.WithContext(context.WithoutCancel(ctx)).BatchRuns.Record(run); recErr != nil {
		log.Error("record batch run", zap.Error(recErr))
	}

	fields := []zap.Field{
		zap.Int("processed", report.Processed),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed()),
		zap.Duration("took", report.FinishedAt.Sub(report.StartedAt)),
	}
	if err != nil {
		log.Error("batch aborted", append(fields, zap.Error(err))...)
		return report, err
	}
	log.Info("batch finished", fields...)
	return report, nil
}
