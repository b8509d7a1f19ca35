// Package scheduler fires the daily batches on their cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AldairAG/PayGlobal/config"
	"github.com/AldairAG/PayGlobal/internal/domain"
	"github.com/AldairAG/PayGlobal/internal/service"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Batch is a run-once-per-date job.
type Batch interface {
	Run(ctx context.Context, runDate time.Time) (*service.BatchReport, error)
}

type Scheduler struct {
	cron    gocron.Scheduler
	loc     *time.Location
	timeout time.Duration
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

// New registers the passive income and rank assignment jobs. Nothing runs
// until Start.
func New(cfg *config.SchedulerConfig, log *zap.Logger, passiveIncome, rankAssignment Batch) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("scheduler timezone %q: %w", cfg.Timezone, err)
	}
	cron, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{cron: cron, loc: loc, timeout: cfg.BatchTimeout, log: log, ctx: ctx, cancel: cancel}

	jobs := []struct {
		name  string
		cron  string
		batch Batch
	}{
		{domain.BatchPassiveIncome, cfg.PassiveIncomeCron, passiveIncome},
		{domain.BatchRankAssignment, cfg.RankAssignmentCron, rankAssignment},
	}
	for _, j := range jobs {
		_, err := cron.NewJob(
			gocron.CronJob(j.cron, false),
			gocron.NewTask(s.fire, j.name, j.batch),
			gocron.WithName(j.name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			cancel()
			_ = cron.Shutdown()
			return nil, fmt.Errorf("schedule %s (%q): %w", j.name, j.cron, err)
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	for _, j := range s.cron.Jobs() {
		next, _ := j.NextRun()
		s.log.Info("batch scheduled", zap.String("batch", j.Name()), zap.Time("next_run", next))
	}
}

// Stop cancels running batches and waits for them to return.
func (s *Scheduler) Stop() error {
	s.cancel()
	return s.cron.Shutdown()
}

// Jobs exposes the registered jobs, for run-now triggers.
func (s *Scheduler) Jobs() []gocron.Job {
	return s.cron.Jobs()
}

func (s *Scheduler) fire(name string, batch Batch) {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	_, err := batch.Run(ctx, time.Now().In(s.loc))
	switch {
	case errors.Is(err, service.ErrBatchRunning):
		s.log.Info("batch already running elsewhere, skipped", zap.String("batch", name))
	case err != nil:
		s.log.Error("scheduled batch failed", zap.String("batch", name), zap.Error(err))
	}
}
