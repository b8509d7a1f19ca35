package service

import (
	"context"
	"fmt"
	"time"

	"github.com/AldairAG/PayGlobal/internal/domain"
	"github.com/AldairAG/PayGlobal/internal/lock"
	"github.com/AldairAG/PayGlobal/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RankAssignmentBatch recomputes every user's rank from the license value of
// their whole downline.
type RankAssignmentBatch struct {
	runner batchRunner
	store  *repository.Store
	plan   Plan
	log    *zap.Logger
}

func NewRankAssignmentBatch(store *repository.Store, plan Plan, locker lock.Locker, lockTTL time.Duration, log *zap.Logger) *RankAssignmentBatch {
	return &RankAssignmentBatch{
		runner: batchRunner{store: store, locker: locker, ttl: lockTTL, log: log},
		store:  store,
		plan:   plan,
		log:    log,
	}
}

// Run re-ranks every user, one transaction per user. Users whose rank did not
// change are counted as skipped.
func (b *RankAssignmentBatch) Run(ctx context.Context, runDate time.Time) (*BatchReport, error) {
	return b.runner.run(ctx, domain.BatchRankAssignment, runDate, func(ctx context.Context, report *BatchReport) error {
		names, err := b.store.WithContext(ctx).Users.ListUsernames()
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		for _, name := range names {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcome, err := b.assign(ctx, name)
			if err != nil {
				b.log.Error("rank assignment failed", zap.String("username", name), zap.Error(err))
				report.fail("user:"+name, err)
				continue
			}
			report.count(outcome)
		}
		return nil
	})
}

func (b *RankAssignmentBatch) assign(ctx context.Context, username string) (string, error) {
	outcome := outcomeSkipped
	err := b.store.Transaction(ctx, func(tx *repository.Store) error {
		user, err := tx.Users.GetByUsername(username)
		if err != nil {
			return err
		}
		total, err := downlineLicenseTotal(tx, username)
		if err != nil {
			return err
		}
		rank := b.plan.RankFor(total)
		if rank.Number == user.Rank {
			return nil
		}
		if err := tx.Users.UpdateRank(user.ID, rank.Number); err != nil {
			return err
		}
		b.log.Info("rank changed",
			zap.String("username", username),
			zap.Int("from", user.Rank),
			zap.Int("to", rank.Number),
			zap.String("downline_total", total.String()))
		outcome = outcomeProcessed
		return nil
	})
	return outcome, err
}

// downlineLicenseTotal sums the license price of every descendant of
// username. Descendants without a license add nothing.
func downlineLicenseTotal(tx *repository.Store, username string) (decimal.Decimal, error) {
	nodes, err := downline(tx, username, UnboundedDepth)
	if err != nil {
		return decimal.Zero, err
	}
	ids := make([]uint, len(nodes))
	for i, n := range nodes {
		ids[i] = n.user.ID
	}
	licenses, err := tx.Licenses.ListByUserIDs(ids)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, l := range licenses {
		total = total.Add(l.Price)
	}
	return total, nil
}
