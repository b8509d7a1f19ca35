package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/AldairAG/PayGlobal/internal/domain"
	"github.com/AldairAG/PayGlobal/internal/lock"
	"github.com/AldairAG/PayGlobal/internal/repository"

	"go.uber.org/zap"
)

// PassiveIncomeBatch credits one day of passive income to every active
// license and cascades the uninivel bonus from each credit.
type PassiveIncomeBatch struct {
	runner      batchRunner
	store       *repository.Store
	plan        Plan
	commissions *CommissionService
	log         *zap.Logger
}

func NewPassiveIncomeBatch(store *repository.Store, plan Plan, commissions *CommissionService, locker lock.Locker, lockTTL time.Duration, log *zap.Logger) *PassiveIncomeBatch {
	return &PassiveIncomeBatch{
		runner:      batchRunner{store: store, locker: locker, ttl: lockTTL, log: log},
		store:       store,
		plan:        plan,
		commissions: commissions,
		log:         log,
	}
}

// Run processes every license that is active when the run starts. Each
// license is accrued, credited and cascaded in its own transaction and at
// most once per runDate, so re-running a day only picks up what failed.
// A runDate on or before a license's last accrual date is a no-op for it.
// Per-license failures are logged and reported; the run continues.
func (b *PassiveIncomeBatch) Run(ctx context.Context, runDate time.Time) (*BatchReport, error) {
	return b.runner.run(ctx, domain.BatchPassiveIncome, runDate, func(ctx context.Context, report *BatchReport) error {
		ids, err := b.store.WithContext(ctx).Licenses.ListActiveIDs()
		if err != nil {
			return fmt.Errorf("list active licenses: %w", err)
		}
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcome, payouts, err := b.processLicense(ctx, id, report.RunDate)
			if err != nil {
				b.log.Error("passive income failed", zap.Uint("license_id", id), zap.Error(err))
				report.fail("license:"+strconv.FormatUint(uint64(id), 10), err)
				continue
			}
			observePayouts(payouts)
			report.count(outcome)
		}
		return nil
	})
}

func (b *PassiveIncomeBatch) processLicense(ctx context.Context, id uint, runDate string) (string, []Payout, error) {
	outcome := outcomeSkipped
	var payouts []Payout
	err := b.store.Transaction(ctx, func(tx *repository.Store) error {
		lic, err := tx.Licenses.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		// Deactivated since listing, or already credited for this date or a
		// later one. dateLayout strings order like the dates they encode.
		if !lic.Active || lic.LastAccruedOn >= runDate {
			return nil
		}
		owner, err := tx.Users.GetByID(lic.UserID)
		if err != nil {
			return err
		}

		delta, overflow := Accrue(lic, b.plan.PassiveDailyRate)
		lic.LastAccruedOn = runDate
		if err := tx.Licenses.Save(lic); err != nil {
			return err
		}

		credit := delta.Add(overflow)
		if _, err := tx.Wallets.Credit(owner.ID, domain.WalletDividends, credit); err != nil {
			return err
		}
		note := fmt.Sprintf("daily income on %s", runDate)
		if overflow.IsPositive() {
			note = fmt.Sprintf("daily income on %s, cap reached, overflow %s", runDate, overflow)
		}
		if _, err := record(tx, entry{
			userID:        owner.ID,
			amount:        credit,
			concept:       domain.ConceptPassiveIncome,
			paymentMethod: domain.PaymentDividendsWallet,
			status:        domain.TxStatusCompleted,
			note:          note,
		}); err != nil {
			return err
		}
		payouts = append(payouts, Payout{Username: owner.Username, Concept: domain.ConceptPassiveIncome, Amount: credit})

		// The cascade only runs while the license is still earning.
		if lic.Active {
			cascade, err := b.commissions.payUninivel(tx, owner.Username, delta, owner.Rank)
			if err != nil {
				return fmt.Errorf("uninivel from %s: %w", owner.Username, err)
			}
			payouts = append(payouts, cascade...)
		} else {
			b.log.Info("license reached cap", zap.String("username", owner.Username), zap.String("overflow", overflow.String()))
		}
		outcome = outcomeProcessed
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return outcome, payouts, nil
}
