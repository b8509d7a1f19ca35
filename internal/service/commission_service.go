package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/AldairAG/PayGlobal/internal/domain"
	"github.com/AldairAG/PayGlobal/internal/metrics"
	"github.com/AldairAG/PayGlobal/internal/models"
	"github.com/AldairAG/PayGlobal/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Payout is one committed credit to an ancestor's commissions wallet.
type Payout struct {
	Username  string          `json:"username"`
	Level     int             `json:"level"`
	Concept   string          `json:"concept"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference"`
}

func observePayouts(payouts []Payout) {
	for _, p := range payouts {
		metrics.RecordPayout(p.Concept, p.Amount)
	}
}

// CommissionService pays inscription, renewal and uninivel bonuses up the
// referral tree. Every method runs the whole payout in one transaction;
// the unexported variants join the caller's transaction instead.
type CommissionService struct {
	store *repository.Store
	plan  Plan
	log   *zap.Logger
}

func NewCommissionService(store *repository.Store, plan Plan, log *zap.Logger) *CommissionService {
	return &CommissionService{store: store, plan: plan, log: log}
}

func (s *CommissionService) inTx(ctx context.Context, fn func(tx *repository.Store) ([]Payout, error)) ([]Payout, error) {
	var payouts []Payout
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		payouts, err = fn(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	observePayouts(payouts)
	return payouts, nil
}

// PayInscription pays the inscription rates on value to the purchaser's upline.
func (s *CommissionService) PayInscription(ctx context.Context, value decimal.Decimal, purchaser string) ([]Payout, error) {
	return s.inTx(ctx, func(tx *repository.Store) ([]Payout, error) {
		return s.payInscription(tx, value, purchaser)
	})
}

// PayRenewal pays the renewal rate on value to the purchaser's direct referrer.
func (s *CommissionService) PayRenewal(ctx context.Context, value decimal.Decimal, purchaser string) ([]Payout, error) {
	return s.inTx(ctx, func(tx *repository.Store) ([]Payout, error) {
		return s.payRenewal(tx, value, purchaser)
	})
}

// PayUninivel cascades a passive income amount earned by source to its upline,
// down to depth levels.
func (s *CommissionService) PayUninivel(ctx context.Context, source string, amount decimal.Decimal, depth int) ([]Payout, error) {
	return s.inTx(ctx, func(tx *repository.Store) ([]Payout, error) {
		return s.payUninivel(tx, source, amount, depth)
	})
}

func (s *CommissionService) payInscription(tx *repository.Store, value decimal.Decimal, purchaser string) ([]Payout, error) {
	if !value.IsPositive() {
		return nil, fmt.Errorf("inscription on %s: %w", value, domain.ErrInvalidAmount)
	}
	ancestors, err := upline(tx, purchaser, len(s.plan.InscriptionRates))
	if err != nil {
		return nil, err
	}

	var payouts []Payout
	for _, a := range ancestors {
		concept := domain.ConceptIndirectRegistrationBonus
		if a.Level == 1 {
			concept = domain.ConceptDirectRegistrationBonus
		}
		amount := value.Mul(s.plan.InscriptionRates[a.Level-1])
		p, _, err := s.pay(tx, a, amount, concept, domain.BonusInscription, purchaser)
		if err != nil {
			return nil, err
		}
		if p != nil {
			payouts = append(payouts, *p)
		}
	}
	return payouts, nil
}

func (s *CommissionService) payRenewal(tx *repository.Store, value decimal.Decimal, purchaser string) ([]Payout, error) {
	if !value.IsPositive() {
		return nil, fmt.Errorf("renewal on %s: %w", value, domain.ErrInvalidAmount)
	}
	ancestors, err := upline(tx, purchaser, 1)
	if err != nil {
		return nil, err
	}
	if len(ancestors) == 0 {
		return nil, nil
	}
	amount := value.Mul(s.plan.RenewalRate)
	p, _, err := s.pay(tx, ancestors[0], amount, domain.ConceptRenewalBonus, domain.BonusRenewal, purchaser)
	if err != nil || p == nil {
		return nil, err
	}
	return []Payout{*p}, nil
}

// payUninivel pays table[L-1] of amount to each ancestor L <= depth and counts
// the payout towards the recipient's active license cap.
func (s *CommissionService) payUninivel(tx *repository.Store, source string, amount decimal.Decimal, depth int) ([]Payout, error) {
	depth = s.plan.UninivelDepth(depth)
	if !amount.IsPositive() || depth == 0 {
		return nil, nil
	}
	ancestors, err := upline(tx, source, depth)
	if err != nil {
		return nil, err
	}

	var payouts []Payout
	for _, a := range ancestors {
		bonus := amount.Mul(s.plan.UninivelRates[a.Level-1])
		p, user, err := s.pay(tx, a, bonus, domain.ConceptUninivelBonus, domain.BonusUninivel, source)
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}
		payouts = append(payouts, *p)

		lic, err := tx.Licenses.GetByUserIDForUpdate(user.ID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !lic.Active {
			continue
		}
		if addAccrual(lic, bonus) {
			s.log.Info("license reached cap from uninivel",
				zap.String("username", user.Username), zap.String("cap", lic.Cap.String()))
		}
		if err := tx.Licenses.Save(lic); err != nil {
			return nil, err
		}
	}
	return payouts, nil
}

// pay credits amount to the ancestor's commissions wallet, bumps the bonus
// accumulator and journals it. A recipient without a commissions wallet is
// skipped with a nil payout.
func (s *CommissionService) pay(tx *repository.Store, to NetworkEntry, amount decimal.Decimal, concept, bonusKind, source string) (*Payout, *models.User, error) {
	if !amount.IsPositive() {
		return nil, nil, nil
	}
	user, err := tx.Users.GetByUsername(to.Username)
	if err != nil {
		return nil, nil, err
	}
	if _, err := tx.Wallets.Credit(user.ID, domain.WalletCommissions, amount); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("skipping payout, recipient has no commissions wallet",
				zap.String("username", user.Username), zap.String("concept", concept))
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if _, err := tx.Bonuses.Add(user.ID, bonusKind, amount); err != nil {
		return nil, nil, err
	}
	t, err := record(tx, entry{
		userID:        user.ID,
		amount:        amount,
		concept:       concept,
		paymentMethod: domain.PaymentCommissionsWallet,
		status:        domain.TxStatusCompleted,
		counterparty:  source,
		note:          fmt.Sprintf("level %d", to.Level),
	})
	if err != nil {
		return nil, nil, err
	}
	return &Payout{Username: user.Username, Level: to.Level, Concept: concept, Amount: amount, Reference: t.Reference}, user, nil
}
