package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AldairAG/PayGlobal/internal/domain"
	"github.com/AldairAG/PayGlobal/internal/models"
	"github.com/AldairAG/PayGlobal/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PurchaseResult is the license after a purchase and the bonuses it paid.
type PurchaseResult struct {
	License     *models.License     `json:"license"`
	Renewal     bool                `json:"renewal"`
	Payouts     []Payout            `json:"payouts"`
	Transaction *models.Transaction `json:"transaction"`
}

// LicenseService sells licenses. A purchase merges into the buyer's license
// and pays renewal and inscription bonuses in the same transaction.
type LicenseService struct {
	store       *repository.Store
	plan        Plan
	commissions *CommissionService
	log         *zap.Logger
	now         func() time.Time
}

func NewLicenseService(store *repository.Store, plan Plan, commissions *CommissionService, log *zap.Logger) *LicenseService {
	return &LicenseService{store: store, plan: plan, commissions: commissions, log: log, now: time.Now}
}

// Purchase buys a license tier for username, paid outside the wallets.
func (s *LicenseService) Purchase(ctx context.Context, username string, value decimal.Decimal) (*PurchaseResult, error) {
	if err := s.checkTier(value); err != nil {
		return nil, err
	}
	var res *PurchaseResult
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		user, err := tx.Users.GetByUsername(username)
		if err != nil {
			return err
		}
		res, err = s.purchase(tx, user, value)
		if err != nil {
			return err
		}
		res.Transaction, err = record(tx, entry{
			userID:        user.ID,
			amount:        value,
			concept:       domain.ConceptLicensePurchase,
			paymentMethod: domain.PaymentCryptoTransfer,
			status:        domain.TxStatusApproved,
			note:          res.License.Tier,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	observePayouts(res.Payouts)
	s.log.Info("license purchased",
		zap.String("username", username),
		zap.String("value", value.String()),
		zap.Bool("renewal", res.Renewal))
	return res, nil
}

// PurchaseDelegated buys a license tier for recipient, paid from the payer's
// wallet of walletKind. Bonuses are computed on the recipient's upline.
func (s *LicenseService) PurchaseDelegated(ctx context.Context, payer, recipient string, value decimal.Decimal, walletKind string) (*PurchaseResult, error) {
	if err := s.checkTier(value); err != nil {
		return nil, err
	}
	if !domain.IsWalletKind(walletKind) {
		return nil, fmt.Errorf("wallet kind %q: %w", walletKind, domain.ErrInvalidInput)
	}
	var res *PurchaseResult
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		payerUser, err := tx.Users.GetByUsername(payer)
		if err != nil {
			return err
		}
		recipientUser, err := tx.Users.GetByUsername(recipient)
		if err != nil {
			return err
		}
		if _, err := tx.Wallets.Debit(payerUser.ID, walletKind, value); err != nil {
			return err
		}
		res, err = s.purchase(tx, recipientUser, value)
		if err != nil {
			return err
		}
		res.Transaction, err = record(tx, entry{
			userID:        payerUser.ID,
			amount:        value.Neg(),
			concept:       domain.ConceptDelegatedLicensePurchase,
			paymentMethod: domain.PaymentMethodFor(walletKind),
			status:        domain.TxStatusApproved,
			counterparty:  recipientUser.Username,
			note:          res.License.Tier,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	observePayouts(res.Payouts)
	s.log.Info("delegated license purchased",
		zap.String("payer", payer),
		zap.String("recipient", recipient),
		zap.String("value", value.String()),
		zap.String("wallet", walletKind))
	return res, nil
}

func (s *LicenseService) checkTier(value decimal.Decimal) error {
	if _, ok := s.plan.TierByValue(value); !ok {
		return fmt.Errorf("%s is not a license tier: %w", value, domain.ErrInvalidAmount)
	}
	return nil
}

// purchase merges value into the user's license and pays the renewal bonus
// (when reactivating a capped license) before the inscription bonus.
func (s *LicenseService) purchase(tx *repository.Store, user *models.User, value decimal.Decimal) (*PurchaseResult, error) {
	current, err := tx.Licenses.GetByUserIDForUpdate(user.ID)
	if errors.Is(err, domain.ErrNotFound) {
		current = nil
	} else if err != nil {
		return nil, err
	}

	merged, err := MergePurchase(s.plan, current, value, s.now())
	if err != nil {
		return nil, err
	}
	lic := merged.License
	if merged.Created {
		lic.UserID = user.ID
		err = tx.Licenses.Create(lic)
	} else {
		err = tx.Licenses.Save(lic)
	}
	if err != nil {
		return nil, err
	}

	res := &PurchaseResult{License: lic, Renewal: merged.Renewal}
	if merged.Renewal {
		payouts, err := s.commissions.payRenewal(tx, value, user.Username)
		if err != nil {
			return nil, err
		}
		res.Payouts = append(res.Payouts, payouts...)
	}
	payouts, err := s.commissions.payInscription(tx, value, user.Username)
	if err != nil {
		return nil, err
	}
	res.Payouts = append(res.Payouts, payouts...)
	return res, nil
}
