package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/AldairAG/PayGlobal/internal/domain"
	"github.com/AldairAG/PayGlobal/internal/models"
	"github.com/AldairAG/PayGlobal/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// WalletService moves funds out of wallets: user-to-user transfers and
// withdrawal requests awaiting manual resolution.
type WalletService struct {
	store *repository.Store
	log   *zap.Logger
}

func NewWalletService(store *repository.Store, log *zap.Logger) *WalletService {
	return &WalletService{store: store, log: log}
}

func (s *WalletService) Wallets(ctx context.Context, username string) ([]models.Wallet, error) {
	store := s.store.WithContext(ctx)
	user, err := store.Users.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	return store.Wallets.ListByUserID(user.ID)
}

func checkDebit(amount decimal.Decimal, walletKind string) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%s: %w", amount, domain.ErrInvalidAmount)
	}
	if !domain.IsWalletKind(walletKind) {
		return fmt.Errorf("wallet kind %q: %w", walletKind, domain.ErrInvalidInput)
	}
	return nil
}

// Transfer debits the sender's wallet of walletKind and credits the
// recipient's dividends wallet. Both sides are journaled.
func (s *WalletService) Transfer(ctx context.Context, from, to string, amount decimal.Decimal, walletKind string) (*models.Transaction, error) {
	if err := checkDebit(amount, walletKind); err != nil {
		return nil, err
	}
	if from == to {
		return nil, fmt.Errorf("transfer to self: %w", domain.ErrInvalidInput)
	}

	var out *models.Transaction
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		sender, err := tx.Users.GetByUsername(from)
		if err != nil {
			return err
		}
		recipient, err := tx.Users.GetByUsername(to)
		if err != nil {
			return err
		}
		if _, err := tx.Wallets.Debit(sender.ID, walletKind, amount); err != nil {
			return err
		}
		if _, err := tx.Wallets.Credit(recipient.ID, domain.WalletDividends, amount); err != nil {
			return err
		}
		out, err = record(tx, entry{
			userID:        sender.ID,
			amount:        amount.Neg(),
			concept:       domain.ConceptUserTransfer,
			paymentMethod: domain.PaymentMethodFor(walletKind),
			status:        domain.TxStatusApproved,
			counterparty:  recipient.Username,
		})
		if err != nil {
			return err
		}
		_, err = record(tx, entry{
			userID:        recipient.ID,
			amount:        amount,
			concept:       domain.ConceptUserTransfer,
			paymentMethod: domain.PaymentDividendsWallet,
			status:        domain.TxStatusApproved,
			counterparty:  sender.Username,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("transfer", zap.String("from", from), zap.String("to", to), zap.String("amount", amount.String()))
	return out, nil
}

// RequestWithdrawal holds amount out of the wallet and journals a PENDING
// withdrawal to address.
func (s *WalletService) RequestWithdrawal(ctx context.Context, username, walletKind string, amount decimal.Decimal, address string) (*models.Transaction, error) {
	if err := checkDebit(amount, walletKind); err != nil {
		return nil, err
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("withdrawal address is required: %w", domain.ErrInvalidInput)
	}

	var out *models.Transaction
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		user, err := tx.Users.GetByUsername(username)
		if err != nil {
			return err
		}
		if _, err := tx.Wallets.Debit(user.ID, walletKind, amount); err != nil {
			return err
		}
		out, err = record(tx, entry{
			userID:        user.ID,
			amount:        amount.Neg(),
			concept:       domain.ConceptWithdrawal,
			paymentMethod: domain.PaymentMethodFor(walletKind),
			status:        domain.TxStatusPending,
			note:          address,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("withdrawal requested",
		zap.String("username", username),
		zap.String("reference", out.Reference),
		zap.String("amount", amount.String()))
	return out, nil
}

// ResolveWithdrawal approves or rejects a pending withdrawal. A rejection
// returns the held amount to the wallet it came from.
func (s *WalletService) ResolveWithdrawal(ctx context.Context, reference string, approve bool) (*models.Transaction, error) {
	status := domain.TxStatusRejected
	if approve {
		status = domain.TxStatusApproved
	}

	var out *models.Transaction
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		t, err := tx.Transactions.GetByReferenceForUpdate(reference)
		if err != nil {
			return err
		}
		if t.Concept != domain.ConceptWithdrawal {
			return fmt.Errorf("transaction %s is a %s: %w", reference, t.Concept, domain.ErrInvalidStatus)
		}
		if t.Status != domain.TxStatusPending {
			return fmt.Errorf("withdrawal %s is %s: %w", reference, t.Status, domain.ErrInvalidStatus)
		}
		if !approve {
			kind := domain.WalletKindFor(t.PaymentMethod)
			if _, err := tx.Wallets.Credit(t.UserID, kind, t.Amount.Abs()); err != nil {
				return fmt.Errorf("refund withdrawal %s: %w", reference, err)
			}
		}
		if err := tx.Transactions.UpdateStatus(t.ID, status); err != nil {
			return err
		}
		t.Status = status
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("withdrawal resolved", zap.String("reference", reference), zap.String("status", status))
	return out, nil
}
