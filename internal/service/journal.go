package service

import (
	"context"
	"fmt"
	"time"

	"github.com/AldairAG/PayGlobal/internal/domain"
	"github.com/AldairAG/PayGlobal/internal/models"
	"github.com/AldairAG/PayGlobal/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// entry is a journal line to append. Credits are positive, debits negative.
type entry struct {
	userID        uint
	amount        decimal.Decimal
	concept       string
	paymentMethod string
	status        string
	counterparty  string
	note          string
}

func record(tx *repository.Store, e entry) (*models.Transaction, error) {
	t := &models.Transaction{
		Reference:     uuid.NewString(),
		UserID:        e.userID,
		Amount:        e.amount,
		Concept:       e.concept,
		PaymentMethod: e.paymentMethod,
		Status:        e.status,
		Counterparty:  e.counterparty,
		Note:          e.note,
	}
	if err := tx.Transactions.Create(t); err != nil {
		return nil, fmt.Errorf("journal %s for user %d: %w", e.concept, e.userID, err)
	}
	return t, nil
}

// allowedTransitions lists the statuses each status may move to.
var allowedTransitions = map[string][]string{
	domain.TxStatusPending:  {domain.TxStatusApproved, domain.TxStatusRejected, domain.TxStatusCompleted},
	domain.TxStatusApproved: {domain.TxStatusCompleted},
}

func checkTransition(from, to string) error {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("%s to %s: %w", from, to, domain.ErrInvalidStatus)
}

// MonthlyEarning is the completed income of one calendar month.
type MonthlyEarning struct {
	Month string          `json:"month"` // YYYY-MM
	Total decimal.Decimal `json:"total"`
}

// TransactionQuery narrows a user's journal listing.
type TransactionQuery struct {
	Concept string
	Status  string
	From    *time.Time
	To      *time.Time
	Page    int
	Limit   int
}

type JournalService struct {
	store *repository.Store
	log   *zap.Logger
}

func NewJournalService(store *repository.Store, log *zap.Logger) *JournalService {
	return &JournalService{store: store, log: log}
}

// List returns one page of the user's journal, newest first.
func (s *JournalService) List(ctx context.Context, username string, q TransactionQuery) ([]models.Transaction, int64, error) {
	store := s.store.WithContext(ctx)
	user, err := store.Users.GetByUsername(username)
	if err != nil {
		return nil, 0, err
	}
	filter := repository.TransactionFilter{UserID: &user.ID, From: q.From, To: q.To, Page: q.Page, Limit: q.Limit}
	if q.Concept != "" {
		filter.Concept = &q.Concept
	}
	if q.Status != "" {
		filter.Status = &q.Status
	}
	return store.Transactions.List(filter)
}

// MonthlyEarnings sums the user's completed earning entries per month, oldest first.
func (s *JournalService) MonthlyEarnings(ctx context.Context, username string) ([]MonthlyEarning, error) {
	store := s.store.WithContext(ctx)
	user, err := store.Users.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	list, err := store.Transactions.ListByConcepts(user.ID, domain.TxStatusCompleted, domain.EarningConcepts)
	if err != nil {
		return nil, err
	}

	var out []MonthlyEarning
	for _, t := range list {
		month := t.CreatedAt.UTC().Format("2006-01")
		if n := len(out); n > 0 && out[n-1].Month == month {
			out[n-1].Total = out[n-1].Total.Add(t.Amount)
			continue
		}
		out = append(out, MonthlyEarning{Month: month, Total: t.Amount})
	}
	return out, nil
}

// UpdateStatus moves a journal entry along PENDING -> APPROVED|REJECTED|COMPLETED
// and APPROVED -> COMPLETED. Withdrawals are resolved through WalletService,
// which also refunds rejections.
func (s *JournalService) UpdateStatus(ctx context.Context, reference, status string) (*models.Transaction, error) {
	var out *models.Transaction
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		t, err := tx.Transactions.GetByReferenceForUpdate(reference)
		if err != nil {
			return err
		}
		if t.Concept == domain.ConceptWithdrawal && status == domain.TxStatusRejected {
			return fmt.Errorf("withdrawal %s must be rejected with a refund: %w", reference, domain.ErrInvalidStatus)
		}
		if err := checkTransition(t.Status, status); err != nil {
			return err
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
	s.log.Info("transaction status updated", zap.String("reference", reference), zap.String("status", status))
	return out, nil
}
