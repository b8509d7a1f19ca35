package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/AldairAG/PayGlobal/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store groups the ledger repositories over a single gorm handle, which is
// either the pool or an open transaction.
type Store struct {
	db *gorm.DB

	Users        *UserRepository
	Licenses     *LicenseRepository
	Wallets      *WalletRepository
	Transactions *TransactionRepository
	Bonuses      *BonusRepository
	BatchRuns    *BatchRunRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		Users:        NewUserRepository(db),
		Licenses:     NewLicenseRepository(db),
		Wallets:      NewWalletRepository(db),
		Transactions: NewTransactionRepository(db),
		Bonuses:      NewBonusRepository(db),
		BatchRuns:    NewBatchRunRepository(db),
	}
}

// WithContext returns a Store whose queries are bound to ctx.
func (s *Store) WithContext(ctx context.Context) *Store {
	return NewStore(s.db.WithContext(ctx))
}

// Transaction runs fn inside a database transaction. Calling it on a Store
// that is already transactional nests through a savepoint.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// forUpdate adds a row lock to the query. SQLite has no row locks; its
// writers are already serialized.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), domain.ErrNotFound)
	}
	return err
}
