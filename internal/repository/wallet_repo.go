package repository

import (
	"fmt"

	"github.com/AldairAG/PayGlobal/internal/domain"
	"github.com/AldairAG/PayGlobal/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) Create(w *models.Wallet) error {
	return r.db.Create(w).Error
}

func (r *WalletRepository) ListByUserID(userID uint) ([]models.Wallet, error) {
	var list []models.Wallet
	err := r.db.Where("user_id = ?", userID).Order("kind ASC").Find(&list).Error
	return list, err
}

func (r *WalletRepository) Get(userID uint, kind string) (*models.Wallet, error) {
	var w models.Wallet
	err := r.db.Where("user_id = ? AND kind = ?", userID, kind).First(&w).Error
	if err != nil {
		return nil, notFound(err, "%s wallet of user %d", kind, userID)
	}
	return &w, nil
}

func (r *WalletRepository) getForUpdate(userID uint, kind string) (*models.Wallet, error) {
	var w models.Wallet
	err := forUpdate(r.db).Where("user_id = ? AND kind = ?", userID, kind).First(&w).Error
	if err != nil {
		return nil, notFound(err, "%s wallet of user %d", kind, userID)
	}
	return &w, nil
}

// Credit adds amount to the wallet. The row is locked for the rest of the
// enclosing transaction.
func (r *WalletRepository) Credit(userID uint, kind string, amount decimal.Decimal) (*models.Wallet, error) {
	w, err := r.getForUpdate(userID, kind)
	if err != nil {
		return nil, err
	}
	w.Balance = w.Balance.Add(amount)
	if err := r.db.Model(w).Update("balance", w.Balance).Error; err != nil {
		return nil, err
	}
	return w, nil
}

// Debit subtracts amount from the wallet, re-checking the balance under the row lock.
func (r *WalletRepository) Debit(userID uint, kind string, amount decimal.Decimal) (*models.Wallet, error) {
	w, err := r.getForUpdate(userID, kind)
	if err != nil {
		return nil, err
	}
	if w.Balance.LessThan(amount) {
		return nil, fmt.Errorf("%s wallet of user %d has %s, needs %s: %w",
			kind, userID, w.Balance, amount, domain.ErrInsufficientFunds)
	}
	w.Balance = w.Balance.Sub(amount)
	if err := r.db.Model(w).Update("balance", w.Balance).Error; err != nil {
		return nil, err
	}
	return w, nil
}
