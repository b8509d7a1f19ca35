package repository

import (
	"time"

	"github.com/AldairAG/PayGlobal/internal/models"

	"gorm.io/gorm"
)

// TransactionFilter narrows a journal listing. Nil fields are ignored.
type TransactionFilter struct {
	UserID  *uint
	Concept *string
	Status  *string
	From    *time.Time
	To      *time.Time
	Page    int
	Limit   int
}

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(t *models.Transaction) error {
	return r.db.Create(t).Error
}

func (r *TransactionRepository) GetByReference(reference string) (*models.Transaction, error) {
	var t models.Transaction
	err := r.db.Where("reference = ?", reference).First(&t).Error
	if err != nil {
		return nil, notFound(err, "transaction %s", reference)
	}
	return &t, nil
}

func (r *TransactionRepository) GetByReferenceForUpdate(reference string) (*models.Transaction, error) {
	var t models.Transaction
	err := forUpdate(r.db).Where("reference = ?", reference).First(&t).Error
	if err != nil {
		return nil, notFound(err, "transaction %s", reference)
	}
	return &t, nil
}

func (r *TransactionRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Transaction{}).Where("id = ?", id).Update("status", status).Error
}

// List returns one page of journal entries, newest first, and the total match count.
func (r *TransactionRepository) List(filter TransactionFilter) ([]models.Transaction, int64, error) {
	query := r.db.Model(&models.Transaction{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Concept != nil {
		query = query.Where("concept = ?", *filter.Concept)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var list []models.Transaction
	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// ListByConcepts returns the user's entries with the given status and any of the concepts, oldest first.
func (r *TransactionRepository) ListByConcepts(userID uint, status string, concepts []string) ([]models.Transaction, error) {
	var list []models.Transaction
	err := r.db.Where("user_id = ? AND status = ? AND concept IN ?", userID, status, concepts).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}
