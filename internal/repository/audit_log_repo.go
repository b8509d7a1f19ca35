package repository

import (
	"github.com/AldairAG/PayGlobal/internal/models"

	"gorm.io/gorm"
)

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(log *models.AuditLog) error {
	return r.db.Create(log).Error
}

// List returns one page of entries, newest first, optionally for one action.
func (r *AuditLogRepository) List(action string, page, limit int) ([]models.AuditLog, int64, error) {
	query := r.db.Model(&models.AuditLog{})
	if action != "" {
		query = query.Where("action = ?", action)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.AuditLog
	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}
