package repository

import (
	"github.com/AldairAG/PayGlobal/internal/models"

	"gorm.io/gorm"
)

type LicenseRepository struct {
	db *gorm.DB
}

func NewLicenseRepository(db *gorm.DB) *LicenseRepository {
	return &LicenseRepository{db: db}
}

func (r *LicenseRepository) Create(l *models.License) error {
	return r.db.Create(l).Error
}

func (r *LicenseRepository) GetByUserID(userID uint) (*models.License, error) {
	var l models.License
	err := r.db.Where("user_id = ?", userID).First(&l).Error
	if err != nil {
		return nil, notFound(err, "license of user %d", userID)
	}
	return &l, nil
}

// GetByUserIDForUpdate loads the license and locks its row until the transaction ends.
func (r *LicenseRepository) GetByUserIDForUpdate(userID uint) (*models.License, error) {
	var l models.License
	err := forUpdate(r.db).Where("user_id = ?", userID).First(&l).Error
	if err != nil {
		return nil, notFound(err, "license of user %d", userID)
	}
	return &l, nil
}

func (r *LicenseRepository) GetByIDForUpdate(id uint) (*models.License, error) {
	var l models.License
	err := forUpdate(r.db).First(&l, id).Error
	if err != nil {
		return nil, notFound(err, "license %d", id)
	}
	return &l, nil
}

// ListActiveIDs returns the ids of every active license in id order.
func (r *LicenseRepository) ListActiveIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.License{}).Where("active = ?", true).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

func (r *LicenseRepository) ListByUserIDs(userIDs []uint) ([]models.License, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var list []models.License
	err := r.db.Where("user_id IN ?", userIDs).Find(&list).Error
	return list, err
}

func (r *LicenseRepository) Save(l *models.License) error {
	return r.db.Save(l).Error
}
