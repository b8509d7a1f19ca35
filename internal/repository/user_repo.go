package repository

import (
	"github.com/AldairAG/PayGlobal/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	err := r.db.First(&u, id).Error
	if err != nil {
		return nil, notFound(err, "user %d", id)
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var u models.User
	err := r.db.Where("username = ?", username).First(&u).Error
	if err != nil {
		return nil, notFound(err, "user %q", username)
	}
	return &u, nil
}

// GetProfile loads the user with license, wallets and bonus accumulators.
func (r *UserRepository) GetProfile(username string) (*models.User, error) {
	var u models.User
	err := r.db.Preload("License").Preload("Wallets").Preload("Bonuses").
		Where("username = ?", username).First(&u).Error
	if err != nil {
		return nil, notFound(err, "user %q", username)
	}
	return &u, nil
}

func (r *UserRepository) Exists(username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// ListByReferrer returns the direct referrals of username.
func (r *UserRepository) ListByReferrer(username string) ([]models.User, error) {
	var list []models.User
	err := r.db.Where("referrer = ?", username).Order("id ASC").Find(&list).Error
	return list, err
}

// ListUsernames returns every username in registration order.
func (r *UserRepository) ListUsernames() ([]string, error) {
	var names []string
	err := r.db.Model(&models.User{}).Order("id ASC").Pluck("username", &names).Error
	return names, err
}

func (r *UserRepository) UpdateRank(id uint, rank int) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("rank", rank).Error
}

func (r *UserRepository) UpdateReferrer(id uint, referrer *string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("referrer", referrer).Error
}

func (r *UserRepository) Update(u *models.User) error {
	return r.db.Save(u).Error
}
