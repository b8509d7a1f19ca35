package repository

import (
	"time"

	"github.com/AldairAG/PayGlobal/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BonusRepository struct {
	db *gorm.DB
}

func NewBonusRepository(db *gorm.DB) *BonusRepository {
	return &BonusRepository{db: db}
}

// Add increments the user's accumulator for kind, creating it on first payout.
// The increment happens in the database so concurrent payouts to the same key add up.
func (r *BonusRepository) Add(userID uint, kind string, amount decimal.Decimal) (*models.Bonus, error) {
	b := models.Bonus{UserID: userID, Kind: kind, Accumulated: amount}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "kind"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"accumulated": gorm.Expr("bonuses.accumulated + ?", amount),
			"updated_at":  time.Now(),
		}),
	}).Create(&b).Error
	if err != nil {
		return nil, err
	}
	return r.Get(userID, kind)
}

func (r *BonusRepository) Get(userID uint, kind string) (*models.Bonus, error) {
	var b models.Bonus
	err := r.db.Where("user_id = ? AND kind = ?", userID, kind).First(&b).Error
	if err != nil {
		return nil, notFound(err, "%s bonus of user %d", kind, userID)
	}
	return &b, nil
}

func (r *BonusRepository) ListByUserID(userID uint) ([]models.Bonus, error) {
	var list []models.Bonus
	err := r.db.Where("user_id = ?", userID).Order("kind ASC").Find(&list).Error
	return list, err
}
