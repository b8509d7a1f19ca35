package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bonus is the running total a user has earned for one bonus kind.
type Bonus struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"uniqueIndex:idx_bonuses_user_kind;not null" json:"user_id"`
	Kind        string          `gorm:"uniqueIndex:idx_bonuses_user_kind;size:20;not null" json:"kind"`
	Accumulated decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"accumulated"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Bonus) TableName() string { return "bonuses" }
