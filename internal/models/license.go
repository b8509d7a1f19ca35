package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// License is the purchased package a user earns passive income against.
// Price is cumulative across purchases; Cap is the accrual ceiling.
type License struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	Tier        string          `gorm:"size:20" json:"tier"`
	Price       decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"price"`
	Cap         decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"cap"`
	Accrued     decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"accrued"`
	Active      bool            `gorm:"not null;index" json:"active"`
	PurchasedAt *time.Time      `json:"purchased_at"`
	// LastAccruedOn is the YYYY-MM-DD of the last passive income run applied to this license.
	LastAccruedOn string    `gorm:"size:10" json:"last_accrued_on,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (License) TableName() string { return "licenses" }

// Purchased reports whether any value was ever merged into the license.
func (l *License) Purchased() bool {
	return l.Price.IsPositive()
}
