package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Wallet struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"uniqueIndex:idx_wallets_user_kind;not null" json:"user_id"`
	Kind      string          `gorm:"uniqueIndex:idx_wallets_user_kind;size:20;not null" json:"kind"` // COMMISSIONS | DIVIDENDS
	Balance   decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Wallet) TableName() string {
	return "wallets"
}
