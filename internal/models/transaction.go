package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an immutable journal entry. Only Status changes after creation.
type Transaction struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Reference     string          `gorm:"uniqueIndex;size:36;not null" json:"reference"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	Concept       string          `gorm:"size:40;not null;index" json:"concept"`
	PaymentMethod string          `gorm:"size:30" json:"payment_method,omitempty"`
	Status        string          `gorm:"size:20;not null;index" json:"status"`
	Counterparty  string          `gorm:"size:64" json:"counterparty,omitempty"` // username on the other side, if any
	Note          string          `gorm:"size:255" json:"note,omitempty"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
