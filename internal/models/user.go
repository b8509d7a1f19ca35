package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a node of the referral forest. Referrer holds the username of the
// parent node, nil for roots.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email     *string        `gorm:"uniqueIndex;size:255" json:"email,omitempty"`
	Referrer  *string        `gorm:"size:64;index" json:"referrer"`
	Rank      int            `gorm:"not null;default:0" json:"rank"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	License *License `gorm:"foreignKey:UserID" json:"license,omitempty"`
	Wallets []Wallet `gorm:"foreignKey:UserID" json:"wallets,omitempty"`
	Bonuses []Bonus  `gorm:"foreignKey:UserID" json:"bonuses,omitempty"`
}

func (User) TableName() string { return "users" }

// ReferrerName returns the referrer username or "" for roots.
func (u *User) ReferrerName() string {
	if u.Referrer == nil {
		return ""
	}
	return *u.Referrer
}
