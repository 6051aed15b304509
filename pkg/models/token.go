package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenBalance is an account balance in the stablecoin ledger,
// denominated in the token's smallest unit (6 decimals).
type TokenBalance struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	Address   string    `gorm:"uniqueIndex;not null" json:"address"`
	Balance   int64     `gorm:"not null;default:0" json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *TokenBalance) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// TokenAllowance is the amount a spender may pull from an owner.
// Approve overwrites it; TransferFrom decrements it.
type TokenAllowance struct {
	ID             string    `gorm:"type:uuid;primary_key" json:"id"`
	OwnerAddress   string    `gorm:"not null;index;uniqueIndex:idx_owner_spender" json:"owner_address"`
	SpenderAddress string    `gorm:"not null;index;uniqueIndex:idx_owner_spender" json:"spender_address"`
	Amount         int64     `gorm:"not null;default:0" json:"amount"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (a *TokenAllowance) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
