package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TokenBalanceModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	Address   string    `gorm:"uniqueIndex;not null" json:"address"`
	Balance   int64     `gorm:"not null;default:0" json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TokenBalanceModel) TableName() string {
	return "token_balances"
}

func (b *TokenBalanceModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

type TokenAllowanceModel struct {
	ID             string    `gorm:"type:uuid;primary_key" json:"id"`
	OwnerAddress   string    `gorm:"not null;index;uniqueIndex:idx_owner_spender" json:"owner_address"`
	SpenderAddress string    `gorm:"not null;index;uniqueIndex:idx_owner_spender" json:"spender_address"`
	Amount         int64     `gorm:"not null;default:0" json:"amount"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (TokenAllowanceModel) TableName() string {
	return "token_allowances"
}

func (a *TokenAllowanceModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
