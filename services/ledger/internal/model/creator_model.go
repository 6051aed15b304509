package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreatorModel struct {
	ID              string    `gorm:"type:uuid;primary_key" json:"id"`
	Address         string    `gorm:"uniqueIndex;not null" json:"address"`
	SubscriptionFee int64     `gorm:"not null" json:"subscription_fee"`
	Earnings        int64     `gorm:"not null;default:0" json:"earnings"`
	TotalEarnings   int64     `gorm:"not null;default:0" json:"total_earnings"`
	Registered      bool      `gorm:"not null;default:false" json:"registered"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (CreatorModel) TableName() string {
	return "creators"
}

func (c *CreatorModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
