package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EntitlementModel struct {
	ID                string    `gorm:"type:uuid;primary_key" json:"id"`
	SubscriberAddress string    `gorm:"not null;index;uniqueIndex:idx_subscriber_creator" json:"subscriber_address"`
	CreatorAddress    string    `gorm:"not null;index;uniqueIndex:idx_subscriber_creator" json:"creator_address"`
	ExpiresAt         int64     `gorm:"not null;default:0" json:"expires_at"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (EntitlementModel) TableName() string {
	return "entitlements"
}

func (e *EntitlementModel) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
