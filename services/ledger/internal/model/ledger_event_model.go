package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LedgerEventModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	Type      string    `gorm:"type:varchar(40);not null;index" json:"type"`
	Payload   string    `gorm:"type:jsonb;not null" json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

func (LedgerEventModel) TableName() string {
	return "ledger_events"
}

func (e *LedgerEventModel) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
