package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerEvent is the outbox row written in the same transaction as the
// mutation it describes. Payload is the JSON body published to the
// ledger_events exchange; off-chain consumers reconcile against it.
type LedgerEvent struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	Type      string    `gorm:"type:varchar(40);not null;index" json:"type"`
	Payload   string    `gorm:"type:jsonb;not null" json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *LedgerEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
