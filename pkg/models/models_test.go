package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreator_BeforeCreate(t *testing.T) {
	creator := &Creator{
		Address:         "0xcreator",
		SubscriptionFee: 10_000000,
		Registered:      true,
	}

	// BeforeCreate should set ID if empty
	err := creator.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, creator.ID)
}

func TestCreator_BeforeCreate_WithID(t *testing.T) {
	existingID := "existing-id-123"
	creator := &Creator{
		ID:      existingID,
		Address: "0xcreator",
	}

	err := creator.BeforeCreate(nil)
	assert.NoError(t, err)
	// ID should remain unchanged if already set
	assert.Equal(t, existingID, creator.ID)
}

func TestEntitlement_BeforeCreate(t *testing.T) {
	entitlement := &Entitlement{
		SubscriberAddress: "0xsubscriber",
		CreatorAddress:    "0xcreator",
		ExpiresAt:         1_700_000_000,
	}

	err := entitlement.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, entitlement.ID)
}

func TestTokenBalance_BeforeCreate(t *testing.T) {
	balance := &TokenBalance{
		Address: "0xsubscriber",
		Balance: 1000_000000,
	}

	err := balance.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, balance.ID)
}

func TestTokenAllowance_BeforeCreate(t *testing.T) {
	allowance := &TokenAllowance{
		OwnerAddress:   "0xsubscriber",
		SpenderAddress: "pulse-ledger-vault",
		Amount:         10_000000,
	}

	err := allowance.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, allowance.ID)
}

func TestLedgerEvent_BeforeCreate(t *testing.T) {
	event := &LedgerEvent{
		Type:    "CreatorRegistered",
		Payload: `{"creator":"0xcreator","initial_fee":10000000}`,
	}

	err := event.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, event.ID)
}
