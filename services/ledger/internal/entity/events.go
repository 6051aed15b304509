package entity

// Event types, routed as-is on the ledger exchange. Payload field order
// matches the reconciliation indexers and must not change.
const (
	EventCreatorRegistered        = "CreatorRegistered"
	EventSubscribed               = "Subscribed"
	EventCreatorEarningsWithdrawn = "CreatorEarningsWithdrawn"
	EventSubscriptionFeeUpdated   = "SubscriptionFeeUpdated"
)

type CreatorRegisteredEvent struct {
	Creator    string `json:"creator"`
	InitialFee int64  `json:"initial_fee"`
}

type SubscribedEvent struct {
	Subscriber string `json:"subscriber"`
	Creator    string `json:"creator"`
	Amount     int64  `json:"amount"`
	ExpiresAt  int64  `json:"expires_at"`
}

type CreatorEarningsWithdrawnEvent struct {
	Creator string `json:"creator"`
	Amount  int64  `json:"amount"`
}

type SubscriptionFeeUpdatedEvent struct {
	Creator string `json:"creator"`
	NewFee  int64  `json:"new_fee"`
}

// LedgerEvent is an outbox record persisted atomically with the
// mutation that produced it.
type LedgerEvent struct {
	Type    string `json:"type"`
	Payload string `json:"payload"`
}
