package entity

// Entitlement is the subscription window for a (subscriber, creator)
// pair. ExpiresAt is a unix timestamp; zero means never subscribed.
type Entitlement struct {
	SubscriberAddress string `json:"subscriber_address"`
	CreatorAddress    string `json:"creator_address"`
	ExpiresAt         int64  `json:"expires_at"`
}

// ActiveAt reports whether the entitlement covers the given unix time.
// The expiry instant itself is the first second of lapse.
func (e *Entitlement) ActiveAt(now int64) bool {
	if e == nil {
		return false
	}
	return e.ExpiresAt > now
}
