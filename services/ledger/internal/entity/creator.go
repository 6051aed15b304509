package entity

// Creator is a registered creator's ledger account. Earnings is the
// withdrawable balance; TotalEarnings is lifetime revenue and never
// goes down. A never-registered address reads as the zero value.
type Creator struct {
	Address         string `json:"address"`
	SubscriptionFee int64  `json:"subscription_fee"`
	Earnings        int64  `json:"earnings"`
	TotalEarnings   int64  `json:"total_earnings"`
	Registered      bool   `json:"registered"`
}
