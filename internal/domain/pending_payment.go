package domain

// PendingPayment bridges an initiated off-site/async payment and its
// eventual confirmation. At most one row exists per user; starting a new
// checkout attempt replaces the previous one. It is consumed exactly once
// when the provider confirms success and discarded on cancel or expiry.
type PendingPayment struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Method      string `json:"method"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	ProviderRef string `json:"provider_ref"` // Stripe session id, PayPal order id, NETS txn retrieval ref
	CreatedOn   string `json:"created_on"`
}
