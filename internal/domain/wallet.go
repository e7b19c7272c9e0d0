package domain

type WalletTransactionType string

const (
	WalletTransactionTypeTopup    WalletTransactionType = "topup"
	WalletTransactionTypePurchase WalletTransactionType = "purchase"
	WalletTransactionTypeRefund   WalletTransactionType = "refund"
)

type WalletTransactionStatus string

const (
	WalletTransactionStatusPending   WalletTransactionStatus = "pending"
	WalletTransactionStatusCompleted WalletTransactionStatus = "completed"
	WalletTransactionStatusFailed    WalletTransactionStatus = "failed"
)

// WalletTransaction is one row of the append-only wallet ledger. The user's
// spendable balance is the signed sum of completed entries; topup and refund
// credit, purchase debits.
type WalletTransaction struct {
	ID          int64                   `json:"id"`
	UserID      int64                   `json:"user_id"`
	Type        WalletTransactionType   `json:"type"`
	AmountCents int64                   `json:"amount_cents"`
	Description string                  `json:"description"`
	Status      WalletTransactionStatus `json:"status"`
	CreatedOn   string                  `json:"created_on"`
}
