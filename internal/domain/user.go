package domain

type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	// Cached aggregates. The wallet ledger and loyalty ledger are
	// authoritative; these columns exist for fast reads only.
	WalletBalanceCents int64  `json:"wallet_balance_cents"`
	LoyaltyPoints      int64  `json:"loyalty_points"`
	LifetimePoints     int64  `json:"lifetime_points"`
	CreatedOn          string `json:"created_on"`
}
