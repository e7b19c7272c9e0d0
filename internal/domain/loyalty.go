package domain

type LoyaltyTransactionType string

const (
	LoyaltyTransactionTypeEarned   LoyaltyTransactionType = "EARNED"
	LoyaltyTransactionTypeRedeemed LoyaltyTransactionType = "REDEEMED"
	LoyaltyTransactionTypeBonus    LoyaltyTransactionType = "BONUS"
)

// LoyaltyTransaction is one row of the append-only points ledger, tied to a
// booking/invoice reference. Points are positive for EARNED/BONUS, negative
// for REDEEMED.
type LoyaltyTransaction struct {
	ID          int64                  `json:"id"`
	UserID      int64                  `json:"user_id"`
	Points      int64                  `json:"points"`
	Type        LoyaltyTransactionType `json:"type"`
	ReferenceID string                 `json:"reference_id,omitempty"`
	Description string                 `json:"description"`
	CreatedOn   string                 `json:"created_on"`
}

// LoyaltyTier is one bracket of the tier table. MaxPoints is nil for the
// open-ended top tier.
type LoyaltyTier struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	MinPoints       int64   `json:"min_points"`
	MaxPoints       *int64  `json:"max_points,omitempty"`
	EarnRate        float64 `json:"earn_rate"`
	RedeemRate      float64 `json:"redeem_rate"`
	BonusMultiplier float64 `json:"bonus_multiplier"`
}

// LoyaltyProfile is the joined view of a user's cached point totals and the
// tier those points place them in.
type LoyaltyProfile struct {
	UserID         int64       `json:"user_id"`
	CurrentPoints  int64       `json:"current_points"`
	LifetimePoints int64       `json:"lifetime_points"`
	Tier           LoyaltyTier `json:"tier"`
}
