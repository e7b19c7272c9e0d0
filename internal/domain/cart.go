package domain

// CartItem is one (user, listing) line in the durable cart. Unique per
// (UserID, ListingID); re-adding the same listing increments Quantity.
// Listing fields are joined in for display and pricing.
type CartItem struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	ListingID int64  `json:"listing_id"`
	Quantity  int32  `json:"quantity"`
	UpdatedOn string `json:"updated_on"`

	// Joined from storage_listings.
	Title          string `json:"title"`
	Location       string `json:"location"`
	Size           string `json:"size"`
	BasePriceCents int64  `json:"base_price_cents"`
	TotalUnits     int32  `json:"total_units"`
	AvailableUnits int32  `json:"available_units"`
}
