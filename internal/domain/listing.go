package domain

type ListingStatus string

const (
	ListingStatusAvailable ListingStatus = "Available"
	ListingStatusRented    ListingStatus = "Rented"
	ListingStatusHidden    ListingStatus = "Hidden"
)

// StorageListing is a storage unit/space offered by a provider.
// Invariant: 0 <= AvailableUnits <= TotalUnits. AvailableUnits is a cached
// fast path; the overlap count against live bookings is authoritative.
type StorageListing struct {
	ID               int64         `json:"id"`
	ProviderID       int64         `json:"provider_id"`
	Title            string        `json:"title"`
	StorageType      string        `json:"storage_type"`
	Size             string        `json:"size"`
	Location         string        `json:"location"`
	Description      string        `json:"description"`
	BasePriceCents   int64         `json:"base_price_cents"` // per day
	TotalUnits       int32         `json:"total_units"`
	AvailableUnits   int32         `json:"available_units"`
	Status           ListingStatus `json:"status"`
	DynamicPriceCents int64        `json:"dynamic_price_cents,omitempty"` // computed, not stored
	CreatedOn        string        `json:"created_on"`
}
