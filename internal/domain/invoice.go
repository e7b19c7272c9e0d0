package domain

// CheckoutLine is one priced cart line at quote or commit time. UnitPriceCents
// reflects the dynamic price, not the listing's stored base price.
type CheckoutLine struct {
	ListingID      int64  `json:"listing_id"`
	Title          string `json:"title"`
	Location       string `json:"location"`
	Size           string `json:"size"`
	Quantity       int32  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Days           int32  `json:"days"`
	SubtotalCents  int64  `json:"subtotal_cents"`
}

// CheckoutSummary is the side-effect-free output of the checkout calculator.
type CheckoutSummary struct {
	Days          int32          `json:"days"`
	Lines         []CheckoutLine `json:"lines"`
	SubtotalCents int64          `json:"subtotal_cents"`
	TaxCents      int64          `json:"tax_cents"`
	TotalCents    int64          `json:"total_cents"`
}

// InvoiceHeader aggregates one completed checkout for rendering and history.
type InvoiceHeader struct {
	InvoiceRef    string `json:"invoice_ref"`
	UserID        int64  `json:"user_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Days          int32  `json:"days"`
	SubtotalCents int64  `json:"subtotal_cents"`
	TaxCents      int64  `json:"tax_cents"`
	TotalCents    int64  `json:"total_cents"`
	PaymentMethod string `json:"payment_method"`
	ProviderRef   string `json:"provider_ref,omitempty"`
	Status        string `json:"status"`
	PaidOn        string `json:"paid_on"`
}

// InvoiceData is the durable record a successful checkout materializes:
// the header plus one booking (with its payment) per distinct cart line.
type InvoiceData struct {
	Header   InvoiceHeader `json:"header"`
	Bookings []Booking     `json:"bookings"`
	Payments []Payment     `json:"payments"`
}
