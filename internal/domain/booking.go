package domain

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusPaid      BookingStatus = "Paid"
	BookingStatusActive    BookingStatus = "Active"
	BookingStatusCompleted BookingStatus = "Completed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

type RefundStatus string

const (
	RefundStatusNone    RefundStatus = "NONE"
	RefundStatusPartial RefundStatus = "PARTIAL"
	RefundStatusFull    RefundStatus = "FULL"
)

// Booking is one reserved unit-quantity of a listing for a date range.
// Price fields are snapshots captured at checkout; they never track later
// listing edits.
type Booking struct {
	ID             int64         `json:"id"`
	UserID         int64         `json:"user_id"`
	ListingID      int64         `json:"listing_id"`
	InvoiceRef     string        `json:"invoice_ref"`
	Quantity       int32         `json:"quantity"`
	StartDate      string        `json:"start_date"`
	EndDate        string        `json:"end_date"`
	Days           int32         `json:"days"`
	UnitPriceCents int64         `json:"unit_price_cents"`
	SubtotalCents  int64         `json:"subtotal_cents"`
	Status         BookingStatus `json:"status"`
	CreatedOn      string        `json:"created_on"`
}

// Payment records the capture linked to one booking. Immutable after
// creation except for refund bookkeeping.
type Payment struct {
	ID             int64        `json:"id"`
	BookingID      int64        `json:"booking_id"`
	AmountCents    int64        `json:"amount_cents"`
	Method         string       `json:"method"`
	ProviderRef    string       `json:"provider_ref,omitempty"`
	RefundedCents  int64        `json:"refunded_cents"`
	RefundStatus   RefundStatus `json:"refund_status"`
	PaymentDate    string       `json:"payment_date"`
}

// PaymentRefund is an immutable refund-ledger row recorded by an admin.
type PaymentRefund struct {
	ID          int64  `json:"id"`
	PaymentID   int64  `json:"payment_id"`
	AmountCents int64  `json:"amount_cents"`
	Reason      string `json:"reason"`
	AdminUserID int64  `json:"admin_user_id"`
	CreatedOn   string `json:"created_on"`
}
