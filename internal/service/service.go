package service

import (
	"context"
	"time"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/payments"
)

type ListingService interface {
	ListListings(ctx context.Context) ([]domain.StorageListing, error)
	GetListing(ctx context.Context, id int64) (*domain.StorageListing, error)
	ListByProvider(ctx context.Context, providerID int64) ([]domain.StorageListing, error)
	CreateListing(ctx context.Context, listing *domain.StorageListing) error
	UpdateListing(ctx context.Context, providerID int64, listing *domain.StorageListing) error
	DeleteListing(ctx context.Context, providerID, listingID int64) error
}

type CartService interface {
	AddItem(ctx context.Context, userID, listingID int64) error
	UpdateQuantity(ctx context.Context, userID, listingID int64, quantity int32) error
	RemoveItem(ctx context.Context, userID, listingID int64) error
	GetCart(ctx context.Context, userID int64) ([]domain.CartItem, error)
}

type AvailabilityService interface {
	// CheckAvailability verifies every line against the overlap-counted truth
	// for the booked date range. The cached available_units column is never
	// consulted here.
	CheckAvailability(ctx context.Context, lines []domain.CheckoutLine, startDate, endDate string) error
	DecrementStock(ctx context.Context, listingID int64, qty int32) error
	IncrementStock(ctx context.Context, listingID int64, qty int32) error
	// Reconcile recomputes every listing's cached availability from live
	// bookings as of the given date. Returns how many listings were touched.
	Reconcile(ctx context.Context, asOf string) (int32, error)
}

type CheckoutService interface {
	// Quote prices the user's cart for a date range. Side-effect free.
	Quote(ctx context.Context, userID int64, startDate, endDate string) (*domain.CheckoutSummary, error)
	// CreateFromCart re-quotes, re-checks availability, and materializes the
	// invoice (bookings + payments + cart clear) atomically. Loyalty accrual,
	// availability decrement and the receipt email run post-commit and never
	// fail the checkout.
	CreateFromCart(ctx context.Context, userID int64, startDate, endDate, method, providerRef string) (*domain.InvoiceData, error)
}

// PaymentInitiation is the polymorphic response of starting a payment:
// wallet settles inline, Stripe redirects, PayPal hands the approval flow to
// the client SDK, NETS returns a QR to scan.
type PaymentInitiation struct {
	Method        string              `json:"method"`
	Status        string              `json:"status"` // "paid", "redirect", "approval", "qr"
	Invoice       *domain.InvoiceData `json:"invoice,omitempty"`
	RedirectURL   string              `json:"redirect_url,omitempty"`
	QRCodeDataURL string              `json:"qr_code,omitempty"`
	ProviderRef   string              `json:"provider_ref,omitempty"`
}

// Nets confirmation states as seen by the SSE poller and the webhook.
const (
	NetsStatusPending = "pending"
	NetsStatusPaid    = "paid"
	NetsStatusFailed  = "failed"
)

type PaymentService interface {
	InitiatePayment(ctx context.Context, userID int64, method, startDate, endDate string) (*PaymentInitiation, error)
	CreatePayPalOrder(ctx context.Context, userID int64) (*payments.PayPalOrder, error)
	CapturePayPalOrder(ctx context.Context, userID int64, orderID string) (*domain.InvoiceData, error)
	ConfirmStripeSession(ctx context.Context, sessionID string) (*domain.InvoiceData, error)
	// CheckNetsStatus drives one poll tick (or one webhook delivery). The
	// first observed success books exactly once; later calls report paid
	// without booking again.
	CheckNetsStatus(ctx context.Context, retrievalRef string, frontendTimeout int) (string, *domain.InvoiceData, error)
	CancelPending(ctx context.Context, userID int64) error
}

type WalletService interface {
	Balance(ctx context.Context, userID int64) (int64, error)
	History(ctx context.Context, userID int64, limit int32) ([]domain.WalletTransaction, error)
	InitiateTopup(ctx context.Context, userID, amountCents int64, method string) (*PaymentInitiation, error)
	ConfirmStripeTopup(ctx context.Context, sessionID string) (int64, error)
	CapturePayPalTopup(ctx context.Context, userID int64, orderID string) (int64, error)
	CheckNetsTopup(ctx context.Context, retrievalRef string, frontendTimeout int) (string, int64, error)
}

type LoyaltyService interface {
	Info(ctx context.Context, userID int64) (*domain.LoyaltyProfile, []domain.LoyaltyTransaction, error)
	Tiers(ctx context.Context) ([]domain.LoyaltyTier, error)
	// AwardForPurchase accrues points on a captured amount. Returns the
	// points granted; callers treat failures as log-and-continue.
	AwardForPurchase(ctx context.Context, userID, amountCents int64, referenceID string) (int64, error)
	CalculateReward(ctx context.Context, userID, amountCents int64) (int64, error)
	// Redeem burns points and credits the equivalent discount to the wallet.
	Redeem(ctx context.Context, userID, points int64, referenceID string) (int64, error)
	AwardBonus(ctx context.Context, userID, points int64, reason string) error
}

// RefundRequest describes one admin-initiated refund. CreditWallet and
// Restock are explicit opt-ins; recording a refund never re-credits the
// wallet or returns stock on its own.
type RefundRequest struct {
	PaymentID    int64
	AdminUserID  int64
	AmountCents  int64
	Reason       string
	CreditWallet bool
	Restock      bool
}

type RefundService interface {
	Refund(ctx context.Context, req RefundRequest) (*domain.Payment, error)
	ListRefunds(ctx context.Context, paymentID int64) ([]domain.PaymentRefund, error)
}

type EmailService interface {
	SendInvoiceReceipt(ctx context.Context, email, name string, invoice *domain.InvoiceData) error
	SendRefundNotification(ctx context.Context, email, name string, amountCents int64, invoiceRef string) error
	SendTopupReceipt(ctx context.Context, email, name string, amountCents int64) error
}

// StateStore is the Redis-backed coordination surface for payment flows:
// exactly-once confirmation latches and short-lived correlation values.
// Satisfied by redisx.Store.
type StateStore interface {
	AcquireOnce(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}

// Gateway interfaces narrow the concrete provider clients so services can be
// tested with mocks.

type PayPalGateway interface {
	CreateOrder(ctx context.Context, amountCents int64, referenceID, returnURL, cancelURL string) (*payments.PayPalOrder, error)
	CaptureOrder(ctx context.Context, orderID string) (*payments.PayPalCapture, error)
}

type StripeGateway interface {
	CreateCheckoutSession(ctx context.Context, amountCents int64, reference string, userID int64, successURL, cancelURL string) (*payments.StripeSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*payments.StripeSession, error)
}

type NetsGateway interface {
	RequestQR(ctx context.Context, amountCents int64, txnID string) (*payments.NetsQR, error)
	QueryTxn(ctx context.Context, retrievalRef string, frontendTimeout int) (*payments.NetsQueryResult, error)
}
