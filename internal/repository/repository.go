package repository

import (
	"context"
	"time"

	"selfstore-backend/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type ListingRepository interface {
	Create(ctx context.Context, listing *domain.StorageListing) error
	GetByID(ctx context.Context, id int64) (*domain.StorageListing, error)
	List(ctx context.Context) ([]domain.StorageListing, error)
	ListByProvider(ctx context.Context, providerID int64) ([]domain.StorageListing, error)
	Update(ctx context.Context, listing *domain.StorageListing) error
	Delete(ctx context.Context, id int64) error

	// Clamped conditional updates; both recompute the listing status
	// (Rented iff available hits zero) in the same statement.
	DecrementAvailability(ctx context.Context, listingID int64, qty int32) error
	IncrementAvailability(ctx context.Context, listingID int64, qty int32) error
	// SetAvailability overwrites the cached column; used by the nightly
	// reconcile job with the overlap-counted truth.
	SetAvailability(ctx context.Context, listingID int64, available int32) error
}

type CartRepository interface {
	// AddItem inserts or increments the (user, listing) line.
	AddItem(ctx context.Context, userID, listingID int64) error
	UpdateQuantity(ctx context.Context, userID, listingID int64, quantity int32) error
	RemoveItem(ctx context.Context, userID, listingID int64) error
	ListByUser(ctx context.Context, userID int64) ([]domain.CartItem, error)
	CountItems(ctx context.Context, userID int64) (int32, error)
}

type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	// CountOverlapping sums the reserved quantity of non-cancelled bookings
	// whose date range intersects [startDate, endDate] for one listing.
	CountOverlapping(ctx context.Context, listingID int64, startDate, endDate string) (int32, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, []domain.Payment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	// CompleteFinished flips Paid/Active bookings whose end date has passed
	// to Completed; returns how many rows changed.
	CompleteFinished(ctx context.Context, asOf string) (int64, error)
}

// InvoiceRepository owns the transactional core of checkout: materializing
// priced cart lines into bookings + payments and clearing the cart as one
// atomic unit.
type InvoiceRepository interface {
	// CreateFromLines inserts one booking row and one payment row per line,
	// then deletes all of the user's cart rows, inside a single database
	// transaction. Either everything commits or nothing does.
	CreateFromLines(ctx context.Context, header domain.InvoiceHeader, lines []domain.CheckoutLine) (*domain.InvoiceData, error)
}

type PaymentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	// ApplyRefund appends the refund-ledger row and bumps the payment's
	// running refunded total in one transaction. The update is conditional
	// on the new total not exceeding the captured amount; a concurrent
	// refund that would overshoot returns domain.ErrInvalidRefundAmount.
	ApplyRefund(ctx context.Context, refund *domain.PaymentRefund) (*domain.Payment, error)
	ListRefunds(ctx context.Context, paymentID int64) ([]domain.PaymentRefund, error)
}

type PendingPaymentRepository interface {
	// Upsert replaces any prior pending attempt for the user.
	Upsert(ctx context.Context, pp *domain.PendingPayment) error
	GetByUser(ctx context.Context, userID int64) (*domain.PendingPayment, error)
	GetByProviderRef(ctx context.Context, providerRef string) (*domain.PendingPayment, error)
	SetProviderRef(ctx context.Context, userID int64, providerRef string) error
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error)
}

type WalletRepository interface {
	// Balance returns the signed sum of completed ledger entries. This is
	// the authoritative figure; the cached column on users is not consulted.
	Balance(ctx context.Context, userID int64) (int64, error)
	// Deduct re-reads the ledger sum inside the transaction, fails with
	// domain.ErrInsufficientFunds when it cannot cover the amount, and
	// otherwise appends a completed purchase entry and refreshes the cache.
	Deduct(ctx context.Context, userID, amountCents int64, description string) error
	Topup(ctx context.Context, userID, amountCents int64, description string) error
	Refund(ctx context.Context, userID, amountCents int64, description string) error
	ListByUser(ctx context.Context, userID int64, limit int32) ([]domain.WalletTransaction, error)
}

type LoyaltyRepository interface {
	GetProfile(ctx context.Context, userID int64) (*domain.LoyaltyProfile, error)
	ListTiers(ctx context.Context) ([]domain.LoyaltyTier, error)
	// Award increments current and lifetime points and appends the EARNED
	// row in one transaction.
	Award(ctx context.Context, userID, points int64, referenceID, description string) error
	// Redeem decrements current points (never lifetime) conditionally on the
	// balance covering the request, and appends the REDEEMED row.
	Redeem(ctx context.Context, userID, points int64, referenceID, description string) error
	AwardBonus(ctx context.Context, userID, points int64, reason string) error
	ListTransactions(ctx context.Context, userID int64, limit int32) ([]domain.LoyaltyTransaction, error)
}
