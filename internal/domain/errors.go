package domain

import (
	"errors"
	"fmt"
)

// Business-rule violations. All are safe to retry after the caller corrects
// the condition; none are returned after money has been captured.
var (
	ErrInvalidDateRange    = errors.New("invalid start/end date")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientFunds   = errors.New("insufficient wallet balance")
	ErrInsufficientPoints  = errors.New("insufficient loyalty points")
	ErrAmountMismatch      = errors.New("captured amount does not match expected total")
	ErrInvalidRefundAmount = errors.New("refund amount must be positive and within the remaining balance")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrPaymentNotCompleted = errors.New("provider has not completed the payment")
	ErrNoPendingPayment    = errors.New("no pending payment for this user")
	ErrListingNotFound     = errors.New("listing not found")
	ErrBookingNotFound     = errors.New("booking not found")

	// ErrCheckoutFailed masks persistence failures after rollback; the
	// transaction is guaranteed not to have been partially applied.
	ErrCheckoutFailed = errors.New("checkout failed")
)

// InsufficientStockError reports which listing could not cover the requested
// quantity for the booked date range.
type InsufficientStockError struct {
	ListingID int64
	Needed    int32
	Available int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for listing %d: need %d, available %d", e.ListingID, e.Needed, e.Available)
}

// ProviderError wraps a payment-gateway failure. It is never treated as a
// successful capture; handlers surface it as a generic message.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
