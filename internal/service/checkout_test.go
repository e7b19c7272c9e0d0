package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/service"
)

func newCheckoutFixture() (*MockCartRepo, *MockInvoiceRepo, *MockUserRepo, *MockAvailabilityService, *MockLoyaltyService, *MockEmailService, service.CheckoutService) {
	cartRepo := new(MockCartRepo)
	invoiceRepo := new(MockInvoiceRepo)
	userRepo := new(MockUserRepo)
	availability := new(MockAvailabilityService)
	loyalty := new(MockLoyaltyService)
	emailSvc := new(MockEmailService)
	svc := service.NewCheckoutService(cartRepo, invoiceRepo, userRepo, availability, loyalty, emailSvc)
	return cartRepo, invoiceRepo, userRepo, availability, loyalty, emailSvc, svc
}

func TestCheckoutService_Quote(t *testing.T) {
	ctx := context.Background()
	userID := int64(7)

	t.Run("base price, two units, three days", func(t *testing.T) {
		cartRepo, _, _, _, _, _, svc := newCheckoutFixture()
		cartRepo.On("ListByUser", ctx, userID).Return([]domain.CartItem{
			{ListingID: 1, Quantity: 2, Title: "Locker A", BasePriceCents: 1000, TotalUnits: 10, AvailableUnits: 10},
		}, nil)

		summary, err := svc.Quote(ctx, userID, "2025-03-01", "2025-03-03")
		assert.NoError(t, err)
		assert.Equal(t, int32(3), summary.Days)
		assert.Len(t, summary.Lines, 1)
		assert.Equal(t, int64(1000), summary.Lines[0].UnitPriceCents)
		assert.Equal(t, int64(6000), summary.SubtotalCents)
		assert.Equal(t, int64(0), summary.TaxCents)
		assert.Equal(t, int64(6000), summary.TotalCents)
	})

	t.Run("dynamic price applies at half availability", func(t *testing.T) {
		cartRepo, _, _, _, _, _, svc := newCheckoutFixture()
		cartRepo.On("ListByUser", ctx, userID).Return([]domain.CartItem{
			{ListingID: 1, Quantity: 1, BasePriceCents: 1000, TotalUnits: 10, AvailableUnits: 5},
		}, nil)

		summary, err := svc.Quote(ctx, userID, "2025-03-01", "2025-03-01")
		assert.NoError(t, err)
		assert.Equal(t, int64(1250), summary.Lines[0].UnitPriceCents)
		assert.Equal(t, int64(1250), summary.TotalCents)
	})

	t.Run("empty cart", func(t *testing.T) {
		cartRepo, _, _, _, _, _, svc := newCheckoutFixture()
		cartRepo.On("ListByUser", ctx, userID).Return([]domain.CartItem{}, nil)

		summary, err := svc.Quote(ctx, userID, "2025-03-01", "2025-03-03")
		assert.ErrorIs(t, err, domain.ErrEmptyCart)
		assert.Nil(t, summary)
	})

	t.Run("end before start", func(t *testing.T) {
		_, _, _, _, _, _, svc := newCheckoutFixture()

		summary, err := svc.Quote(ctx, userID, "2025-03-05", "2025-03-03")
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
		assert.Nil(t, summary)
	})
}

func TestCheckoutService_CreateFromCart(t *testing.T) {
	ctx := context.Background()
	userID := int64(7)
	items := []domain.CartItem{
		{ListingID: 1, Quantity: 2, Title: "Locker A", BasePriceCents: 1000, TotalUnits: 10, AvailableUnits: 10},
	}

	t.Run("success books, decrements, awards and mails", func(t *testing.T) {
		cartRepo, invoiceRepo, userRepo, availability, loyalty, emailSvc, svc := newCheckoutFixture()
		cartRepo.On("ListByUser", ctx, userID).Return(items, nil)
		availability.On("CheckAvailability", ctx, mock.Anything, "2025-03-01", "2025-03-03").Return(nil)

		invoice := &domain.InvoiceData{
			Header:   domain.InvoiceHeader{UserID: userID, TotalCents: 6000, InvoiceRef: "INV-x"},
			Bookings: []domain.Booking{{ID: 11, ListingID: 1, Quantity: 2, SubtotalCents: 6000}},
			Payments: []domain.Payment{{ID: 21, BookingID: 11, AmountCents: 6000}},
		}
		invoiceRepo.On("CreateFromLines", ctx, mock.AnythingOfType("domain.InvoiceHeader"), mock.Anything).Return(invoice, nil)
		availability.On("DecrementStock", ctx, int64(1), int32(2)).Return(nil)
		loyalty.On("AwardForPurchase", ctx, userID, int64(6000), "INV-x").Return(int64(60), nil)
		userRepo.On("GetByID", ctx, userID).Return(&domain.User{ID: userID, Email: "u@test.com", Name: "U"}, nil)
		emailSvc.On("SendInvoiceReceipt", ctx, "u@test.com", "U", invoice).Return(nil)

		got, err := svc.CreateFromCart(ctx, userID, "2025-03-01", "2025-03-03", "wallet", "")
		assert.NoError(t, err)
		assert.Equal(t, invoice, got)
		availability.AssertCalled(t, "DecrementStock", ctx, int64(1), int32(2))
		loyalty.AssertCalled(t, "AwardForPurchase", ctx, userID, int64(6000), "INV-x")
		emailSvc.AssertCalled(t, "SendInvoiceReceipt", ctx, "u@test.com", "U", invoice)
	})

	t.Run("insufficient stock aborts before any write", func(t *testing.T) {
		cartRepo, invoiceRepo, _, availability, _, _, svc := newCheckoutFixture()
		cartRepo.On("ListByUser", ctx, userID).Return(items, nil)
		stockErr := &domain.InsufficientStockError{ListingID: 1, Needed: 2, Available: 1}
		availability.On("CheckAvailability", ctx, mock.Anything, "2025-03-01", "2025-03-03").Return(stockErr)

		got, err := svc.CreateFromCart(ctx, userID, "2025-03-01", "2025-03-03", "wallet", "")
		assert.Nil(t, got)
		var ise *domain.InsufficientStockError
		assert.ErrorAs(t, err, &ise)
		assert.Equal(t, int32(1), ise.Available)
		invoiceRepo.AssertNotCalled(t, "CreateFromLines", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("transaction failure surfaces as checkout failed", func(t *testing.T) {
		cartRepo, invoiceRepo, _, availability, loyalty, _, svc := newCheckoutFixture()
		cartRepo.On("ListByUser", ctx, userID).Return(items, nil)
		availability.On("CheckAvailability", ctx, mock.Anything, "2025-03-01", "2025-03-03").Return(nil)
		invoiceRepo.On("CreateFromLines", ctx, mock.AnythingOfType("domain.InvoiceHeader"), mock.Anything).
			Return(nil, errors.New("deadlock detected"))

		got, err := svc.CreateFromCart(ctx, userID, "2025-03-01", "2025-03-03", "wallet", "")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, domain.ErrCheckoutFailed)
		loyalty.AssertNotCalled(t, "AwardForPurchase", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("loyalty failure never fails the checkout", func(t *testing.T) {
		cartRepo, invoiceRepo, userRepo, availability, loyalty, emailSvc, svc := newCheckoutFixture()
		cartRepo.On("ListByUser", ctx, userID).Return(items, nil)
		availability.On("CheckAvailability", ctx, mock.Anything, "2025-03-01", "2025-03-03").Return(nil)
		invoice := &domain.InvoiceData{
			Header:   domain.InvoiceHeader{UserID: userID, TotalCents: 6000, InvoiceRef: "INV-x"},
			Bookings: []domain.Booking{{ID: 11, ListingID: 1, Quantity: 2}},
		}
		invoiceRepo.On("CreateFromLines", ctx, mock.AnythingOfType("domain.InvoiceHeader"), mock.Anything).Return(invoice, nil)
		availability.On("DecrementStock", ctx, int64(1), int32(2)).Return(nil)
		loyalty.On("AwardForPurchase", ctx, userID, int64(6000), "INV-x").Return(int64(0), errors.New("tier lookup failed"))
		userRepo.On("GetByID", ctx, userID).Return(&domain.User{ID: userID, Email: "u@test.com", Name: "U"}, nil)
		emailSvc.On("SendInvoiceReceipt", ctx, "u@test.com", "U", invoice).Return(nil)

		got, err := svc.CreateFromCart(ctx, userID, "2025-03-01", "2025-03-03", "wallet", "")
		assert.NoError(t, err)
		assert.Equal(t, invoice, got)
	})
}
