package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/logger"
	"selfstore-backend/internal/pricing"
	"selfstore-backend/internal/repository"
)

type checkoutService struct {
	cartRepo     repository.CartRepository
	invoiceRepo  repository.InvoiceRepository
	userRepo     repository.UserRepository
	availability AvailabilityService
	loyalty      LoyaltyService
	emailSvc     EmailService
}

func NewCheckoutService(
	cartRepo repository.CartRepository,
	invoiceRepo repository.InvoiceRepository,
	userRepo repository.UserRepository,
	availability AvailabilityService,
	loyalty LoyaltyService,
	emailSvc EmailService,
) CheckoutService {
	return &checkoutService{
		cartRepo:     cartRepo,
		invoiceRepo:  invoiceRepo,
		userRepo:     userRepo,
		availability: availability,
		loyalty:      loyalty,
		emailSvc:     emailSvc,
	}
}

// Quote prices the current cart for the date range. Unit prices are the
// dynamic prices at call time; nothing is reserved or written.
func (s *checkoutService) Quote(ctx context.Context, userID int64, startDate, endDate string) (*domain.CheckoutSummary, error) {
	days, err := pricing.DaysInclusive(startDate, endDate)
	if err != nil {
		return nil, err
	}

	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	summary := &domain.CheckoutSummary{Days: days}
	for _, item := range items {
		unit := pricing.DynamicPriceCents(item.BasePriceCents, item.AvailableUnits, item.TotalUnits)
		line := domain.CheckoutLine{
			ListingID:      item.ListingID,
			Title:          item.Title,
			Location:       item.Location,
			Size:           item.Size,
			Quantity:       item.Quantity,
			UnitPriceCents: unit,
			Days:           days,
			SubtotalCents:  unit * int64(item.Quantity) * int64(days),
		}
		summary.Lines = append(summary.Lines, line)
		summary.SubtotalCents += line.SubtotalCents
	}
	summary.TaxCents = pricing.TaxCents(summary.SubtotalCents)
	summary.TotalCents = summary.SubtotalCents + summary.TaxCents
	return summary, nil
}

// CreateFromCart is invoked only after a payment has been captured (or the
// wallet debited). It re-quotes and re-checks availability immediately before
// the write so a stale quote can never oversell.
func (s *checkoutService) CreateFromCart(ctx context.Context, userID int64, startDate, endDate, method, providerRef string) (*domain.InvoiceData, error) {
	summary, err := s.Quote(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	if err := s.availability.CheckAvailability(ctx, summary.Lines, startDate, endDate); err != nil {
		return nil, err
	}

	header := domain.InvoiceHeader{
		InvoiceRef:    "INV-" + uuid.NewString(),
		UserID:        userID,
		StartDate:     startDate,
		EndDate:       endDate,
		Days:          summary.Days,
		SubtotalCents: summary.SubtotalCents,
		TaxCents:      summary.TaxCents,
		TotalCents:    summary.TotalCents,
		PaymentMethod: method,
		ProviderRef:   providerRef,
	}

	data, err := s.invoiceRepo.CreateFromLines(ctx, header, summary.Lines)
	if err != nil {
		logger.ErrorContext(ctx, "checkout transaction rolled back",
			"user_id", userID, "invoice_ref", header.InvoiceRef, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrCheckoutFailed, err)
	}

	s.afterCommit(ctx, data)
	return data, nil
}

// afterCommit runs the best-effort follow-ups. Failures here are logged and
// swallowed: the invoice is already durable and the buyer has paid.
func (s *checkoutService) afterCommit(ctx context.Context, data *domain.InvoiceData) {
	for _, booking := range data.Bookings {
		if err := s.availability.DecrementStock(ctx, booking.ListingID, booking.Quantity); err != nil {
			logger.Error("availability decrement failed after checkout",
				"listing_id", booking.ListingID, "quantity", booking.Quantity, "error", err)
		}
	}

	points, err := s.loyalty.AwardForPurchase(ctx, data.Header.UserID, data.Header.TotalCents, data.Header.InvoiceRef)
	if err != nil {
		logger.Error("loyalty award failed after checkout",
			"user_id", data.Header.UserID, "invoice_ref", data.Header.InvoiceRef, "error", err)
	} else if points > 0 {
		logger.Info("loyalty points awarded",
			"user_id", data.Header.UserID, "points", points, "invoice_ref", data.Header.InvoiceRef)
	}

	user, err := s.userRepo.GetByID(ctx, data.Header.UserID)
	if err != nil {
		logger.Error("receipt lookup failed", "user_id", data.Header.UserID, "error", err)
		return
	}
	if err := s.emailSvc.SendInvoiceReceipt(ctx, user.Email, user.Name, data); err != nil {
		logger.Error("receipt email failed",
			"user_id", user.ID, "invoice_ref", data.Header.InvoiceRef, "error", err)
	}
}
