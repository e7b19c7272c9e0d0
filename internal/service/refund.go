package service

import (
	"context"
	"fmt"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/logger"
	"selfstore-backend/internal/repository"
)

type refundService struct {
	paymentRepo  repository.PaymentRepository
	bookingRepo  repository.BookingRepository
	walletRepo   repository.WalletRepository
	userRepo     repository.UserRepository
	availability AvailabilityService
	emailSvc     EmailService
}

func NewRefundService(
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	walletRepo repository.WalletRepository,
	userRepo repository.UserRepository,
	availability AvailabilityService,
	emailSvc EmailService,
) RefundService {
	return &refundService{
		paymentRepo:  paymentRepo,
		bookingRepo:  bookingRepo,
		walletRepo:   walletRepo,
		userRepo:     userRepo,
		availability: availability,
		emailSvc:     emailSvc,
	}
}

// Refund records a partial or full refund against one payment. The refund
// ledger row and the payment's running total are written atomically by the
// repository; wallet credit and restock happen only when asked for.
func (s *refundService) Refund(ctx context.Context, req RefundRequest) (*domain.Payment, error) {
	if req.AmountCents <= 0 {
		return nil, domain.ErrInvalidRefundAmount
	}

	payment, err := s.paymentRepo.GetByID(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}
	remaining := payment.AmountCents - payment.RefundedCents
	if req.AmountCents > remaining {
		return nil, domain.ErrInvalidRefundAmount
	}

	refund := &domain.PaymentRefund{
		PaymentID:   req.PaymentID,
		AmountCents: req.AmountCents,
		Reason:      req.Reason,
		AdminUserID: req.AdminUserID,
	}
	updated, err := s.paymentRepo.ApplyRefund(ctx, refund)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "refund recorded",
		"payment_id", updated.ID, "amount_cents", req.AmountCents,
		"refund_status", updated.RefundStatus, "admin_user_id", req.AdminUserID)

	booking, err := s.bookingRepo.GetByID(ctx, updated.BookingID)
	if err != nil {
		return updated, fmt.Errorf("refund recorded but booking lookup failed: %w", err)
	}

	if req.CreditWallet {
		description := fmt.Sprintf("Refund for booking %s", booking.InvoiceRef)
		if err := s.walletRepo.Refund(ctx, booking.UserID, req.AmountCents, description); err != nil {
			logger.Error("wallet credit failed after refund record",
				"payment_id", updated.ID, "user_id", booking.UserID, "error", err)
		}
	}

	if req.Restock {
		if err := s.availability.IncrementStock(ctx, booking.ListingID, booking.Quantity); err != nil {
			logger.Error("restock failed after refund record",
				"payment_id", updated.ID, "listing_id", booking.ListingID, "error", err)
		}
	}

	s.notify(ctx, booking, req.AmountCents)
	return updated, nil
}

func (s *refundService) ListRefunds(ctx context.Context, paymentID int64) ([]domain.PaymentRefund, error) {
	return s.paymentRepo.ListRefunds(ctx, paymentID)
}

func (s *refundService) notify(ctx context.Context, booking *domain.Booking, amountCents int64) {
	user, err := s.userRepo.GetByID(ctx, booking.UserID)
	if err != nil {
		logger.Error("refund notification lookup failed", "user_id", booking.UserID, "error", err)
		return
	}
	if err := s.emailSvc.SendRefundNotification(ctx, user.Email, user.Name, amountCents, booking.InvoiceRef); err != nil {
		logger.Error("refund notification email failed", "user_id", user.ID, "error", err)
	}
}
