package service

import (
	"context"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/repository"
)

type BookingService interface {
	// History returns the user's bookings with their payments, newest first.
	History(ctx context.Context, userID int64) ([]domain.Booking, []domain.Payment, error)
	GetBooking(ctx context.Context, userID, bookingID int64) (*domain.Booking, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
}

func NewBookingService(bookingRepo repository.BookingRepository) BookingService {
	return &bookingService{bookingRepo: bookingRepo}
}

func (s *bookingService) History(ctx context.Context, userID int64) ([]domain.Booking, []domain.Payment, error) {
	return s.bookingRepo.ListByUser(ctx, userID)
}

func (s *bookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, domain.ErrBookingNotFound
	}
	return booking, nil
}
