package service

import (
	"context"
	"fmt"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/logger"
	"selfstore-backend/internal/repository"
)

type availabilityService struct {
	listingRepo repository.ListingRepository
	bookingRepo repository.BookingRepository
}

func NewAvailabilityService(listingRepo repository.ListingRepository, bookingRepo repository.BookingRepository) AvailabilityService {
	return &availabilityService{listingRepo: listingRepo, bookingRepo: bookingRepo}
}

// CheckAvailability counts reserved units from live bookings overlapping the
// requested range. The cached available_units column is deliberately ignored;
// it can lag behind the bookings table.
func (s *availabilityService) CheckAvailability(ctx context.Context, lines []domain.CheckoutLine, startDate, endDate string) error {
	for _, line := range lines {
		listing, err := s.listingRepo.GetByID(ctx, line.ListingID)
		if err != nil {
			return err
		}
		reserved, err := s.bookingRepo.CountOverlapping(ctx, line.ListingID, startDate, endDate)
		if err != nil {
			return fmt.Errorf("count overlapping bookings for listing %d: %w", line.ListingID, err)
		}
		free := listing.TotalUnits - reserved
		if free < 0 {
			free = 0
		}
		if line.Quantity > free {
			return &domain.InsufficientStockError{
				ListingID: line.ListingID,
				Needed:    line.Quantity,
				Available: free,
			}
		}
	}
	return nil
}

func (s *availabilityService) DecrementStock(ctx context.Context, listingID int64, qty int32) error {
	return s.listingRepo.DecrementAvailability(ctx, listingID, qty)
}

func (s *availabilityService) IncrementStock(ctx context.Context, listingID int64, qty int32) error {
	return s.listingRepo.IncrementAvailability(ctx, listingID, qty)
}

// Reconcile rewrites each listing's cached availability from the overlap
// count as of the given date. Run nightly so drift never survives a day.
func (s *availabilityService) Reconcile(ctx context.Context, asOf string) (int32, error) {
	listings, err := s.listingRepo.List(ctx)
	if err != nil {
		return 0, err
	}

	var updated int32
	for _, listing := range listings {
		reserved, err := s.bookingRepo.CountOverlapping(ctx, listing.ID, asOf, asOf)
		if err != nil {
			logger.Error("reconcile: overlap count failed", "listing_id", listing.ID, "error", err)
			continue
		}
		available := listing.TotalUnits - reserved
		if available < 0 {
			available = 0
		}
		if available == listing.AvailableUnits {
			continue
		}
		if err := s.listingRepo.SetAvailability(ctx, listing.ID, available); err != nil {
			logger.Error("reconcile: set availability failed", "listing_id", listing.ID, "error", err)
			continue
		}
		logger.Info("reconciled listing availability",
			"listing_id", listing.ID, "was", listing.AvailableUnits, "now", available)
		updated++
	}
	return updated, nil
}
