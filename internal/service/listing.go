package service

import (
	"context"
	"errors"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/pricing"
	"selfstore-backend/internal/repository"
)

type listingService struct {
	listingRepo repository.ListingRepository
}

func NewListingService(listingRepo repository.ListingRepository) ListingService {
	return &listingService{listingRepo: listingRepo}
}

func (s *listingService) ListListings(ctx context.Context) ([]domain.StorageListing, error) {
	listings, err := s.listingRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range listings {
		attachDynamicPrice(&listings[i])
	}
	return listings, nil
}

func (s *listingService) GetListing(ctx context.Context, id int64) (*domain.StorageListing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	attachDynamicPrice(listing)
	return listing, nil
}

func (s *listingService) ListByProvider(ctx context.Context, providerID int64) ([]domain.StorageListing, error) {
	listings, err := s.listingRepo.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	for i := range listings {
		attachDynamicPrice(&listings[i])
	}
	return listings, nil
}

func (s *listingService) CreateListing(ctx context.Context, listing *domain.StorageListing) error {
	if listing.TotalUnits <= 0 {
		return errors.New("total units must be positive")
	}
	if listing.BasePriceCents <= 0 {
		return errors.New("base price must be positive")
	}
	listing.AvailableUnits = listing.TotalUnits
	if listing.Status == "" {
		listing.Status = domain.ListingStatusAvailable
	}
	return s.listingRepo.Create(ctx, listing)
}

func (s *listingService) UpdateListing(ctx context.Context, providerID int64, listing *domain.StorageListing) error {
	existing, err := s.listingRepo.GetByID(ctx, listing.ID)
	if err != nil {
		return err
	}
	if existing.ProviderID != providerID {
		return errors.New("listing does not belong to this provider")
	}
	// The caller never supplies the cached availability; carry it forward so
	// an edit cannot reset it and inflate the dynamic price until the nightly
	// reconcile. Shrinking the total clamps it down.
	listing.AvailableUnits = existing.AvailableUnits
	if listing.AvailableUnits > listing.TotalUnits {
		listing.AvailableUnits = listing.TotalUnits
	}
	return s.listingRepo.Update(ctx, listing)
}

func (s *listingService) DeleteListing(ctx context.Context, providerID, listingID int64) error {
	existing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if existing.ProviderID != providerID {
		return errors.New("listing does not belong to this provider")
	}
	return s.listingRepo.Delete(ctx, listingID)
}

func attachDynamicPrice(l *domain.StorageListing) {
	l.DynamicPriceCents = pricing.DynamicPriceCents(l.BasePriceCents, l.AvailableUnits, l.TotalUnits)
}
