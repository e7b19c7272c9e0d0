package service

import (
	"context"
	"errors"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/repository"
)

type cartService struct {
	cartRepo    repository.CartRepository
	listingRepo repository.ListingRepository
}

func NewCartService(cartRepo repository.CartRepository, listingRepo repository.ListingRepository) CartService {
	return &cartService{cartRepo: cartRepo, listingRepo: listingRepo}
}

func (s *cartService) AddItem(ctx context.Context, userID, listingID int64) error {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.Status == domain.ListingStatusHidden {
		return domain.ErrListingNotFound
	}
	return s.cartRepo.AddItem(ctx, userID, listingID)
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID, listingID int64, quantity int32) error {
	if quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	return s.cartRepo.UpdateQuantity(ctx, userID, listingID, quantity)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, listingID int64) error {
	return s.cartRepo.RemoveItem(ctx, userID, listingID)
}

func (s *cartService) GetCart(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	return s.cartRepo.ListByUser(ctx, userID)
}
