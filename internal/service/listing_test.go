package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/pricing"
	"selfstore-backend/internal/service"
)

func TestListingService_UpdateListing(t *testing.T) {
	ctx := context.Background()

	t.Run("edit keeps the cached availability", func(t *testing.T) {
		listingRepo := new(MockListingRepo)
		svc := service.NewListingService(listingRepo)

		listingRepo.On("GetByID", ctx, int64(1)).Return(&domain.StorageListing{
			ID: 1, ProviderID: 3, TotalUnits: 10, AvailableUnits: 10, BasePriceCents: 1000,
		}, nil)

		var forwarded *domain.StorageListing
		listingRepo.On("Update", ctx, mock.AnythingOfType("*domain.StorageListing")).
			Run(func(args mock.Arguments) {
				forwarded = args.Get(1).(*domain.StorageListing)
			}).Return(nil)

		// The handler's request shape: no availability field, so the struct
		// arrives with the zero value.
		err := svc.UpdateListing(ctx, 3, &domain.StorageListing{
			ID: 1, Title: "Renamed unit", TotalUnits: 10, BasePriceCents: 1000,
		})
		assert.NoError(t, err)
		assert.Equal(t, int32(10), forwarded.AvailableUnits)
		// Fully available still prices at exactly base after the edit.
		assert.Equal(t, int64(1000),
			pricing.DynamicPriceCents(forwarded.BasePriceCents, forwarded.AvailableUnits, forwarded.TotalUnits))
	})

	t.Run("shrinking the total clamps availability", func(t *testing.T) {
		listingRepo := new(MockListingRepo)
		svc := service.NewListingService(listingRepo)

		listingRepo.On("GetByID", ctx, int64(1)).Return(&domain.StorageListing{
			ID: 1, ProviderID: 3, TotalUnits: 10, AvailableUnits: 10, BasePriceCents: 1000,
		}, nil)

		var forwarded *domain.StorageListing
		listingRepo.On("Update", ctx, mock.AnythingOfType("*domain.StorageListing")).
			Run(func(args mock.Arguments) {
				forwarded = args.Get(1).(*domain.StorageListing)
			}).Return(nil)

		err := svc.UpdateListing(ctx, 3, &domain.StorageListing{
			ID: 1, TotalUnits: 4, BasePriceCents: 1000,
		})
		assert.NoError(t, err)
		assert.Equal(t, int32(4), forwarded.AvailableUnits)
	})

	t.Run("foreign provider rejected", func(t *testing.T) {
		listingRepo := new(MockListingRepo)
		svc := service.NewListingService(listingRepo)

		listingRepo.On("GetByID", ctx, int64(1)).Return(&domain.StorageListing{
			ID: 1, ProviderID: 3,
		}, nil)

		err := svc.UpdateListing(ctx, 99, &domain.StorageListing{ID: 1, TotalUnits: 10, BasePriceCents: 1000})
		assert.Error(t, err)
		listingRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
