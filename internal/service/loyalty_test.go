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

func tierProfile(userID int64, earnRate, redeemRate, bonus float64) *domain.LoyaltyProfile {
	return &domain.LoyaltyProfile{
		UserID:        userID,
		CurrentPoints: 1000,
		Tier: domain.LoyaltyTier{
			ID: 1, Name: "Silver", EarnRate: earnRate, RedeemRate: redeemRate, BonusMultiplier: bonus,
		},
	}
}

func TestLoyaltyService_AwardForPurchase(t *testing.T) {
	ctx := context.Background()
	userID := int64(7)

	t.Run("points floor of dollars times rates", func(t *testing.T) {
		loyaltyRepo := new(MockLoyaltyRepo)
		walletRepo := new(MockWalletRepo)
		svc := service.NewLoyaltyService(loyaltyRepo, walletRepo)

		// $10.50 x 1.2 x 1.5 = 18.9 -> 18 points
		loyaltyRepo.On("GetProfile", ctx, userID).Return(tierProfile(userID, 1.2, 1.0, 1.5), nil)
		loyaltyRepo.On("Award", ctx, userID, int64(18), "INV-x", mock.AnythingOfType("string")).Return(nil)

		points, err := svc.AwardForPurchase(ctx, userID, 1050, "INV-x")
		assert.NoError(t, err)
		assert.Equal(t, int64(18), points)
	})

	t.Run("zero points writes nothing", func(t *testing.T) {
		loyaltyRepo := new(MockLoyaltyRepo)
		walletRepo := new(MockWalletRepo)
		svc := service.NewLoyaltyService(loyaltyRepo, walletRepo)

		loyaltyRepo.On("GetProfile", ctx, userID).Return(tierProfile(userID, 1.0, 1.0, 1.0), nil)

		points, err := svc.AwardForPurchase(ctx, userID, 50, "INV-x") // $0.50 -> 0 points
		assert.NoError(t, err)
		assert.Equal(t, int64(0), points)
		loyaltyRepo.AssertNotCalled(t, "Award", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLoyaltyService_Redeem(t *testing.T) {
	ctx := context.Background()
	userID := int64(7)

	t.Run("burns points and credits wallet", func(t *testing.T) {
		loyaltyRepo := new(MockLoyaltyRepo)
		walletRepo := new(MockWalletRepo)
		svc := service.NewLoyaltyService(loyaltyRepo, walletRepo)

		// 500 points at redeem rate 1.0 -> $5.00
		loyaltyRepo.On("GetProfile", ctx, userID).Return(tierProfile(userID, 1.0, 1.0, 1.0), nil)
		loyaltyRepo.On("Redeem", ctx, userID, int64(500), "redeem-1", mock.AnythingOfType("string")).Return(nil)
		walletRepo.On("Topup", ctx, userID, int64(500), "Loyalty point redemption").Return(nil)

		discount, err := svc.Redeem(ctx, userID, 500, "redeem-1")
		assert.NoError(t, err)
		assert.Equal(t, int64(500), discount)
	})

	t.Run("insufficient points", func(t *testing.T) {
		loyaltyRepo := new(MockLoyaltyRepo)
		walletRepo := new(MockWalletRepo)
		svc := service.NewLoyaltyService(loyaltyRepo, walletRepo)

		loyaltyRepo.On("GetProfile", ctx, userID).Return(tierProfile(userID, 1.0, 1.0, 1.0), nil)
		loyaltyRepo.On("Redeem", ctx, userID, int64(5000), "redeem-1", mock.AnythingOfType("string")).
			Return(domain.ErrInsufficientPoints)

		discount, err := svc.Redeem(ctx, userID, 5000, "redeem-1")
		assert.ErrorIs(t, err, domain.ErrInsufficientPoints)
		assert.Equal(t, int64(0), discount)
		walletRepo.AssertNotCalled(t, "Topup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("wallet failure restores the burned points", func(t *testing.T) {
		loyaltyRepo := new(MockLoyaltyRepo)
		walletRepo := new(MockWalletRepo)
		svc := service.NewLoyaltyService(loyaltyRepo, walletRepo)

		loyaltyRepo.On("GetProfile", ctx, userID).Return(tierProfile(userID, 1.0, 1.0, 1.0), nil)
		loyaltyRepo.On("Redeem", ctx, userID, int64(500), "redeem-1", mock.AnythingOfType("string")).Return(nil)
		walletRepo.On("Topup", ctx, userID, int64(500), "Loyalty point redemption").Return(errors.New("db down"))
		loyaltyRepo.On("AwardBonus", ctx, userID, int64(500), "Redemption reversal").Return(nil)

		_, err := svc.Redeem(ctx, userID, 500, "redeem-1")
		assert.Error(t, err)
		loyaltyRepo.AssertCalled(t, "AwardBonus", ctx, userID, int64(500), "Redemption reversal")
	})
}
