package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/logger"
	"selfstore-backend/internal/repository"
)

type loyaltyService struct {
	loyaltyRepo repository.LoyaltyRepository
	walletRepo  repository.WalletRepository
}

func NewLoyaltyService(loyaltyRepo repository.LoyaltyRepository, walletRepo repository.WalletRepository) LoyaltyService {
	return &loyaltyService{loyaltyRepo: loyaltyRepo, walletRepo: walletRepo}
}

func (s *loyaltyService) Info(ctx context.Context, userID int64) (*domain.LoyaltyProfile, []domain.LoyaltyTransaction, error) {
	profile, err := s.loyaltyRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	txs, err := s.loyaltyRepo.ListTransactions(ctx, userID, 50)
	if err != nil {
		return nil, nil, err
	}
	return profile, txs, nil
}

func (s *loyaltyService) Tiers(ctx context.Context) ([]domain.LoyaltyTier, error) {
	return s.loyaltyRepo.ListTiers(ctx)
}

// AwardForPurchase converts a captured amount into points at the user's
// current tier rates: floor(dollars × earn_rate × bonus_multiplier).
func (s *loyaltyService) AwardForPurchase(ctx context.Context, userID, amountCents int64, referenceID string) (int64, error) {
	profile, err := s.loyaltyRepo.GetProfile(ctx, userID)
	if err != nil {
		return 0, err
	}
	points := earnedPoints(amountCents, profile.Tier)
	if points <= 0 {
		return 0, nil
	}
	description := fmt.Sprintf("Earned on booking %s", referenceID)
	if err := s.loyaltyRepo.Award(ctx, userID, points, referenceID, description); err != nil {
		return 0, err
	}
	return points, nil
}

func (s *loyaltyService) CalculateReward(ctx context.Context, userID, amountCents int64) (int64, error) {
	profile, err := s.loyaltyRepo.GetProfile(ctx, userID)
	if err != nil {
		return 0, err
	}
	return earnedPoints(amountCents, profile.Tier), nil
}

// Redeem burns points and credits the discount to the wallet: every 100
// points is worth redeem_rate dollars. The burn is guarded in SQL; the
// wallet credit follows, with a compensating bonus grant if it fails.
func (s *loyaltyService) Redeem(ctx context.Context, userID, points int64, referenceID string) (int64, error) {
	if points <= 0 {
		return 0, errors.New("points to redeem must be positive")
	}
	profile, err := s.loyaltyRepo.GetProfile(ctx, userID)
	if err != nil {
		return 0, err
	}
	discountCents := int64(math.Round(float64(points) / 100 * profile.Tier.RedeemRate * 100))
	if discountCents <= 0 {
		return 0, errors.New("points do not amount to a redeemable value")
	}

	description := fmt.Sprintf("Redeemed for $%.2f wallet credit", float64(discountCents)/100)
	if err := s.loyaltyRepo.Redeem(ctx, userID, points, referenceID, description); err != nil {
		return 0, err
	}

	if err := s.walletRepo.Topup(ctx, userID, discountCents, "Loyalty point redemption"); err != nil {
		logger.Error("wallet credit failed after point burn, restoring points",
			"user_id", userID, "points", points, "error", err)
		if restoreErr := s.loyaltyRepo.AwardBonus(ctx, userID, points, "Redemption reversal"); restoreErr != nil {
			logger.Error("point restore failed, ledger needs attention",
				"user_id", userID, "points", points, "error", restoreErr)
		}
		return 0, err
	}
	return discountCents, nil
}

func (s *loyaltyService) AwardBonus(ctx context.Context, userID, points int64, reason string) error {
	if points <= 0 {
		return errors.New("bonus points must be positive")
	}
	return s.loyaltyRepo.AwardBonus(ctx, userID, points, reason)
}

func earnedPoints(amountCents int64, tier domain.LoyaltyTier) int64 {
	if amountCents <= 0 {
		return 0
	}
	dollars := float64(amountCents) / 100
	return int64(math.Floor(dollars * tier.EarnRate * tier.BonusMultiplier))
}
