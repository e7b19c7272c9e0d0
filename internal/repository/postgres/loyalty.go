package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/repository"
)

type loyaltyRepository struct {
	db *sql.DB
}

func NewLoyaltyRepository(db *sql.DB) repository.LoyaltyRepository {
	return &loyaltyRepository{db: db}
}

// GetProfile joins the user's cached point totals with the tier bracket those
// points fall into. The open-ended top tier has a NULL max_points.
func (r *loyaltyRepository) GetProfile(ctx context.Context, userID int64) (*domain.LoyaltyProfile, error) {
	p := &domain.LoyaltyProfile{UserID: userID}
	query := `SELECT u.loyalty_points, u.lifetime_points,
	                 t.id, t.name, t.min_points, t.max_points, t.earn_rate, t.redeem_rate, t.bonus_multiplier
	          FROM users u
	          JOIN loyalty_tiers t ON u.loyalty_points >= t.min_points
	            AND (t.max_points IS NULL OR u.loyalty_points <= t.max_points)
	          WHERE u.id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.CurrentPoints, &p.LifetimePoints,
		&p.Tier.ID, &p.Tier.Name, &p.Tier.MinPoints, &p.Tier.MaxPoints,
		&p.Tier.EarnRate, &p.Tier.RedeemRate, &p.Tier.BonusMultiplier)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *loyaltyRepository) ListTiers(ctx context.Context) ([]domain.LoyaltyTier, error) {
	query := `SELECT id, name, min_points, max_points, earn_rate, redeem_rate, bonus_multiplier
	          FROM loyalty_tiers ORDER BY min_points ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tiers []domain.LoyaltyTier
	for rows.Next() {
		var t domain.LoyaltyTier
		if err := rows.Scan(&t.ID, &t.Name, &t.MinPoints, &t.MaxPoints, &t.EarnRate, &t.RedeemRate, &t.BonusMultiplier); err != nil {
			return nil, err
		}
		tiers = append(tiers, t)
	}
	return tiers, rows.Err()
}

func (r *loyaltyRepository) Award(ctx context.Context, userID, points int64, referenceID, description string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin loyalty transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET loyalty_points = loyalty_points + $1, lifetime_points = lifetime_points + $1 WHERE id = $2`,
		points, userID); err != nil {
		return fmt.Errorf("increment points: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO loyalty_transactions (user_id, points, type, reference_id, description, created_on)
		 VALUES ($1, $2, 'EARNED', $3, $4, NOW())`,
		userID, points, referenceID, description); err != nil {
		return fmt.Errorf("append EARNED row: %w", err)
	}

	return tx.Commit()
}

// Redeem conditionally decrements current points; lifetime points are never
// decremented. The guard in SQL makes concurrent redemptions race-safe.
func (r *loyaltyRepository) Redeem(ctx context.Context, userID, points int64, referenceID, description string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin loyalty transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET loyalty_points = loyalty_points - $1 WHERE id = $2 AND loyalty_points >= $1`,
		points, userID)
	if err != nil {
		return fmt.Errorf("decrement points: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrInsufficientPoints
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO loyalty_transactions (user_id, points, type, reference_id, description, created_on)
		 VALUES ($1, $2, 'REDEEMED', $3, $4, NOW())`,
		userID, -points, referenceID, description); err != nil {
		return fmt.Errorf("append REDEEMED row: %w", err)
	}

	return tx.Commit()
}

func (r *loyaltyRepository) AwardBonus(ctx context.Context, userID, points int64, reason string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin loyalty transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET loyalty_points = loyalty_points + $1, lifetime_points = lifetime_points + $1 WHERE id = $2`,
		points, userID); err != nil {
		return fmt.Errorf("increment points: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO loyalty_transactions (user_id, points, type, description, created_on)
		 VALUES ($1, $2, 'BONUS', $3, NOW())`,
		userID, points, reason); err != nil {
		return fmt.Errorf("append BONUS row: %w", err)
	}

	return tx.Commit()
}

func (r *loyaltyRepository) ListTransactions(ctx context.Context, userID int64, limit int32) ([]domain.LoyaltyTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, user_id, points, type, COALESCE(reference_id, ''), COALESCE(description, ''), created_on
	          FROM loyalty_transactions WHERE user_id = $1 ORDER BY created_on DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.LoyaltyTransaction
	for rows.Next() {
		var t domain.LoyaltyTransaction
		var created time.Time
		if err := rows.Scan(&t.ID, &t.UserID, &t.Points, &t.Type, &t.ReferenceID, &t.Description, &created); err != nil {
			return nil, err
		}
		t.CreatedOn = created.Format(time.RFC3339)
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
