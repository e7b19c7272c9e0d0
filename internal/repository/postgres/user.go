package postgres

import (
	"context"
	"database/sql"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, name, email, role, wallet_balance_cents, loyalty_points, lifetime_points FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.WalletBalanceCents, &u.LoyaltyPoints, &u.LifetimePoints)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, name, email, role, wallet_balance_cents, loyalty_points, lifetime_points FROM users WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.WalletBalanceCents, &u.LoyaltyPoints, &u.LifetimePoints)
	if err != nil {
		return nil, err
	}
	return u, nil
}
