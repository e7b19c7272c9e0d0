package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/repository"
)

type pendingPaymentRepository struct {
	db *sql.DB
}

func NewPendingPaymentRepository(db *sql.DB) repository.PendingPaymentRepository {
	return &pendingPaymentRepository{db: db}
}

// Upsert enforces the one-active-attempt-per-user rule: starting a new
// checkout replaces whatever attempt was outstanding.
func (r *pendingPaymentRepository) Upsert(ctx context.Context, pp *domain.PendingPayment) error {
	query := `INSERT INTO pending_payments (user_id, method, start_date, end_date, provider_ref, created_on)
	          VALUES ($1, $2, $3, $4, $5, NOW())
	          ON CONFLICT (user_id)
	          DO UPDATE SET method = $2, start_date = $3, end_date = $4, provider_ref = $5, created_on = NOW()
	          RETURNING id`
	return r.db.QueryRowContext(ctx, query, pp.UserID, pp.Method, pp.StartDate, pp.EndDate, nullable(pp.ProviderRef)).Scan(&pp.ID)
}

func (r *pendingPaymentRepository) GetByUser(ctx context.Context, userID int64) (*domain.PendingPayment, error) {
	pp := &domain.PendingPayment{}
	var start, end, created time.Time
	query := `SELECT id, user_id, method, start_date, end_date, COALESCE(provider_ref, ''), created_on
	          FROM pending_payments WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&pp.ID, &pp.UserID, &pp.Method, &start, &end, &pp.ProviderRef, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNoPendingPayment
	}
	if err != nil {
		return nil, err
	}
	pp.StartDate = start.Format("2006-01-02")
	pp.EndDate = end.Format("2006-01-02")
	pp.CreatedOn = created.Format(time.RFC3339)
	return pp, nil
}

func (r *pendingPaymentRepository) GetByProviderRef(ctx context.Context, providerRef string) (*domain.PendingPayment, error) {
	pp := &domain.PendingPayment{}
	var start, end, created time.Time
	query := `SELECT id, user_id, method, start_date, end_date, COALESCE(provider_ref, ''), created_on
	          FROM pending_payments WHERE provider_ref = $1`
	err := r.db.QueryRowContext(ctx, query, providerRef).Scan(&pp.ID, &pp.UserID, &pp.Method, &start, &end, &pp.ProviderRef, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNoPendingPayment
	}
	if err != nil {
		return nil, err
	}
	pp.StartDate = start.Format("2006-01-02")
	pp.EndDate = end.Format("2006-01-02")
	pp.CreatedOn = created.Format(time.RFC3339)
	return pp, nil
}

func (r *pendingPaymentRepository) SetProviderRef(ctx context.Context, userID int64, providerRef string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE pending_payments SET provider_ref = $1 WHERE user_id = $2`, providerRef, userID)
	return err
}

func (r *pendingPaymentRepository) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_payments WHERE user_id = $1`, userID)
	return err
}

func (r *pendingPaymentRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pending_payments WHERE created_on < $1`, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
