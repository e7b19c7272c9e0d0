package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/repository"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	p := &domain.Payment{}
	var paid time.Time
	query := `SELECT id, booking_id, amount_cents, method, COALESCE(provider_ref, ''), refunded_cents, refund_status, payment_date
	          FROM payments WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.Method, &p.ProviderRef, &p.RefundedCents, &p.RefundStatus, &paid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	p.PaymentDate = paid.Format(time.RFC3339)
	return p, nil
}

// ApplyRefund writes the immutable refund-ledger row and advances the
// payment's running total in one transaction. The payment update is guarded
// in SQL so that two concurrent refunds can never push refunded_cents past
// the captured amount; the loser of that race gets ErrInvalidRefundAmount.
func (r *paymentRepository) ApplyRefund(ctx context.Context, refund *domain.PaymentRefund) (*domain.Payment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin refund transaction: %w", err)
	}
	defer tx.Rollback()

	updateSQL := `UPDATE payments
	              SET refunded_cents = refunded_cents + $1,
	                  refund_status = CASE WHEN refunded_cents + $1 >= amount_cents THEN 'FULL' ELSE 'PARTIAL' END
	              WHERE id = $2 AND refunded_cents + $1 <= amount_cents`
	res, err := tx.ExecContext(ctx, updateSQL, refund.AmountCents, refund.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("update payment refund total: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.ErrInvalidRefundAmount
	}

	insertSQL := `INSERT INTO payment_refunds (payment_id, amount_cents, reason, admin_user_id, created_on)
	              VALUES ($1, $2, $3, $4, NOW()) RETURNING id`
	if err := tx.QueryRowContext(ctx, insertSQL, refund.PaymentID, refund.AmountCents, refund.Reason, refund.AdminUserID).Scan(&refund.ID); err != nil {
		return nil, fmt.Errorf("insert refund row: %w", err)
	}

	p := &domain.Payment{}
	var paid time.Time
	selectSQL := `SELECT id, booking_id, amount_cents, method, COALESCE(provider_ref, ''), refunded_cents, refund_status, payment_date
	              FROM payments WHERE id = $1`
	if err := tx.QueryRowContext(ctx, selectSQL, refund.PaymentID).Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.Method, &p.ProviderRef, &p.RefundedCents, &p.RefundStatus, &paid); err != nil {
		return nil, fmt.Errorf("reload payment: %w", err)
	}
	p.PaymentDate = paid.Format(time.RFC3339)

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit refund transaction: %w", err)
	}
	return p, nil
}

func (r *paymentRepository) ListRefunds(ctx context.Context, paymentID int64) ([]domain.PaymentRefund, error) {
	query := `SELECT id, payment_id, amount_cents, COALESCE(reason, ''), admin_user_id, created_on
	          FROM payment_refunds WHERE payment_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refunds []domain.PaymentRefund
	for rows.Next() {
		var rf domain.PaymentRefund
		var created time.Time
		if err := rows.Scan(&rf.ID, &rf.PaymentID, &rf.AmountCents, &rf.Reason, &rf.AdminUserID, &created); err != nil {
			return nil, err
		}
		rf.CreatedOn = created.Format(time.RFC3339)
		refunds = append(refunds, rf)
	}
	return refunds, rows.Err()
}
