package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b := &domain.Booking{}
	var start, end, created time.Time
	query := `SELECT id, user_id, listing_id, invoice_ref, quantity, start_date, end_date, days, unit_price_cents, subtotal_cents, status, created_on
	          FROM bookings WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.UserID, &b.ListingID, &b.InvoiceRef, &b.Quantity, &start, &end, &b.Days, &b.UnitPriceCents, &b.SubtotalCents, &b.Status, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	b.StartDate = start.Format("2006-01-02")
	b.EndDate = end.Format("2006-01-02")
	b.CreatedOn = created.Format("2006-01-02")
	return b, nil
}

// CountOverlapping sums reserved quantity across live bookings whose range
// intersects [startDate, endDate]. Two date-inclusive ranges intersect when
// start <= other.end AND end >= other.start.
func (r *bookingRepository) CountOverlapping(ctx context.Context, listingID int64, startDate, endDate string) (int32, error) {
	var reserved int32
	query := `SELECT COALESCE(SUM(quantity), 0)
	          FROM bookings
	          WHERE listing_id = $1
	            AND status IN ('Paid', 'Active')
	            AND start_date <= $3
	            AND end_date >= $2`
	err := r.db.QueryRowContext(ctx, query, listingID, startDate, endDate).Scan(&reserved)
	return reserved, err
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, []domain.Payment, error) {
	query := `SELECT b.id, b.user_id, b.listing_id, b.invoice_ref, b.quantity, b.start_date, b.end_date, b.days, b.unit_price_cents, b.subtotal_cents, b.status,
	                 p.id, p.amount_cents, p.method, COALESCE(p.provider_ref, ''), p.refunded_cents, p.refund_status, p.payment_date
	          FROM bookings b
	          JOIN payments p ON p.booking_id = b.id
	          WHERE b.user_id = $1
	          ORDER BY b.id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	var payments []domain.Payment
	for rows.Next() {
		var b domain.Booking
		var p domain.Payment
		var start, end, paid time.Time
		if err := rows.Scan(&b.ID, &b.UserID, &b.ListingID, &b.InvoiceRef, &b.Quantity, &start, &end, &b.Days, &b.UnitPriceCents, &b.SubtotalCents, &b.Status,
			&p.ID, &p.AmountCents, &p.Method, &p.ProviderRef, &p.RefundedCents, &p.RefundStatus, &paid); err != nil {
			return nil, nil, err
		}
		b.StartDate = start.Format("2006-01-02")
		b.EndDate = end.Format("2006-01-02")
		p.BookingID = b.ID
		p.PaymentDate = paid.Format(time.RFC3339)
		bookings = append(bookings, b)
		payments = append(payments, p)
	}
	return bookings, payments, rows.Err()
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE bookings SET status = $1 WHERE id = $2`, status, id)
	return err
}

func (r *bookingRepository) CompleteFinished(ctx context.Context, asOf string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = 'Completed' WHERE status IN ('Paid', 'Active') AND end_date < $1`, asOf)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
