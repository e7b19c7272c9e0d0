package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/repository"
)

type invoiceRepository struct {
	db *sql.DB
}

func NewInvoiceRepository(db *sql.DB) repository.InvoiceRepository {
	return &invoiceRepository{db: db}
}

// CreateFromLines is the transactional core of checkout. One booking row and
// one payment row are inserted per priced line, then every cart row for the
// user is deleted — all inside a single transaction. A failure at any point
// rolls the whole attempt back, so a half-committed cart cannot exist.
func (r *invoiceRepository) CreateFromLines(ctx context.Context, header domain.InvoiceHeader, lines []domain.CheckoutLine) (*domain.InvoiceData, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin checkout transaction: %w", err)
	}
	defer tx.Rollback()

	bookingSQL := `INSERT INTO bookings (user_id, listing_id, invoice_ref, quantity, start_date, end_date, days, unit_price_cents, subtotal_cents, status, created_on)
	               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'Paid', NOW()) RETURNING id`
	paymentSQL := `INSERT INTO payments (booking_id, amount_cents, method, provider_ref, refunded_cents, refund_status, payment_date)
	               VALUES ($1, $2, $3, $4, 0, 'NONE', NOW()) RETURNING id`

	now := time.Now().UTC().Format(time.RFC3339)
	data := &domain.InvoiceData{Header: header}
	data.Header.Status = string(domain.BookingStatusPaid)
	data.Header.PaidOn = now

	for _, line := range lines {
		booking := domain.Booking{
			UserID:         header.UserID,
			ListingID:      line.ListingID,
			InvoiceRef:     header.InvoiceRef,
			Quantity:       line.Quantity,
			StartDate:      header.StartDate,
			EndDate:        header.EndDate,
			Days:           line.Days,
			UnitPriceCents: line.UnitPriceCents,
			SubtotalCents:  line.SubtotalCents,
			Status:         domain.BookingStatusPaid,
		}
		if err := tx.QueryRowContext(ctx, bookingSQL,
			booking.UserID, booking.ListingID, booking.InvoiceRef, booking.Quantity,
			booking.StartDate, booking.EndDate, booking.Days, booking.UnitPriceCents, booking.SubtotalCents,
		).Scan(&booking.ID); err != nil {
			return nil, fmt.Errorf("insert booking for listing %d: %w", line.ListingID, err)
		}

		payment := domain.Payment{
			BookingID:    booking.ID,
			AmountCents:  line.SubtotalCents,
			Method:       header.PaymentMethod,
			ProviderRef:  header.ProviderRef,
			RefundStatus: domain.RefundStatusNone,
			PaymentDate:  now,
		}
		if err := tx.QueryRowContext(ctx, paymentSQL,
			payment.BookingID, payment.AmountCents, payment.Method, nullable(payment.ProviderRef),
		).Scan(&payment.ID); err != nil {
			return nil, fmt.Errorf("insert payment for booking %d: %w", booking.ID, err)
		}

		data.Bookings = append(data.Bookings, booking)
		data.Payments = append(data.Payments, payment)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, header.UserID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit checkout transaction: %w", err)
	}
	return data, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
