package postgres

import (
	"context"
	"database/sql"
	"errors"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/repository"
)

type listingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

const listingColumns = `id, provider_id, title, storage_type, size, location, COALESCE(description, ''), base_price_cents, total_units, available_units, status`

func scanListing(row interface{ Scan(...any) error }, l *domain.StorageListing) error {
	return row.Scan(&l.ID, &l.ProviderID, &l.Title, &l.StorageType, &l.Size, &l.Location, &l.Description, &l.BasePriceCents, &l.TotalUnits, &l.AvailableUnits, &l.Status)
}

func (r *listingRepository) Create(ctx context.Context, l *domain.StorageListing) error {
	query := `INSERT INTO storage_listings (provider_id, title, storage_type, size, location, description, base_price_cents, total_units, available_units, status, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW()) RETURNING id`
	if l.Status == "" {
		l.Status = domain.ListingStatusAvailable
	}
	return r.db.QueryRowContext(ctx, query, l.ProviderID, l.Title, l.StorageType, l.Size, l.Location, l.Description, l.BasePriceCents, l.TotalUnits, l.AvailableUnits, l.Status).Scan(&l.ID)
}

func (r *listingRepository) GetByID(ctx context.Context, id int64) (*domain.StorageListing, error) {
	l := &domain.StorageListing{}
	query := `SELECT ` + listingColumns + ` FROM storage_listings WHERE id = $1`
	err := scanListing(r.db.QueryRowContext(ctx, query, id), l)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *listingRepository) List(ctx context.Context) ([]domain.StorageListing, error) {
	query := `SELECT ` + listingColumns + ` FROM storage_listings ORDER BY id DESC`
	return r.queryListings(ctx, query)
}

func (r *listingRepository) ListByProvider(ctx context.Context, providerID int64) ([]domain.StorageListing, error) {
	query := `SELECT ` + listingColumns + ` FROM storage_listings WHERE provider_id = $1 ORDER BY id DESC`
	return r.queryListings(ctx, query, providerID)
}

func (r *listingRepository) queryListings(ctx context.Context, query string, args ...any) ([]domain.StorageListing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []domain.StorageListing
	for rows.Next() {
		var l domain.StorageListing
		if err := scanListing(rows, &l); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (r *listingRepository) Update(ctx context.Context, l *domain.StorageListing) error {
	// Provider edits may not push the cached availability above the total.
	query := `UPDATE storage_listings
	          SET title=$1, storage_type=$2, size=$3, location=$4, description=$5,
	              base_price_cents=$6, total_units=$7,
	              available_units=LEAST($8, $7),
	              status=$9
	          WHERE id=$10`
	_, err := r.db.ExecContext(ctx, query, l.Title, l.StorageType, l.Size, l.Location, l.Description, l.BasePriceCents, l.TotalUnits, l.AvailableUnits, l.Status, l.ID)
	return err
}

func (r *listingRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM storage_listings WHERE id = $1`, id)
	return err
}

// DecrementAvailability applies a floor-clamped decrement and recomputes the
// listing status in the same statement. Mutations never go through an
// in-memory read-modify-write, so concurrent bookings cannot lose updates.
func (r *listingRepository) DecrementAvailability(ctx context.Context, listingID int64, qty int32) error {
	query := `UPDATE storage_listings
	          SET available_units = GREATEST(0, available_units - $1),
	              status = CASE WHEN GREATEST(0, available_units - $1) = 0 THEN 'Rented' ELSE 'Available' END
	          WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, qty, listingID)
	return err
}

// IncrementAvailability is the ceiling-clamped inverse, applied on
// cancellation or explicit restock after a refund.
func (r *listingRepository) IncrementAvailability(ctx context.Context, listingID int64, qty int32) error {
	query := `UPDATE storage_listings
	          SET available_units = LEAST(total_units, available_units + $1),
	              status = CASE WHEN LEAST(total_units, available_units + $1) = 0 THEN 'Rented' ELSE 'Available' END
	          WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, qty, listingID)
	return err
}

func (r *listingRepository) SetAvailability(ctx context.Context, listingID int64, available int32) error {
	query := `UPDATE storage_listings
	          SET available_units = LEAST(total_units, GREATEST(0, $1)),
	              status = CASE WHEN LEAST(total_units, GREATEST(0, $1)) = 0 THEN 'Rented' ELSE 'Available' END
	          WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, available, listingID)
	return err
}
