package postgres

import (
	"context"
	"database/sql"
	"time"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/repository"
)

type cartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) AddItem(ctx context.Context, userID, listingID int64) error {
	// One row per (user, listing); re-adding increments the quantity.
	query := `INSERT INTO cart_items (user_id, listing_id, quantity, updated_on)
	          VALUES ($1, $2, 1, NOW())
	          ON CONFLICT (user_id, listing_id)
	          DO UPDATE SET quantity = cart_items.quantity + 1, updated_on = NOW()`
	_, err := r.db.ExecContext(ctx, query, userID, listingID)
	return err
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, userID, listingID int64, quantity int32) error {
	query := `UPDATE cart_items SET quantity = $1, updated_on = NOW() WHERE user_id = $2 AND listing_id = $3`
	_, err := r.db.ExecContext(ctx, query, quantity, userID, listingID)
	return err
}

func (r *cartRepository) RemoveItem(ctx context.Context, userID, listingID int64) error {
	query := `DELETE FROM cart_items WHERE user_id = $1 AND listing_id = $2`
	_, err := r.db.ExecContext(ctx, query, userID, listingID)
	return err
}

func (r *cartRepository) ListByUser(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	query := `SELECT c.id, c.user_id, c.listing_id, c.quantity, c.updated_on,
	                 l.title, l.location, l.size, l.base_price_cents, l.total_units, l.available_units
	          FROM cart_items c
	          JOIN storage_listings l ON c.listing_id = l.id
	          WHERE c.user_id = $1
	          ORDER BY c.updated_on DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var it domain.CartItem
		var updatedOn time.Time
		if err := rows.Scan(&it.ID, &it.UserID, &it.ListingID, &it.Quantity, &updatedOn,
			&it.Title, &it.Location, &it.Size, &it.BasePriceCents, &it.TotalUnits, &it.AvailableUnits); err != nil {
			return nil, err
		}
		it.UpdatedOn = updatedOn.Format("2006-01-02")
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *cartRepository) CountItems(ctx context.Context, userID int64) (int32, error) {
	var count int32
	query := `SELECT COALESCE(SUM(quantity), 0) FROM cart_items WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)
	return count, err
}
