package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/repository"
)

type walletRepository struct {
	db *sql.DB
}

func NewWalletRepository(db *sql.DB) repository.WalletRepository {
	return &walletRepository{db: db}
}

const walletBalanceSQL = `SELECT COALESCE(SUM(CASE
	WHEN type IN ('topup', 'refund') THEN amount_cents
	WHEN type = 'purchase' THEN -amount_cents
	ELSE 0 END), 0)
	FROM wallet_transactions
	WHERE user_id = $1 AND status = 'completed'`

// Balance derives the spendable balance from the ledger. The cached column
// on the user row is for display only and never consulted here.
func (r *walletRepository) Balance(ctx context.Context, userID int64) (int64, error) {
	var balance int64
	err := r.db.QueryRowContext(ctx, walletBalanceSQL, userID).Scan(&balance)
	return balance, err
}

// Deduct re-derives the balance inside the transaction before appending the
// purchase entry. The cached-balance update is conditional and its row lock
// serializes concurrent deducts: the loser re-evaluates against the committed
// balance and rolls back, so a double submit cannot drive the ledger negative.
func (r *walletRepository) Deduct(ctx context.Context, userID, amountCents int64, description string) error {
	if amountCents <= 0 {
		return fmt.Errorf("deduct amount must be positive, got %d", amountCents)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin wallet transaction: %w", err)
	}
	defer tx.Rollback()

	var balance int64
	if err := tx.QueryRowContext(ctx, walletBalanceSQL, userID).Scan(&balance); err != nil {
		return fmt.Errorf("read wallet balance: %w", err)
	}
	if balance < amountCents {
		return domain.ErrInsufficientFunds
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO wallet_transactions (user_id, type, amount_cents, description, status, created_on)
		 VALUES ($1, 'purchase', $2, $3, 'completed', NOW())`,
		userID, amountCents, description); err != nil {
		return fmt.Errorf("append purchase entry: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET wallet_balance_cents = wallet_balance_cents - $1
		 WHERE id = $2 AND wallet_balance_cents >= $1`,
		amountCents, userID)
	if err != nil {
		return fmt.Errorf("refresh cached balance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("refresh cached balance: %w", err)
	}
	if affected == 0 {
		return domain.ErrInsufficientFunds
	}

	return tx.Commit()
}

func (r *walletRepository) Topup(ctx context.Context, userID, amountCents int64, description string) error {
	return r.credit(ctx, userID, amountCents, domain.WalletTransactionTypeTopup, description)
}

func (r *walletRepository) Refund(ctx context.Context, userID, amountCents int64, description string) error {
	return r.credit(ctx, userID, amountCents, domain.WalletTransactionTypeRefund, description)
}

func (r *walletRepository) credit(ctx context.Context, userID, amountCents int64, txType domain.WalletTransactionType, description string) error {
	if amountCents <= 0 {
		return fmt.Errorf("credit amount must be positive, got %d", amountCents)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin wallet transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO wallet_transactions (user_id, type, amount_cents, description, status, created_on)
		 VALUES ($1, $2, $3, $4, 'completed', NOW())`,
		userID, txType, amountCents, description); err != nil {
		return fmt.Errorf("append %s entry: %w", txType, err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET wallet_balance_cents = wallet_balance_cents + $1 WHERE id = $2`,
		amountCents, userID); err != nil {
		return fmt.Errorf("refresh cached balance: %w", err)
	}

	return tx.Commit()
}

func (r *walletRepository) ListByUser(ctx context.Context, userID int64, limit int32) ([]domain.WalletTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, user_id, type, amount_cents, COALESCE(description, ''), status, created_on
	          FROM wallet_transactions WHERE user_id = $1 ORDER BY created_on DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.WalletTransaction
	for rows.Next() {
		var t domain.WalletTransaction
		var created time.Time
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.AmountCents, &t.Description, &t.Status, &created); err != nil {
			return nil, err
		}
		t.CreatedOn = created.Format(time.RFC3339)
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
