package postgres_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/repository/postgres"
)

func TestWalletRepository_Balance(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewWalletRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(12500))

	balance, err := repo.Balance(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(12500), balance)
}

func TestWalletRepository_Deduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewWalletRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT COALESCE").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(10000))
		mock.ExpectExec("INSERT INTO wallet_transactions").
			WithArgs(int64(7), int64(6000), "Booking INV-abc").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("UPDATE users").
			WithArgs(int64(6000), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Deduct(ctx, 7, 6000, "Booking INV-abc")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsufficientBalance", func(t *testing.T) {
		// The ledger sum is re-read inside the transaction; a short balance
		// aborts before anything is written.
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT COALESCE").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(500))
		mock.ExpectRollback()

		err := repo.Deduct(ctx, 7, 6000, "Booking INV-abc")
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ConcurrentDeductLosesOnConditionalUpdate", func(t *testing.T) {
		// A racing deduct committed after our ledger read: the conditional
		// cached-balance update matches no row and the whole tx rolls back,
		// discarding the purchase entry.
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT COALESCE").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(6000))
		mock.ExpectExec("INSERT INTO wallet_transactions").
			WithArgs(int64(7), int64(6000), "Booking INV-abc").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("UPDATE users").
			WithArgs(int64(6000), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Deduct(ctx, 7, 6000, "Booking INV-abc")
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RejectsNonPositiveAmount", func(t *testing.T) {
		err := repo.Deduct(ctx, 7, 0, "noop")
		assert.Error(t, err)
	})
}

func TestWalletRepository_Topup(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewWalletRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO wallet_transactions").
		WithArgs(int64(7), domain.WalletTransactionTypeTopup, int64(5000), "Stripe wallet top-up").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE users").
		WithArgs(int64(5000), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.Topup(ctx, 7, 5000, "Stripe wallet top-up")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
