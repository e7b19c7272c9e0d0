package postgres

import (
	"database/sql"

	"selfstore-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.ListingRepository
	repository.CartRepository
	repository.BookingRepository
	repository.InvoiceRepository
	repository.PaymentRepository
	repository.PendingPaymentRepository
	repository.WalletRepository
	repository.LoyaltyRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                       db,
		UserRepository:           NewUserRepository(db),
		ListingRepository:        NewListingRepository(db),
		CartRepository:           NewCartRepository(db),
		BookingRepository:        NewBookingRepository(db),
		InvoiceRepository:        NewInvoiceRepository(db),
		PaymentRepository:        NewPaymentRepository(db),
		PendingPaymentRepository: NewPendingPaymentRepository(db),
		WalletRepository:         NewWalletRepository(db),
		LoyaltyRepository:        NewLoyaltyRepository(db),
	}
}
