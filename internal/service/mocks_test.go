package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/payments"
	"selfstore-backend/internal/service"
)

// MockListingRepo
type MockListingRepo struct {
	mock.Mock
}

func (m *MockListingRepo) Create(ctx context.Context, listing *domain.StorageListing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockListingRepo) GetByID(ctx context.Context, id int64) (*domain.StorageListing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StorageListing), args.Error(1)
}
func (m *MockListingRepo) List(ctx context.Context) ([]domain.StorageListing, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.StorageListing), args.Error(1)
}
func (m *MockListingRepo) ListByProvider(ctx context.Context, providerID int64) ([]domain.StorageListing, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).([]domain.StorageListing), args.Error(1)
}
func (m *MockListingRepo) Update(ctx context.Context, listing *domain.StorageListing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockListingRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockListingRepo) DecrementAvailability(ctx context.Context, listingID int64, qty int32) error {
	args := m.Called(ctx, listingID, qty)
	return args.Error(0)
}
func (m *MockListingRepo) IncrementAvailability(ctx context.Context, listingID int64, qty int32) error {
	args := m.Called(ctx, listingID, qty)
	return args.Error(0)
}
func (m *MockListingRepo) SetAvailability(ctx context.Context, listingID int64, available int32) error {
	args := m.Called(ctx, listingID, available)
	return args.Error(0)
}

// MockCartRepo
type MockCartRepo struct {
	mock.Mock
}

func (m *MockCartRepo) AddItem(ctx context.Context, userID, listingID int64) error {
	args := m.Called(ctx, userID, listingID)
	return args.Error(0)
}
func (m *MockCartRepo) UpdateQuantity(ctx context.Context, userID, listingID int64, quantity int32) error {
	args := m.Called(ctx, userID, listingID, quantity)
	return args.Error(0)
}
func (m *MockCartRepo) RemoveItem(ctx context.Context, userID, listingID int64) error {
	args := m.Called(ctx, userID, listingID)
	return args.Error(0)
}
func (m *MockCartRepo) ListByUser(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.CartItem), args.Error(1)
}
func (m *MockCartRepo) CountItems(ctx context.Context, userID int64) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) CountOverlapping(ctx context.Context, listingID int64, startDate, endDate string) (int32, error) {
	args := m.Called(ctx, listingID, startDate, endDate)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockBookingRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, []domain.Payment, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Get(1).([]domain.Payment), args.Error(2)
}
func (m *MockBookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockBookingRepo) CompleteFinished(ctx context.Context, asOf string) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

// MockInvoiceRepo
type MockInvoiceRepo struct {
	mock.Mock
}

func (m *MockInvoiceRepo) CreateFromLines(ctx context.Context, header domain.InvoiceHeader, lines []domain.CheckoutLine) (*domain.InvoiceData, error) {
	args := m.Called(ctx, header, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceData), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) ApplyRefund(ctx context.Context, refund *domain.PaymentRefund) (*domain.Payment, error) {
	args := m.Called(ctx, refund)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) ListRefunds(ctx context.Context, paymentID int64) ([]domain.PaymentRefund, error) {
	args := m.Called(ctx, paymentID)
	return args.Get(0).([]domain.PaymentRefund), args.Error(1)
}

// MockPendingPaymentRepo
type MockPendingPaymentRepo struct {
	mock.Mock
}

func (m *MockPendingPaymentRepo) Upsert(ctx context.Context, pp *domain.PendingPayment) error {
	args := m.Called(ctx, pp)
	return args.Error(0)
}
func (m *MockPendingPaymentRepo) GetByUser(ctx context.Context, userID int64) (*domain.PendingPayment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingPayment), args.Error(1)
}
func (m *MockPendingPaymentRepo) GetByProviderRef(ctx context.Context, providerRef string) (*domain.PendingPayment, error) {
	args := m.Called(ctx, providerRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingPayment), args.Error(1)
}
func (m *MockPendingPaymentRepo) SetProviderRef(ctx context.Context, userID int64, providerRef string) error {
	args := m.Called(ctx, userID, providerRef)
	return args.Error(0)
}
func (m *MockPendingPaymentRepo) DeleteByUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockPendingPaymentRepo) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// MockWalletRepo
type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) Balance(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockWalletRepo) Deduct(ctx context.Context, userID, amountCents int64, description string) error {
	args := m.Called(ctx, userID, amountCents, description)
	return args.Error(0)
}
func (m *MockWalletRepo) Topup(ctx context.Context, userID, amountCents int64, description string) error {
	args := m.Called(ctx, userID, amountCents, description)
	return args.Error(0)
}
func (m *MockWalletRepo) Refund(ctx context.Context, userID, amountCents int64, description string) error {
	args := m.Called(ctx, userID, amountCents, description)
	return args.Error(0)
}
func (m *MockWalletRepo) ListByUser(ctx context.Context, userID int64, limit int32) ([]domain.WalletTransaction, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]domain.WalletTransaction), args.Error(1)
}

// MockLoyaltyRepo
type MockLoyaltyRepo struct {
	mock.Mock
}

func (m *MockLoyaltyRepo) GetProfile(ctx context.Context, userID int64) (*domain.LoyaltyProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoyaltyProfile), args.Error(1)
}
func (m *MockLoyaltyRepo) ListTiers(ctx context.Context) ([]domain.LoyaltyTier, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.LoyaltyTier), args.Error(1)
}
func (m *MockLoyaltyRepo) Award(ctx context.Context, userID, points int64, referenceID, description string) error {
	args := m.Called(ctx, userID, points, referenceID, description)
	return args.Error(0)
}
func (m *MockLoyaltyRepo) Redeem(ctx context.Context, userID, points int64, referenceID, description string) error {
	args := m.Called(ctx, userID, points, referenceID, description)
	return args.Error(0)
}
func (m *MockLoyaltyRepo) AwardBonus(ctx context.Context, userID, points int64, reason string) error {
	args := m.Called(ctx, userID, points, reason)
	return args.Error(0)
}
func (m *MockLoyaltyRepo) ListTransactions(ctx context.Context, userID int64, limit int32) ([]domain.LoyaltyTransaction, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]domain.LoyaltyTransaction), args.Error(1)
}

// MockCheckoutService
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Quote(ctx context.Context, userID int64, startDate, endDate string) (*domain.CheckoutSummary, error) {
	args := m.Called(ctx, userID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutSummary), args.Error(1)
}
func (m *MockCheckoutService) CreateFromCart(ctx context.Context, userID int64, startDate, endDate, method, providerRef string) (*domain.InvoiceData, error) {
	args := m.Called(ctx, userID, startDate, endDate, method, providerRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceData), args.Error(1)
}

// MockAvailabilityService
type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) CheckAvailability(ctx context.Context, lines []domain.CheckoutLine, startDate, endDate string) error {
	args := m.Called(ctx, lines, startDate, endDate)
	return args.Error(0)
}
func (m *MockAvailabilityService) DecrementStock(ctx context.Context, listingID int64, qty int32) error {
	args := m.Called(ctx, listingID, qty)
	return args.Error(0)
}
func (m *MockAvailabilityService) IncrementStock(ctx context.Context, listingID int64, qty int32) error {
	args := m.Called(ctx, listingID, qty)
	return args.Error(0)
}
func (m *MockAvailabilityService) Reconcile(ctx context.Context, asOf string) (int32, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int32), args.Error(1)
}

// MockLoyaltyService
type MockLoyaltyService struct {
	mock.Mock
}

func (m *MockLoyaltyService) Info(ctx context.Context, userID int64) (*domain.LoyaltyProfile, []domain.LoyaltyTransaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.LoyaltyProfile), args.Get(1).([]domain.LoyaltyTransaction), args.Error(2)
}
func (m *MockLoyaltyService) Tiers(ctx context.Context) ([]domain.LoyaltyTier, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.LoyaltyTier), args.Error(1)
}
func (m *MockLoyaltyService) AwardForPurchase(ctx context.Context, userID, amountCents int64, referenceID string) (int64, error) {
	args := m.Called(ctx, userID, amountCents, referenceID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockLoyaltyService) CalculateReward(ctx context.Context, userID, amountCents int64) (int64, error) {
	args := m.Called(ctx, userID, amountCents)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockLoyaltyService) Redeem(ctx context.Context, userID, points int64, referenceID string) (int64, error) {
	args := m.Called(ctx, userID, points, referenceID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockLoyaltyService) AwardBonus(ctx context.Context, userID, points int64, reason string) error {
	args := m.Called(ctx, userID, points, reason)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendInvoiceReceipt(ctx context.Context, email, name string, invoice *domain.InvoiceData) error {
	args := m.Called(ctx, email, name, invoice)
	return args.Error(0)
}
func (m *MockEmailService) SendRefundNotification(ctx context.Context, email, name string, amountCents int64, invoiceRef string) error {
	args := m.Called(ctx, email, name, amountCents, invoiceRef)
	return args.Error(0)
}
func (m *MockEmailService) SendTopupReceipt(ctx context.Context, email, name string, amountCents int64) error {
	args := m.Called(ctx, email, name, amountCents)
	return args.Error(0)
}

// MockPayPalGateway
type MockPayPalGateway struct {
	mock.Mock
}

func (m *MockPayPalGateway) CreateOrder(ctx context.Context, amountCents int64, referenceID, returnURL, cancelURL string) (*payments.PayPalOrder, error) {
	args := m.Called(ctx, amountCents, referenceID, returnURL, cancelURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.PayPalOrder), args.Error(1)
}
func (m *MockPayPalGateway) CaptureOrder(ctx context.Context, orderID string) (*payments.PayPalCapture, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.PayPalCapture), args.Error(1)
}

// MockStripeGateway
type MockStripeGateway struct {
	mock.Mock
}

func (m *MockStripeGateway) CreateCheckoutSession(ctx context.Context, amountCents int64, reference string, userID int64, successURL, cancelURL string) (*payments.StripeSession, error) {
	args := m.Called(ctx, amountCents, reference, userID, successURL, cancelURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.StripeSession), args.Error(1)
}
func (m *MockStripeGateway) RetrieveSession(ctx context.Context, sessionID string) (*payments.StripeSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.StripeSession), args.Error(1)
}

// MockNetsGateway
type MockNetsGateway struct {
	mock.Mock
}

func (m *MockNetsGateway) RequestQR(ctx context.Context, amountCents int64, txnID string) (*payments.NetsQR, error) {
	args := m.Called(ctx, amountCents, txnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.NetsQR), args.Error(1)
}
func (m *MockNetsGateway) QueryTxn(ctx context.Context, retrievalRef string, frontendTimeout int) (*payments.NetsQueryResult, error) {
	args := m.Called(ctx, retrievalRef, frontendTimeout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.NetsQueryResult), args.Error(1)
}

// FakeStateStore is an in-memory StateStore so latch semantics can be
// exercised without a Redis instance.
type FakeStateStore struct {
	mu   sync.Mutex
	data map[string]string
}

func NewFakeStateStore() *FakeStateStore {
	return &FakeStateStore{data: make(map[string]string)}
}

func (f *FakeStateStore) AcquireOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = "1"
	return true, nil
}
func (f *FakeStateStore) Release(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}
func (f *FakeStateStore) Exists(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok, nil
}
func (f *FakeStateStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}
func (f *FakeStateStore) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.data[key]
	return val, ok, nil
}
func (f *FakeStateStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

var _ service.StateStore = (*FakeStateStore)(nil)
