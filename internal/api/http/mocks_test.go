package http_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/payments"
	"selfstore-backend/internal/service"
)

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) InitiatePayment(ctx context.Context, userID int64, method, startDate, endDate string) (*service.PaymentInitiation, error) {
	args := m.Called(ctx, userID, method, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PaymentInitiation), args.Error(1)
}

func (m *MockPaymentService) CreatePayPalOrder(ctx context.Context, userID int64) (*payments.PayPalOrder, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.PayPalOrder), args.Error(1)
}

func (m *MockPaymentService) CapturePayPalOrder(ctx context.Context, userID int64, orderID string) (*domain.InvoiceData, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceData), args.Error(1)
}

func (m *MockPaymentService) ConfirmStripeSession(ctx context.Context, sessionID string) (*domain.InvoiceData, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceData), args.Error(1)
}

func (m *MockPaymentService) CheckNetsStatus(ctx context.Context, retrievalRef string, frontendTimeout int) (string, *domain.InvoiceData, error) {
	args := m.Called(ctx, retrievalRef, frontendTimeout)
	var invoice *domain.InvoiceData
	if args.Get(1) != nil {
		invoice = args.Get(1).(*domain.InvoiceData)
	}
	return args.String(0), invoice, args.Error(2)
}

func (m *MockPaymentService) CancelPending(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) AddItem(ctx context.Context, userID, listingID int64) error {
	args := m.Called(ctx, userID, listingID)
	return args.Error(0)
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, userID, listingID int64, quantity int32) error {
	args := m.Called(ctx, userID, listingID, quantity)
	return args.Error(0)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, listingID int64) error {
	args := m.Called(ctx, userID, listingID)
	return args.Error(0)
}

func (m *MockCartService) GetCart(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartItem), args.Error(1)
}

type MockRefundService struct {
	mock.Mock
}

func (m *MockRefundService) Refund(ctx context.Context, req service.RefundRequest) (*domain.Payment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockRefundService) ListRefunds(ctx context.Context, paymentID int64) ([]domain.PaymentRefund, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentRefund), args.Error(1)
}

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
