package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/payments"
	"selfstore-backend/internal/service"
)

type walletFixture struct {
	walletRepo *MockWalletRepo
	userRepo   *MockUserRepo
	paypal     *MockPayPalGateway
	stripe     *MockStripeGateway
	nets       *MockNetsGateway
	state      *FakeStateStore
	emailSvc   *MockEmailService
	svc        service.WalletService
}

func newWalletFixture() *walletFixture {
	f := &walletFixture{
		walletRepo: new(MockWalletRepo),
		userRepo:   new(MockUserRepo),
		paypal:     new(MockPayPalGateway),
		stripe:     new(MockStripeGateway),
		nets:       new(MockNetsGateway),
		state:      NewFakeStateStore(),
		emailSvc:   new(MockEmailService),
	}
	f.svc = service.NewWalletService(f.walletRepo, f.userRepo, f.paypal, f.stripe,
		f.nets, f.state, f.emailSvc, "http://localhost:8080")
	return f
}

func (f *walletFixture) expectReceipt(ctx context.Context, userID, amount int64) {
	f.userRepo.On("GetByID", ctx, userID).Return(&domain.User{ID: userID, Email: "u@test.com", Name: "U"}, nil)
	f.emailSvc.On("SendTopupReceipt", ctx, "u@test.com", "U", amount).Return(nil)
}

func TestWalletService_StripeTopup(t *testing.T) {
	ctx := context.Background()
	userID := int64(7)

	t.Run("initiate returns redirect", func(t *testing.T) {
		f := newWalletFixture()
		f.stripe.On("CreateCheckoutSession", ctx, int64(5000), "Wallet Top-up", userID, mock.AnythingOfType("string"), mock.AnythingOfType("string")).
			Return(&payments.StripeSession{SessionID: "cs_t1", URL: "https://stripe.test/cs_t1"}, nil)

		res, err := f.svc.InitiateTopup(ctx, userID, 5000, "stripe")
		assert.NoError(t, err)
		assert.Equal(t, "redirect", res.Status)
		assert.Equal(t, "https://stripe.test/cs_t1", res.RedirectURL)
	})

	t.Run("confirm credits the captured amount once", func(t *testing.T) {
		f := newWalletFixture()
		f.stripe.On("RetrieveSession", ctx, "cs_t1").
			Return(&payments.StripeSession{SessionID: "cs_t1", PaymentPaid: true, AmountCents: 5000, UserID: userID}, nil)
		f.walletRepo.On("Topup", ctx, userID, int64(5000), "Stripe wallet top-up").Return(nil)
		f.expectReceipt(ctx, userID, 5000)

		credited, err := f.svc.ConfirmStripeTopup(ctx, "cs_t1")
		assert.NoError(t, err)
		assert.Equal(t, int64(5000), credited)

		// A refresh of the success page must not credit twice.
		_, err2 := f.svc.ConfirmStripeTopup(ctx, "cs_t1")
		assert.ErrorIs(t, err2, domain.ErrPaymentNotCompleted)
		f.walletRepo.AssertNumberOfCalls(t, "Topup", 1)
	})

	t.Run("unpaid session credits nothing", func(t *testing.T) {
		f := newWalletFixture()
		f.stripe.On("RetrieveSession", ctx, "cs_t2").
			Return(&payments.StripeSession{SessionID: "cs_t2", PaymentPaid: false}, nil)

		_, err := f.svc.ConfirmStripeTopup(ctx, "cs_t2")
		assert.ErrorIs(t, err, domain.ErrPaymentNotCompleted)
		f.walletRepo.AssertNotCalled(t, "Topup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		f := newWalletFixture()

		_, err := f.svc.InitiateTopup(ctx, userID, 0, "stripe")
		assert.Error(t, err)
	})
}

func TestWalletService_NetsTopup(t *testing.T) {
	ctx := context.Background()
	userID := int64(7)

	t.Run("full cycle: qr, pending, paid once", func(t *testing.T) {
		f := newWalletFixture()
		f.nets.On("RequestQR", ctx, int64(3000), "").
			Return(&payments.NetsQR{RetrievalRef: "RETR-9", QRCodeDataURL: "data:image/png;base64,xxx"}, nil)

		res, err := f.svc.InitiateTopup(ctx, userID, 3000, "netsqr")
		assert.NoError(t, err)
		assert.Equal(t, "qr", res.Status)
		assert.Equal(t, "RETR-9", res.ProviderRef)

		f.nets.On("QueryTxn", ctx, "RETR-9", 0).Return(&payments.NetsQueryResult{ResponseCode: "09", TxnStatus: 0}, nil).Once()
		status, credited, err := f.svc.CheckNetsTopup(ctx, "RETR-9", 0)
		assert.NoError(t, err)
		assert.Equal(t, service.NetsStatusPending, status)
		assert.Equal(t, int64(0), credited)

		f.nets.On("QueryTxn", ctx, "RETR-9", 0).Return(&payments.NetsQueryResult{ResponseCode: "00", TxnStatus: 1}, nil)
		f.walletRepo.On("Topup", ctx, userID, int64(3000), "NETS wallet top-up").Return(nil)
		f.expectReceipt(ctx, userID, 3000)

		status, credited, err = f.svc.CheckNetsTopup(ctx, "RETR-9", 0)
		assert.NoError(t, err)
		assert.Equal(t, service.NetsStatusPaid, status)
		assert.Equal(t, int64(3000), credited)

		// Duplicate webhook delivery after the context was consumed.
		status, credited, err = f.svc.CheckNetsTopup(ctx, "RETR-9", 0)
		assert.NoError(t, err)
		assert.Equal(t, service.NetsStatusPaid, status)
		assert.Equal(t, int64(0), credited)
		f.walletRepo.AssertNumberOfCalls(t, "Topup", 1)
	})

	t.Run("unknown reference fails", func(t *testing.T) {
		f := newWalletFixture()

		status, _, err := f.svc.CheckNetsTopup(ctx, "RETR-404", 0)
		assert.Error(t, err)
		assert.Equal(t, service.NetsStatusFailed, status)
	})
}
