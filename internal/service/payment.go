package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/logger"
	"selfstore-backend/internal/payments"
	"selfstore-backend/internal/redisx"
	"selfstore-backend/internal/repository"
)

// Supported payment methods.
const (
	MethodWallet = "wallet"
	MethodStripe = "stripe"
	MethodPayPal = "paypal"
	MethodNets   = "netsqr"
)

type paymentService struct {
	checkout    CheckoutService
	pendingRepo repository.PendingPaymentRepository
	walletRepo  repository.WalletRepository
	paypal      PayPalGateway
	stripe      StripeGateway
	nets        NetsGateway
	state       StateStore
	baseURL     string
}

func NewPaymentService(
	checkout CheckoutService,
	pendingRepo repository.PendingPaymentRepository,
	walletRepo repository.WalletRepository,
	paypal PayPalGateway,
	stripe StripeGateway,
	nets NetsGateway,
	state StateStore,
	baseURL string,
) PaymentService {
	return &paymentService{
		checkout:    checkout,
		pendingRepo: pendingRepo,
		walletRepo:  walletRepo,
		paypal:      paypal,
		stripe:      stripe,
		nets:        nets,
		state:       state,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

func (s *paymentService) InitiatePayment(ctx context.Context, userID int64, method, startDate, endDate string) (*PaymentInitiation, error) {
	summary, err := s.checkout.Quote(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	switch method {
	case MethodWallet:
		return s.payWithWallet(ctx, userID, startDate, endDate, summary.TotalCents)

	case MethodStripe:
		sess, err := s.stripe.CreateCheckoutSession(ctx, summary.TotalCents, "Storage Booking", userID,
			s.baseURL+"/stripe/success?session_id={CHECKOUT_SESSION_ID}",
			s.baseURL+"/stripe/cancel")
		if err != nil {
			return nil, err
		}
		if err := s.upsertPending(ctx, userID, method, startDate, endDate, sess.SessionID); err != nil {
			return nil, err
		}
		return &PaymentInitiation{Method: method, Status: "redirect", RedirectURL: sess.URL, ProviderRef: sess.SessionID}, nil

	case MethodPayPal:
		// The order is created by a follow-up client call; only the intent
		// and dates are recorded now.
		if err := s.upsertPending(ctx, userID, method, startDate, endDate, ""); err != nil {
			return nil, err
		}
		return &PaymentInitiation{Method: method, Status: "approval"}, nil

	case MethodNets:
		qr, err := s.nets.RequestQR(ctx, summary.TotalCents, "")
		if err != nil {
			return nil, err
		}
		if err := s.upsertPending(ctx, userID, method, startDate, endDate, qr.RetrievalRef); err != nil {
			return nil, err
		}
		return &PaymentInitiation{Method: method, Status: "qr", QRCodeDataURL: qr.QRCodeDataURL, ProviderRef: qr.RetrievalRef}, nil

	default:
		return nil, fmt.Errorf("unsupported payment method %q", method)
	}
}

// payWithWallet settles synchronously: debit first, then book. If booking
// fails after the debit the money is returned to the ledger.
func (s *paymentService) payWithWallet(ctx context.Context, userID int64, startDate, endDate string, totalCents int64) (*PaymentInitiation, error) {
	if err := s.walletRepo.Deduct(ctx, userID, totalCents, "Storage booking payment"); err != nil {
		return nil, err
	}
	invoice, err := s.checkout.CreateFromCart(ctx, userID, startDate, endDate, MethodWallet, "")
	if err != nil {
		if refundErr := s.walletRepo.Refund(ctx, userID, totalCents, "Reversal of failed booking"); refundErr != nil {
			logger.Error("wallet reversal failed, ledger needs attention",
				"user_id", userID, "amount_cents", totalCents, "error", refundErr)
		}
		return nil, err
	}
	// Wallet checkouts have no pending row, but clear any stale attempt
	// from an abandoned redirect flow.
	_ = s.pendingRepo.DeleteByUser(ctx, userID)
	return &PaymentInitiation{Method: MethodWallet, Status: "paid", Invoice: invoice}, nil
}

func (s *paymentService) CreatePayPalOrder(ctx context.Context, userID int64) (*payments.PayPalOrder, error) {
	pp, err := s.pendingRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pp.Method != MethodPayPal {
		return nil, domain.ErrNoPendingPayment
	}

	summary, err := s.checkout.Quote(ctx, userID, pp.StartDate, pp.EndDate)
	if err != nil {
		return nil, err
	}

	order, err := s.paypal.CreateOrder(ctx, summary.TotalCents, fmt.Sprintf("booking-%d", userID),
		s.baseURL+"/paypal/return", s.baseURL+"/paypal/cancel")
	if err != nil {
		return nil, err
	}
	if err := s.pendingRepo.SetProviderRef(ctx, userID, order.OrderID); err != nil {
		return nil, err
	}
	return order, nil
}

// CapturePayPalOrder captures the approved order and books on success. The
// Redis latch makes a double-submitted capture a no-op: the loser observes
// the consumed pending row and gets ErrNoPendingPayment.
func (s *paymentService) CapturePayPalOrder(ctx context.Context, userID int64, orderID string) (*domain.InvoiceData, error) {
	pp, err := s.pendingRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pp.ProviderRef != orderID {
		return nil, domain.ErrNoPendingPayment
	}

	won, err := s.state.AcquireOnce(ctx, redisx.ConfirmKey(MethodPayPal, orderID), redisx.TTLConfirm)
	if err != nil {
		return nil, fmt.Errorf("acquire capture latch: %w", err)
	}
	if !won {
		return nil, domain.ErrNoPendingPayment
	}

	invoice, err := s.confirmPayPal(ctx, pp, orderID)
	if err != nil {
		// Roll the latch back so a retry after a transient failure works.
		if relErr := s.state.Release(ctx, redisx.ConfirmKey(MethodPayPal, orderID)); relErr != nil {
			logger.Error("latch release failed", "order_id", orderID, "error", relErr)
		}
		return nil, err
	}
	return invoice, nil
}

func (s *paymentService) confirmPayPal(ctx context.Context, pp *domain.PendingPayment, orderID string) (*domain.InvoiceData, error) {
	capture, err := s.paypal.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if capture.Status != "COMPLETED" {
		return nil, domain.ErrPaymentNotCompleted
	}

	summary, err := s.checkout.Quote(ctx, pp.UserID, pp.StartDate, pp.EndDate)
	if err != nil {
		return nil, err
	}
	if !payments.AmountsMatch(summary.TotalCents, capture.AmountCents) {
		logger.Error("paypal capture amount mismatch",
			"order_id", orderID, "expected_cents", summary.TotalCents, "captured_cents", capture.AmountCents)
		return nil, domain.ErrAmountMismatch
	}

	invoice, err := s.checkout.CreateFromCart(ctx, pp.UserID, pp.StartDate, pp.EndDate, MethodPayPal, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.pendingRepo.DeleteByUser(ctx, pp.UserID); err != nil {
		logger.Error("pending payment cleanup failed", "user_id", pp.UserID, "error", err)
	}
	return invoice, nil
}

// ConfirmStripeSession handles the buyer's return from Stripe Checkout. The
// session is re-fetched from Stripe; the browser redirect alone proves
// nothing.
func (s *paymentService) ConfirmStripeSession(ctx context.Context, sessionID string) (*domain.InvoiceData, error) {
	pp, err := s.pendingRepo.GetByProviderRef(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	won, err := s.state.AcquireOnce(ctx, redisx.ConfirmKey(MethodStripe, sessionID), redisx.TTLConfirm)
	if err != nil {
		return nil, fmt.Errorf("acquire capture latch: %w", err)
	}
	if !won {
		return nil, domain.ErrNoPendingPayment
	}

	invoice, err := s.confirmStripe(ctx, pp, sessionID)
	if err != nil {
		if relErr := s.state.Release(ctx, redisx.ConfirmKey(MethodStripe, sessionID)); relErr != nil {
			logger.Error("latch release failed", "session_id", sessionID, "error", relErr)
		}
		return nil, err
	}
	return invoice, nil
}

func (s *paymentService) confirmStripe(ctx context.Context, pp *domain.PendingPayment, sessionID string) (*domain.InvoiceData, error) {
	sess, err := s.stripe.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.PaymentPaid {
		return nil, domain.ErrPaymentNotCompleted
	}

	summary, err := s.checkout.Quote(ctx, pp.UserID, pp.StartDate, pp.EndDate)
	if err != nil {
		return nil, err
	}
	if !payments.AmountsMatch(summary.TotalCents, sess.AmountCents) {
		logger.Error("stripe session amount mismatch",
			"session_id", sessionID, "expected_cents", summary.TotalCents, "captured_cents", sess.AmountCents)
		return nil, domain.ErrAmountMismatch
	}

	invoice, err := s.checkout.CreateFromCart(ctx, pp.UserID, pp.StartDate, pp.EndDate, MethodStripe, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.pendingRepo.DeleteByUser(ctx, pp.UserID); err != nil {
		logger.Error("pending payment cleanup failed", "user_id", pp.UserID, "error", err)
	}
	return invoice, nil
}

// CheckNetsStatus is called by every SSE poll tick and every webhook
// delivery for the same retrieval ref. Whichever caller first sees the paid
// state wins the latch and books; everyone else just reports "paid".
func (s *paymentService) CheckNetsStatus(ctx context.Context, retrievalRef string, frontendTimeout int) (string, *domain.InvoiceData, error) {
	pp, err := s.pendingRepo.GetByProviderRef(ctx, retrievalRef)
	if errors.Is(err, domain.ErrNoPendingPayment) {
		// Consumed already, or never existed. The latch distinguishes.
		done, exErr := s.state.Exists(ctx, redisx.ConfirmKey(MethodNets, retrievalRef))
		if exErr != nil {
			return "", nil, exErr
		}
		if done {
			return NetsStatusPaid, nil, nil
		}
		return NetsStatusFailed, nil, domain.ErrNoPendingPayment
	}
	if err != nil {
		return "", nil, err
	}

	result, err := s.nets.QueryTxn(ctx, retrievalRef, frontendTimeout)
	if err != nil {
		return "", nil, err
	}
	if !result.Paid() {
		return NetsStatusPending, nil, nil
	}

	won, err := s.state.AcquireOnce(ctx, redisx.ConfirmKey(MethodNets, retrievalRef), redisx.TTLConfirm)
	if err != nil {
		return "", nil, fmt.Errorf("acquire confirm latch: %w", err)
	}
	if !won {
		return NetsStatusPaid, nil, nil
	}

	invoice, err := s.checkout.CreateFromCart(ctx, pp.UserID, pp.StartDate, pp.EndDate, MethodNets, retrievalRef)
	if err != nil {
		if relErr := s.state.Release(ctx, redisx.ConfirmKey(MethodNets, retrievalRef)); relErr != nil {
			logger.Error("latch release failed", "retrieval_ref", retrievalRef, "error", relErr)
		}
		return "", nil, err
	}
	if err := s.pendingRepo.DeleteByUser(ctx, pp.UserID); err != nil {
		logger.Error("pending payment cleanup failed", "user_id", pp.UserID, "error", err)
	}
	return NetsStatusPaid, invoice, nil
}

func (s *paymentService) CancelPending(ctx context.Context, userID int64) error {
	return s.pendingRepo.DeleteByUser(ctx, userID)
}

func (s *paymentService) upsertPending(ctx context.Context, userID int64, method, startDate, endDate, providerRef string) error {
	return s.pendingRepo.Upsert(ctx, &domain.PendingPayment{
		UserID:      userID,
		Method:      method,
		StartDate:   startDate,
		EndDate:     endDate,
		ProviderRef: providerRef,
	})
}
