package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/logger"
	"selfstore-backend/internal/redisx"
	"selfstore-backend/internal/repository"
)

type walletService struct {
	walletRepo repository.WalletRepository
	userRepo   repository.UserRepository
	paypal     PayPalGateway
	stripe     StripeGateway
	nets       NetsGateway
	state      StateStore
	emailSvc   EmailService
	baseURL    string
}

func NewWalletService(
	walletRepo repository.WalletRepository,
	userRepo repository.UserRepository,
	paypal PayPalGateway,
	stripe StripeGateway,
	nets NetsGateway,
	state StateStore,
	emailSvc EmailService,
	baseURL string,
) WalletService {
	return &walletService{
		walletRepo: walletRepo,
		userRepo:   userRepo,
		paypal:     paypal,
		stripe:     stripe,
		nets:       nets,
		state:      state,
		emailSvc:   emailSvc,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (s *walletService) Balance(ctx context.Context, userID int64) (int64, error) {
	return s.walletRepo.Balance(ctx, userID)
}

func (s *walletService) History(ctx context.Context, userID int64, limit int32) ([]domain.WalletTransaction, error) {
	return s.walletRepo.ListByUser(ctx, userID, limit)
}

// InitiateTopup mirrors the checkout payment flows minus the cart: Stripe
// redirects, PayPal hands over an order id, NETS returns a QR. The wallet is
// only credited once the provider confirms.
func (s *walletService) InitiateTopup(ctx context.Context, userID, amountCents int64, method string) (*PaymentInitiation, error) {
	if amountCents <= 0 {
		return nil, errors.New("topup amount must be positive")
	}

	switch method {
	case MethodStripe:
		sess, err := s.stripe.CreateCheckoutSession(ctx, amountCents, "Wallet Top-up", userID,
			s.baseURL+"/wallet/topup/stripe/success?session_id={CHECKOUT_SESSION_ID}",
			s.baseURL+"/wallet/topup/stripe/cancel")
		if err != nil {
			return nil, err
		}
		return &PaymentInitiation{Method: method, Status: "redirect", RedirectURL: sess.URL, ProviderRef: sess.SessionID}, nil

	case MethodPayPal:
		order, err := s.paypal.CreateOrder(ctx, amountCents, fmt.Sprintf("topup-%d", userID),
			s.baseURL+"/wallet/topup/paypal/return", s.baseURL+"/wallet/topup/paypal/cancel")
		if err != nil {
			return nil, err
		}
		return &PaymentInitiation{Method: method, Status: "approval", ProviderRef: order.OrderID, RedirectURL: order.ApproveURL}, nil

	case MethodNets:
		qr, err := s.nets.RequestQR(ctx, amountCents, "")
		if err != nil {
			return nil, err
		}
		// NETS confirmations carry no user or amount, so the correlation
		// lives in Redis until the QR is paid or expires.
		value := fmt.Sprintf("%d:%d", userID, amountCents)
		if err := s.state.Set(ctx, redisx.TopupKey(MethodNets, qr.RetrievalRef), value, redisx.TTLTopup); err != nil {
			return nil, fmt.Errorf("store topup context: %w", err)
		}
		return &PaymentInitiation{Method: method, Status: "qr", QRCodeDataURL: qr.QRCodeDataURL, ProviderRef: qr.RetrievalRef}, nil

	default:
		return nil, fmt.Errorf("unsupported topup method %q", method)
	}
}

// ConfirmStripeTopup credits the wallet with the session's captured total.
// User identity comes from the session metadata written at creation.
func (s *walletService) ConfirmStripeTopup(ctx context.Context, sessionID string) (int64, error) {
	latchKey := redisx.ConfirmKey("stripe_topup", sessionID)
	won, err := s.state.AcquireOnce(ctx, latchKey, redisx.TTLConfirm)
	if err != nil {
		return 0, fmt.Errorf("acquire topup latch: %w", err)
	}
	if !won {
		return 0, domain.ErrPaymentNotCompleted
	}

	credited, err := s.confirmStripeTopup(ctx, sessionID)
	if err != nil {
		if relErr := s.state.Release(ctx, latchKey); relErr != nil {
			logger.Error("topup latch release failed", "session_id", sessionID, "error", relErr)
		}
		return 0, err
	}
	return credited, nil
}

func (s *walletService) confirmStripeTopup(ctx context.Context, sessionID string) (int64, error) {
	sess, err := s.stripe.RetrieveSession(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if !sess.PaymentPaid {
		return 0, domain.ErrPaymentNotCompleted
	}
	if sess.UserID == 0 || sess.AmountCents <= 0 {
		return 0, domain.ErrAmountMismatch
	}

	if err := s.walletRepo.Topup(ctx, sess.UserID, sess.AmountCents, "Stripe wallet top-up"); err != nil {
		return 0, err
	}
	s.sendTopupReceipt(ctx, sess.UserID, sess.AmountCents)
	return sess.AmountCents, nil
}

func (s *walletService) CapturePayPalTopup(ctx context.Context, userID int64, orderID string) (int64, error) {
	latchKey := redisx.ConfirmKey("paypal_topup", orderID)
	won, err := s.state.AcquireOnce(ctx, latchKey, redisx.TTLConfirm)
	if err != nil {
		return 0, fmt.Errorf("acquire topup latch: %w", err)
	}
	if !won {
		return 0, domain.ErrPaymentNotCompleted
	}

	capture, err := s.paypal.CaptureOrder(ctx, orderID)
	if err != nil || capture.Status != "COMPLETED" || capture.AmountCents <= 0 {
		if relErr := s.state.Release(ctx, latchKey); relErr != nil {
			logger.Error("topup latch release failed", "order_id", orderID, "error", relErr)
		}
		if err != nil {
			return 0, err
		}
		return 0, domain.ErrPaymentNotCompleted
	}

	if err := s.walletRepo.Topup(ctx, userID, capture.AmountCents, "PayPal wallet top-up"); err != nil {
		if relErr := s.state.Release(ctx, latchKey); relErr != nil {
			logger.Error("topup latch release failed", "order_id", orderID, "error", relErr)
		}
		return 0, err
	}
	s.sendTopupReceipt(ctx, userID, capture.AmountCents)
	return capture.AmountCents, nil
}

func (s *walletService) CheckNetsTopup(ctx context.Context, retrievalRef string, frontendTimeout int) (string, int64, error) {
	raw, found, err := s.state.Get(ctx, redisx.TopupKey(MethodNets, retrievalRef))
	if err != nil {
		return "", 0, err
	}
	if !found {
		done, exErr := s.state.Exists(ctx, redisx.ConfirmKey("nets_topup", retrievalRef))
		if exErr != nil {
			return "", 0, exErr
		}
		if done {
			return NetsStatusPaid, 0, nil
		}
		return NetsStatusFailed, 0, errors.New("unknown or expired topup reference")
	}

	userID, amountCents, err := parseTopupContext(raw)
	if err != nil {
		return "", 0, err
	}

	result, err := s.nets.QueryTxn(ctx, retrievalRef, frontendTimeout)
	if err != nil {
		return "", 0, err
	}
	if !result.Paid() {
		return NetsStatusPending, 0, nil
	}

	latchKey := redisx.ConfirmKey("nets_topup", retrievalRef)
	won, err := s.state.AcquireOnce(ctx, latchKey, redisx.TTLConfirm)
	if err != nil {
		return "", 0, fmt.Errorf("acquire topup latch: %w", err)
	}
	if !won {
		return NetsStatusPaid, 0, nil
	}

	if err := s.walletRepo.Topup(ctx, userID, amountCents, "NETS wallet top-up"); err != nil {
		if relErr := s.state.Release(ctx, latchKey); relErr != nil {
			logger.Error("topup latch release failed", "retrieval_ref", retrievalRef, "error", relErr)
		}
		return "", 0, err
	}
	if err := s.state.Delete(ctx, redisx.TopupKey(MethodNets, retrievalRef)); err != nil {
		logger.Error("topup context cleanup failed", "retrieval_ref", retrievalRef, "error", err)
	}
	s.sendTopupReceipt(ctx, userID, amountCents)
	return NetsStatusPaid, amountCents, nil
}

func (s *walletService) sendTopupReceipt(ctx context.Context, userID, amountCents int64) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Error("topup receipt lookup failed", "user_id", userID, "error", err)
		return
	}
	if err := s.emailSvc.SendTopupReceipt(ctx, user.Email, user.Name, amountCents); err != nil {
		logger.Error("topup receipt email failed", "user_id", userID, "error", err)
	}
}

func parseTopupContext(raw string) (int64, int64, error) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed topup context %q", raw)
	}
	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	amount, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return userID, amount, nil
}
