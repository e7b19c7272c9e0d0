package payments

import (
	"context"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/logger"
)

// StripeClient wraps Stripe Checkout Sessions. The buyer is redirected to the
// hosted session URL; on return we retrieve the session and verify payment
// status and amount before writing anything.
type StripeClient struct {
	api      *client.API
	currency string
}

func NewStripeClient(secretKey, currency string) *StripeClient {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeClient{api: api, currency: currency}
}

// StripeSession is the subset of a checkout session the caller needs.
type StripeSession struct {
	SessionID   string
	URL         string
	PaymentPaid bool
	AmountCents int64
	UserID      int64
}

func (c *StripeClient) CreateCheckoutSession(ctx context.Context, amountCents int64, reference string, userID int64, successURL, cancelURL string) (*StripeSession, error) {
	logger.ExternalServiceCall("stripe", "create_checkout_session", "amount_cents", amountCents, "reference", reference)

	if amountCents <= 0 {
		return nil, &domain.ProviderError{Provider: "stripe", Op: "create_checkout_session",
			Err: fmt.Errorf("invalid amount %d", amountCents)}
	}
	name := reference
	if name == "" {
		name = "Storage Booking"
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(c.currency),
					UnitAmount: stripe.Int64(amountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(name),
					},
				},
			},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	params.Context = ctx
	params.AddMetadata("user_id", strconv.FormatInt(userID, 10))

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		wrapped := &domain.ProviderError{Provider: "stripe", Op: "create_checkout_session", Err: err}
		logger.ExternalServiceResult("stripe", "create_checkout_session", wrapped)
		return nil, wrapped
	}

	logger.ExternalServiceResult("stripe", "create_checkout_session", nil, "session_id", sess.ID)
	return sessionFromStripe(sess), nil
}

func (c *StripeClient) RetrieveSession(ctx context.Context, sessionID string) (*StripeSession, error) {
	logger.ExternalServiceCall("stripe", "retrieve_session", "session_id", sessionID)

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := c.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		wrapped := &domain.ProviderError{Provider: "stripe", Op: "retrieve_session", Err: err}
		logger.ExternalServiceResult("stripe", "retrieve_session", wrapped)
		return nil, wrapped
	}

	logger.ExternalServiceResult("stripe", "retrieve_session", nil,
		"session_id", sess.ID, "payment_status", sess.PaymentStatus)
	return sessionFromStripe(sess), nil
}

func sessionFromStripe(sess *stripe.CheckoutSession) *StripeSession {
	s := &StripeSession{
		SessionID:   sess.ID,
		URL:         sess.URL,
		PaymentPaid: sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		AmountCents: sess.AmountTotal,
	}
	if raw, ok := sess.Metadata["user_id"]; ok {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			s.UserID = id
		}
	}
	return s
}
