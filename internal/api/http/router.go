package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"selfstore-backend/internal/config"
	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/security"
	"selfstore-backend/internal/service"
)

// Services bundles everything the HTTP surface depends on.
type Services struct {
	Listings service.ListingService
	Cart     service.CartService
	Checkout service.CheckoutService
	Payments service.PaymentService
	Wallet   service.WalletService
	Loyalty  service.LoyaltyService
	Refunds  service.RefundService
	Bookings service.BookingService
}

// NewRouter wires all routes. Provider callbacks and the SSE stream are
// unauthenticated: the session id / retrieval ref is the capability, and the
// confirmation latch plus amount re-verification make replays harmless.
func NewRouter(cfg *config.Config, tokens security.TokenManager, svcs Services) *mux.Router {
	listingHandler := NewListingHandler(svcs.Listings)
	cartHandler := NewCartHandler(svcs.Cart)
	checkoutHandler := NewCheckoutHandler(svcs.Checkout)
	paymentHandler := NewPaymentHandler(svcs.Payments, cfg.PollInterval(), cfg.PollCeiling())
	walletHandler := NewWalletHandler(svcs.Wallet)
	loyaltyHandler := NewLoyaltyHandler(svcs.Loyalty)
	historyHandler := NewHistoryHandler(svcs.Bookings)
	adminHandler := NewAdminHandler(svcs.Refunds)

	r := mux.NewRouter()
	r.Use(RequestLogger)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Public catalog.
	r.HandleFunc("/listings", listingHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/listings/{id}", listingHandler.Get).Methods(http.MethodGet)

	// Provider callbacks and polling surfaces.
	r.HandleFunc("/stripe/success", paymentHandler.StripeSuccess).Methods(http.MethodGet)
	r.HandleFunc("/stripe/cancel", paymentHandler.StripeCancel).Methods(http.MethodGet)
	r.HandleFunc("/netsqr/webhook", paymentHandler.NetsWebhook).Methods(http.MethodPost)
	r.HandleFunc("/sse/payment-status/{retrievalRef}", paymentHandler.StreamPaymentStatus).Methods(http.MethodGet)
	r.HandleFunc("/wallet/topup/stripe/success", walletHandler.StripeTopupSuccess).Methods(http.MethodGet)
	r.HandleFunc("/wallet/topup/netsqr/status/{retrievalRef}", walletHandler.NetsTopupStatus).Methods(http.MethodGet)

	// Authenticated surface.
	auth := r.PathPrefix("/").Subrouter()
	auth.Use(Authenticate(tokens))

	auth.HandleFunc("/cart", cartHandler.Get).Methods(http.MethodGet)
	auth.HandleFunc("/cart", cartHandler.Add).Methods(http.MethodPost)
	auth.HandleFunc("/cart/{listingID}", cartHandler.UpdateQuantity).Methods(http.MethodPut)
	auth.HandleFunc("/cart/{listingID}", cartHandler.Remove).Methods(http.MethodDelete)

	auth.HandleFunc("/checkout", checkoutHandler.Quote).Methods(http.MethodPost)
	auth.HandleFunc("/payment", paymentHandler.Initiate).Methods(http.MethodPost)
	auth.HandleFunc("/payment", paymentHandler.Cancel).Methods(http.MethodDelete)
	auth.HandleFunc("/api/paypal/create-order", paymentHandler.CreatePayPalOrder).Methods(http.MethodPost)
	auth.HandleFunc("/api/paypal/capture-order", paymentHandler.CapturePayPalOrder).Methods(http.MethodPost)

	auth.HandleFunc("/wallet", walletHandler.Balance).Methods(http.MethodGet)
	auth.HandleFunc("/wallet/history", walletHandler.History).Methods(http.MethodGet)
	auth.HandleFunc("/wallet/topup", walletHandler.InitiateTopup).Methods(http.MethodPost)
	auth.HandleFunc("/api/paypal/capture-topup", walletHandler.CapturePayPalTopup).Methods(http.MethodPost)

	auth.HandleFunc("/api/loyalty/info", loyaltyHandler.Info).Methods(http.MethodGet)
	auth.HandleFunc("/api/loyalty/tiers", loyaltyHandler.Tiers).Methods(http.MethodGet)
	auth.HandleFunc("/api/loyalty/calculate-reward", loyaltyHandler.CalculateReward).Methods(http.MethodPost)
	auth.HandleFunc("/api/loyalty/redeem", loyaltyHandler.Redeem).Methods(http.MethodPost)

	auth.HandleFunc("/history", historyHandler.List).Methods(http.MethodGet)
	auth.HandleFunc("/history/{bookingID}", historyHandler.Get).Methods(http.MethodGet)

	// Provider-role listing management.
	provider := r.PathPrefix("/").Subrouter()
	provider.Use(Authenticate(tokens), RequireRole(domain.RoleProvider, domain.RoleAdmin))
	provider.HandleFunc("/provider/listings", listingHandler.ListMine).Methods(http.MethodGet)
	provider.HandleFunc("/listings", listingHandler.Create).Methods(http.MethodPost)
	provider.HandleFunc("/listings/{id}", listingHandler.Update).Methods(http.MethodPut)
	provider.HandleFunc("/listings/{id}", listingHandler.Delete).Methods(http.MethodDelete)

	// Admin refunds.
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(Authenticate(tokens), RequireRole(domain.RoleAdmin))
	admin.HandleFunc("/payments/{id}/refund", adminHandler.Refund).Methods(http.MethodPost)
	admin.HandleFunc("/payments/{id}/refunds", adminHandler.ListRefunds).Methods(http.MethodGet)

	return r
}
