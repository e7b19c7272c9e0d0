package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "selfstore-backend/internal/api/http"
	"selfstore-backend/internal/config"
	"selfstore-backend/internal/jobs"
	"selfstore-backend/internal/logger"
	"selfstore-backend/internal/payments"
	"selfstore-backend/internal/redisx"
	"selfstore-backend/internal/repository/postgres"
	"selfstore-backend/internal/scheduler"
	"selfstore-backend/internal/security"
	"selfstore-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting SelfStore Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "base_url", cfg.Server.BaseURL)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Redis (payment-confirmation latches and top-up correlation)
	rdb := redisx.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Error("Failed to ping redis", "error", err)
		log.Fatalf("Failed to ping redis: %v", err)
	}
	logger.Info("Redis connection established", "addr", cfg.Redis.Addr)
	stateStore := redisx.NewStore(rdb)

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize payment provider clients
	paypalClient := payments.NewPayPalClient(cfg.Providers.PayPal, cfg.Payment.CurrencyCode)
	stripeClient := payments.NewStripeClient(cfg.Providers.Stripe.SecretKey, cfg.Payment.CurrencyCode)
	netsClient := payments.NewNetsClient(cfg.Providers.Nets)

	// Initialize Services
	emailSvc := service.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)
	listingSvc := service.NewListingService(store.ListingRepository)
	cartSvc := service.NewCartService(store.CartRepository, store.ListingRepository)
	availabilitySvc := service.NewAvailabilityService(store.ListingRepository, store.BookingRepository)
	loyaltySvc := service.NewLoyaltyService(store.LoyaltyRepository, store.WalletRepository)
	checkoutSvc := service.NewCheckoutService(
		store.CartRepository,
		store.InvoiceRepository,
		store.UserRepository,
		availabilitySvc,
		loyaltySvc,
		emailSvc,
	)
	paymentSvc := service.NewPaymentService(
		checkoutSvc,
		store.PendingPaymentRepository,
		store.WalletRepository,
		paypalClient,
		stripeClient,
		netsClient,
		stateStore,
		cfg.Server.BaseURL,
	)
	walletSvc := service.NewWalletService(
		store.WalletRepository,
		store.UserRepository,
		paypalClient,
		stripeClient,
		netsClient,
		stateStore,
		emailSvc,
		cfg.Server.BaseURL,
	)
	refundSvc := service.NewRefundService(
		store.PaymentRepository,
		store.BookingRepository,
		store.WalletRepository,
		store.UserRepository,
		availabilitySvc,
		emailSvc,
	)
	bookingSvc := service.NewBookingService(store.BookingRepository)

	// Initialize HTTP router
	router := httpapi.NewRouter(cfg, tokenManager, httpapi.Services{
		Listings: listingSvc,
		Cart:     cartSvc,
		Checkout: checkoutSvc,
		Payments: paymentSvc,
		Wallet:   walletSvc,
		Loyalty:  loyaltySvc,
		Refunds:  refundSvc,
		Bookings: bookingSvc,
	})

	// Initialize Scheduler (in-process maintenance jobs)
	jobRunner := jobs.NewJobRunner(store, availabilitySvc, cfg)
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		// No WriteTimeout: the SSE payment-status stream outlives any fixed
		// write deadline; the poll ceiling bounds it instead.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
