package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	JWT       JWTConfig       `yaml:"jwt"`
	Providers ProvidersConfig `yaml:"providers"`
	Payment   PaymentConfig   `yaml:"payment"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"` // public base URL used in provider redirect URLs
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// RedisConfig contains Redis settings for payment-confirmation latches
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SMTPConfig contains email service settings
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// ProvidersConfig contains payment-provider credentials and endpoints
type ProvidersConfig struct {
	PayPal PayPalConfig `yaml:"paypal"`
	Stripe StripeConfig `yaml:"stripe"`
	Nets   NetsConfig   `yaml:"nets"`
}

type PayPalConfig struct {
	ClientID string `yaml:"client_id"`
	Secret   string `yaml:"secret"`
	BaseURL  string `yaml:"base_url"`
}

type StripeConfig struct {
	SecretKey string `yaml:"secret_key"`
}

type NetsConfig struct {
	APIKey      string `yaml:"api_key"`
	ProjectID   string `yaml:"project_id"`
	BaseURL     string `yaml:"base_url"`
	RequestPath string `yaml:"request_path"`
	QueryPath   string `yaml:"query_path"`
}

// PaymentConfig contains checkout flow timing settings
type PaymentConfig struct {
	PollIntervalSeconds  int    `yaml:"poll_interval_seconds"`
	PollCeilingMinutes   int    `yaml:"poll_ceiling_minutes"`
	PendingExpiryMinutes int    `yaml:"pending_expiry_minutes"`
	CurrencyCode         string `yaml:"currency_code"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ExpirePendingPayments    string `yaml:"expire_pending_payments"`
	ReconcileAvailability    string `yaml:"reconcile_availability"`
	CompleteFinishedBookings string `yaml:"complete_finished_bookings"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Redis
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		c.Redis.Addr = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Redis.Password = val
	}

	// SMTP
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.SMTP.Host = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.SMTP.Port)
	}
	if val := os.Getenv("SMTP_USER"); val != "" {
		c.SMTP.User = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.SMTP.Password = val
	}
	if val := os.Getenv("SMTP_FROM"); val != "" {
		c.SMTP.From = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}
	if val := os.Getenv("APP_BASE_URL"); val != "" {
		c.Server.BaseURL = val
	}

	// Providers
	if val := os.Getenv("PAYPAL_CLIENT_ID"); val != "" {
		c.Providers.PayPal.ClientID = val
	}
	if val := os.Getenv("PAYPAL_CLIENT_SECRET"); val != "" {
		c.Providers.PayPal.Secret = val
	}
	if val := os.Getenv("STRIPE_SECRET_KEY"); val != "" {
		c.Providers.Stripe.SecretKey = val
	}
	if val := os.Getenv("NETS_API_KEY"); val != "" {
		c.Providers.Nets.APIKey = val
	}
	if val := os.Getenv("NETS_PROJECT_ID"); val != "" {
		c.Providers.Nets.ProjectID = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	// Provider defaults (sandbox endpoints)
	if c.Providers.PayPal.BaseURL == "" {
		c.Providers.PayPal.BaseURL = "https://api-m.sandbox.paypal.com"
	}
	if c.Providers.Nets.BaseURL == "" {
		c.Providers.Nets.BaseURL = "https://sandbox.nets.openapipaas.com"
	}
	if c.Providers.Nets.RequestPath == "" {
		c.Providers.Nets.RequestPath = "/api/v1/common/payments/nets-qr/request"
	}
	if c.Providers.Nets.QueryPath == "" {
		c.Providers.Nets.QueryPath = "/api/v1/common/payments/nets-qr/query"
	}

	// Payment flow defaults
	if c.Payment.PollIntervalSeconds == 0 {
		c.Payment.PollIntervalSeconds = 5
	}
	if c.Payment.PollCeilingMinutes == 0 {
		c.Payment.PollCeilingMinutes = 5
	}
	if c.Payment.PendingExpiryMinutes == 0 {
		c.Payment.PendingExpiryMinutes = 30
	}
	if c.Payment.CurrencyCode == "" {
		c.Payment.CurrencyCode = "SGD"
	}

	// Scheduler defaults
	if c.Scheduler.ExpirePendingPayments == "" {
		c.Scheduler.ExpirePendingPayments = "0 */10 * * * *" // every 10 minutes
	}
	if c.Scheduler.ReconcileAvailability == "" {
		c.Scheduler.ReconcileAvailability = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.CompleteFinishedBookings == "" {
		c.Scheduler.CompleteFinishedBookings = "0 0 3 * * *" // 3 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// PollInterval returns the SSE provider-poll interval
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Payment.PollIntervalSeconds) * time.Second
}

// PollCeiling returns the hard wall-clock ceiling for async confirmation
func (c *Config) PollCeiling() time.Duration {
	return time.Duration(c.Payment.PollCeilingMinutes) * time.Minute
}
