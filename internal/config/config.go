// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
	// Turso/libsql
	URL       string `yaml:"url,omitempty"`
	AuthToken string `yaml:"-"` // Loaded from environment
}

type PaymentsConfig struct {
	Currency string `yaml:"currency"`
	// SuccessURL and CancelURL may contain {booking_id}.
	SuccessURL    string `yaml:"success_url"`
	CancelURL     string `yaml:"cancel_url"`
	SecretKey     string `yaml:"-"` // STRIPE_SECRET_KEY
	WebhookSecret string `yaml:"-"` // STRIPE_WEBHOOK_SECRET
}

type AuthConfig struct {
	TokenTTL      time.Duration `yaml:"token_ttl"`
	AdminEmail    string        `yaml:"admin_email"`
	AdminPassword string        `yaml:"-"` // ADMIN_PASSWORD
}

// EmailConfig enables booking emails through SES when both region and
// sender are set.
type EmailConfig struct {
	Region          string `yaml:"region"`
	Sender          string `yaml:"sender"`
	AccessKeyID     string `yaml:"-"` // AWS_ACCESS_KEY_ID
	SecretAccessKey string `yaml:"-"` // AWS_SECRET_ACCESS_KEY
}

type SchedulerConfig struct {
	PendingReleaseCron string `yaml:"pending_release_cron"`
	// PendingTTL of zero disables releasing unpaid pending bookings.
	PendingTTL time.Duration `yaml:"pending_ttl"`
}

type RateLimitConfig struct {
	Requests         int           `yaml:"requests"`
	Window           time.Duration `yaml:"window"`
	LoginMaxAttempts int           `yaml:"login_max_attempts"`
	LoginLockout     time.Duration `yaml:"login_lockout"`
}

type Config struct {
	App struct {
		Name            string        `yaml:"name"`
		Environment     string        `yaml:"environment"`
		Port            int           `yaml:"port"`
		BaseURL         string        `yaml:"base_url"`
		FrontendURLs    []string      `yaml:"frontend_urls"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		// TrustProxy reads client IPs from X-Forwarded-For for rate limiting.
		TrustProxy  bool   `yaml:"trust_proxy"`
		PhoneRegion string `yaml:"phone_region"`
		SecretKey   string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database  DatabaseConfig  `yaml:"database"`
	Payments  PaymentsConfig  `yaml:"payments"`
	Auth      AuthConfig      `yaml:"auth"`
	Email     EmailConfig     `yaml:"email"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, overlays secrets from the environment,
// applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Load sensitive values from environment
	cfg.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	cfg.Database.AuthToken = os.Getenv("DATABASE_AUTH_TOKEN")
	cfg.Payments.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Payments.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")
	cfg.Auth.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	cfg.Email.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	cfg.Email.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		cfg.Auth.AdminEmail = email
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.App.ShutdownTimeout == 0 {
		c.App.ShutdownTimeout = 30 * time.Second
	}
	if len(c.App.FrontendURLs) == 0 {
		c.App.FrontendURLs = []string{"http://localhost:5173"}
	}
	if c.Payments.Currency == "" {
		c.Payments.Currency = "eur"
	}
	if c.Payments.SuccessURL == "" {
		c.Payments.SuccessURL = c.App.FrontendURLs[0] + "/bookings/{booking_id}?payment=success"
	}
	if c.Payments.CancelURL == "" {
		c.Payments.CancelURL = c.App.FrontendURLs[0] + "/bookings/{booking_id}?payment=cancelled"
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 7 * 24 * time.Hour
	}
	if c.Scheduler.PendingReleaseCron == "" {
		c.Scheduler.PendingReleaseCron = "*/5 * * * *"
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = 100
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = 15 * time.Minute
	}
	if c.RateLimit.LoginMaxAttempts == 0 {
		c.RateLimit.LoginMaxAttempts = 5
	}
	if c.RateLimit.LoginLockout == 0 {
		c.RateLimit.LoginLockout = 5 * time.Minute
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	case "turso":
		if c.Database.URL == "" {
			return fmt.Errorf("database URL is required for turso")
		}
		if c.Database.AuthToken == "" {
			return fmt.Errorf("database auth token is required for turso")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.App.Environment != "development" && c.App.SecretKey == "" {
		return fmt.Errorf("APP_SECRET_KEY is required outside development")
	}
	if _, err := cron.ParseStandard(c.Scheduler.PendingReleaseCron); err != nil {
		return fmt.Errorf("scheduler pending_release_cron is invalid: %w", err)
	}
	if c.Scheduler.PendingTTL < 0 {
		return fmt.Errorf("scheduler pending_ttl must not be negative")
	}
	if c.RateLimit.Requests < 0 || c.RateLimit.LoginMaxAttempts < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}
	if (c.Email.Region == "") != (c.Email.Sender == "") {
		return fmt.Errorf("email region and sender must be set together")
	}
	if strings.TrimSpace(c.Payments.Currency) == "" {
		return fmt.Errorf("payments currency is required")
	}

	return nil
}

// PaymentsEnabled reports whether a gateway secret is configured.
func (c *Config) PaymentsEnabled() bool {
	return c.Payments.SecretKey != ""
}

// EmailEnabled reports whether booking emails should be sent.
func (c *Config) EmailEnabled() bool {
	return c.Email.Region != "" && c.Email.Sender != ""
}
