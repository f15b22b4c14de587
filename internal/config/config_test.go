package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const minimalYAML = `
app:
  name: courtly
  port: 8080
database:
  driver: sqlite
  filename: courtly.db
`

func TestParseAppliesDefaults(t *testing.T) {
	t.Setenv("APP_SECRET_KEY", "")
	t.Setenv("STRIPE_SECRET_KEY", "")

	cfg, err := Parse([]byte(minimalYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.App.Environment != "development" {
		t.Fatalf("environment: got %q", cfg.App.Environment)
	}
	if cfg.App.ShutdownTimeout != 30*time.Second {
		t.Fatalf("shutdown timeout: got %s", cfg.App.ShutdownTimeout)
	}
	if cfg.Auth.TokenTTL != 7*24*time.Hour {
		t.Fatalf("token ttl: got %s", cfg.Auth.TokenTTL)
	}
	if cfg.Payments.Currency != "eur" {
		t.Fatalf("currency: got %q", cfg.Payments.Currency)
	}
	if cfg.Payments.SuccessURL != "http://localhost:5173/bookings/{booking_id}?payment=success" {
		t.Fatalf("success url: got %q", cfg.Payments.SuccessURL)
	}
	if cfg.RateLimit.Requests != 100 || cfg.RateLimit.Window != 15*time.Minute {
		t.Fatalf("rate limit: got %d per %s", cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}
	if cfg.RateLimit.LoginMaxAttempts != 5 || cfg.RateLimit.LoginLockout != 5*time.Minute {
		t.Fatalf("login limit: got %d / %s", cfg.RateLimit.LoginMaxAttempts, cfg.RateLimit.LoginLockout)
	}
	if cfg.Scheduler.PendingTTL != 0 {
		t.Fatalf("pending ttl should default to disabled, got %s", cfg.Scheduler.PendingTTL)
	}
	if cfg.PaymentsEnabled() {
		t.Fatal("payments should be disabled without a secret key")
	}
}

func TestParseReadsSecretsFromEnvironment(t *testing.T) {
	t.Setenv("APP_SECRET_KEY", "s3cret")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_1")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_1")
	t.Setenv("ADMIN_EMAIL", "root@example.com")
	t.Setenv("ADMIN_PASSWORD", "hunter22")

	cfg, err := Parse([]byte(minimalYAML + `
payments:
  currency: usd
scheduler:
  pending_ttl: 30m
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.App.SecretKey != "s3cret" {
		t.Fatalf("secret key not loaded")
	}
	if !cfg.PaymentsEnabled() || cfg.Payments.WebhookSecret != "whsec_1" {
		t.Fatalf("payments secrets not loaded: %+v", cfg.Payments)
	}
	if cfg.Payments.Currency != "usd" {
		t.Fatalf("currency: got %q", cfg.Payments.Currency)
	}
	if cfg.Auth.AdminEmail != "root@example.com" || cfg.Auth.AdminPassword != "hunter22" {
		t.Fatalf("admin bootstrap not loaded: %+v", cfg.Auth)
	}
	if cfg.Scheduler.PendingTTL != 30*time.Minute {
		t.Fatalf("pending ttl: got %s", cfg.Scheduler.PendingTTL)
	}
}

func TestParseValidation(t *testing.T) {
	t.Setenv("APP_SECRET_KEY", "")
	t.Setenv("DATABASE_AUTH_TOKEN", "")

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "app:\n  port: 8080\ndatabase:\n  driver: sqlite\n  filename: x.db\n",
			wantErr: "app name is required",
		},
		{
			name:    "missing port",
			yaml:    "app:\n  name: courtly\ndatabase:\n  driver: sqlite\n  filename: x.db\n",
			wantErr: "app port is required",
		},
		{
			name:    "unsupported driver",
			yaml:    "app:\n  name: courtly\n  port: 8080\ndatabase:\n  driver: postgres\n",
			wantErr: "unsupported database driver",
		},
		{
			name:    "turso without token",
			yaml:    "app:\n  name: courtly\n  port: 8080\ndatabase:\n  driver: turso\n  url: libsql://db.example\n",
			wantErr: "auth token is required",
		},
		{
			name:    "production without secret",
			yaml:    "app:\n  name: courtly\n  port: 8080\n  environment: production\ndatabase:\n  driver: sqlite\n  filename: x.db\n",
			wantErr: "APP_SECRET_KEY is required",
		},
		{
			name:    "negative pending ttl",
			yaml:    minimalYAML + "scheduler:\n  pending_ttl: -1m\n",
			wantErr: "pending_ttl must not be negative",
		},
		{
			name:    "bad cron",
			yaml:    minimalYAML + "scheduler:\n  pending_release_cron: every five minutes\n",
			wantErr: "pending_release_cron is invalid",
		},
		{
			name:    "email sender without region",
			yaml:    minimalYAML + "email:\n  sender: noreply@example.com\n",
			wantErr: "email region and sender must be set together",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadReadsDotEnvBesideConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "app.yaml")
	yamlData := `
app:
  name: courtly
  port: 8080
  environment: production
database:
  driver: sqlite
  filename: courtly.db
`
	if err := os.WriteFile(cfgPath, []byte(yamlData), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("APP_SECRET_KEY", "")
	if _, err := Load(cfgPath); err == nil || !strings.Contains(err.Error(), "APP_SECRET_KEY") {
		t.Fatalf("expected missing secret error, got %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("APP_SECRET_KEY=from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	// godotenv does not override variables that are already set.
	os.Unsetenv("APP_SECRET_KEY")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.SecretKey != "from-dotenv" {
		t.Fatalf("secret key: got %q", cfg.App.SecretKey)
	}
}
