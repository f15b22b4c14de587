package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codr1/Courtly/internal/config"
	"github.com/codr1/Courtly/internal/db"
)

func loadTestConfig(t *testing.T, dir string) *config.Config {
	t.Helper()

	t.Setenv("APP_SECRET_KEY", "test-secret-key-for-server-tests-only")
	t.Setenv("ADMIN_PASSWORD", "admin-password")
	t.Setenv("STRIPE_SECRET_KEY", "")

	configPath := filepath.Join(dir, "app.yaml")
	body := fmt.Sprintf(`app:
  name: Courtly
  environment: development
  port: 18080

database:
  driver: sqlite
  filename: %q

auth:
  admin_email: admin@example.com

scheduler:
  pending_ttl: 30m
`, filepath.ToSlash(filepath.Join(dir, "db", "server.db")))
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func TestServerStartup(t *testing.T) {
	dir := t.TempDir()
	cfg := loadTestConfig(t, dir)

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	app, err := newApp(context.Background(), cfg, database)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(app.close)

	if n := len(app.scheduler.Jobs()); n != 1 {
		t.Fatalf("expected pending release job to be registered, got %d jobs", n)
	}

	server := httptest.NewServer(app.handler)
	t.Cleanup(server.Close)

	for _, path := range []string{"/health", "/ready"} {
		resp, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: status %d", path, resp.StatusCode)
		}
	}

	resp, err := http.Post(server.URL+"/api/auth/login", "application/json",
		strings.NewReader(`{"email":"admin@example.com","password":"admin-password"}`))
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("bootstrapped admin could not log in: status %d", resp.StatusCode)
	}
}

func TestNewServerUsesConfiguredPort(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Port = 3001

	server := newServer(cfg, http.NotFoundHandler())
	if server.Addr != ":3001" {
		t.Fatalf("addr: got %q want :3001", server.Addr)
	}
}
