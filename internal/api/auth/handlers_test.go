package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/codr1/Courtly/internal/api/authz"
	"github.com/codr1/Courtly/internal/clock"
	"github.com/codr1/Courtly/internal/ratelimit"
	"github.com/codr1/Courtly/internal/testutil"
	"github.com/codr1/Courtly/internal/users"
)

type authTestContext struct {
	handlers *Handlers
	users    *users.Service
	tokens   *Tokens
	clock    *clock.Mock
}

func setupAuthTest(t *testing.T, maxAttempts int) authTestContext {
	t.Helper()

	database := testutil.NewTestDB(t)
	clk := clock.NewMock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	tokens, err := NewTokens("test-secret-key", time.Hour, clk)
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	userService := users.NewService(database, clk, users.Options{})

	var limiter *ratelimit.Limiter
	if maxAttempts > 0 {
		limiter = ratelimit.New(&ratelimit.Config{MaxAttempts: maxAttempts, Lockout: 5 * time.Minute, Clock: clk})
		t.Cleanup(limiter.Close)
	}

	return authTestContext{
		handlers: NewHandlers(userService, tokens, limiter, false),
		users:    userService,
		tokens:   tokens,
		clock:    clk,
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:4242"
	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func decodeAuthResponse(t *testing.T, recorder *httptest.ResponseRecorder) authResponse {
	t.Helper()
	var resp authResponse
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func errorCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp.Code
}

func TestHandleRegister(t *testing.T) {
	tc := setupAuthTest(t, 0)

	recorder := postJSON(t, tc.handlers.HandleRegister,
		`{"email":"Alice@Example.com","password":"password1","name":"Alice","phone":"+44 20 7031 3000"}`)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	resp := decodeAuthResponse(t, recorder)
	if resp.User.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", resp.User.Email)
	}
	if resp.User.Phone == nil || *resp.User.Phone != "+442070313000" {
		t.Fatalf("phone not normalized: %v", resp.User.Phone)
	}
	if resp.User.Role != users.RolePlayer {
		t.Fatalf("expected PLAYER role, got %s", resp.User.Role)
	}
	if !resp.ExpiresAt.Equal(tc.clock.Now().Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", resp.ExpiresAt)
	}

	caller, err := tc.tokens.Parse(resp.Token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if caller.ID != resp.User.ID || caller.Role != string(users.RolePlayer) {
		t.Fatalf("token identity mismatch: %+v", caller)
	}
}

func TestHandleRegisterValidation(t *testing.T) {
	tc := setupAuthTest(t, 0)

	tests := []struct {
		name string
		body string
		code string
	}{
		{name: "malformed json", body: `{"email":`, code: "INVALID_INPUT"},
		{name: "bad email", body: `{"email":"nope","password":"password1","name":"Alice"}`, code: "INVALID_INPUT"},
		{name: "short password", body: `{"email":"a@example.com","password":"short","name":"Alice"}`, code: "INVALID_INPUT"},
		{name: "short name", body: `{"email":"a@example.com","password":"password1","name":"A"}`, code: "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := postJSON(t, tc.handlers.HandleRegister, tt.body)
			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", recorder.Code)
			}
			if code := errorCode(t, recorder); code != tt.code {
				t.Fatalf("expected %s, got %s", tt.code, code)
			}
		})
	}
}

func TestHandleLogin(t *testing.T) {
	tc := setupAuthTest(t, 0)
	if _, err := tc.users.Register(context.Background(), users.RegisterInput{
		Email: "bob@example.com", Password: "password1", Name: "Bob",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	recorder := postJSON(t, tc.handlers.HandleLogin, `{"email":"BOB@example.com","password":"password1"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if resp := decodeAuthResponse(t, recorder); resp.Token == "" {
		t.Fatal("expected token")
	}

	recorder = postJSON(t, tc.handlers.HandleLogin, `{"email":"bob@example.com","password":"wrong-password"}`)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
	if code := errorCode(t, recorder); code != "INVALID_CREDENTIALS" {
		t.Fatalf("expected INVALID_CREDENTIALS, got %s", code)
	}

	recorder = postJSON(t, tc.handlers.HandleLogin, `{"email":"","password":""}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty credentials, got %d", recorder.Code)
	}
}

func TestHandleLoginLockout(t *testing.T) {
	tc := setupAuthTest(t, 2)
	if _, err := tc.users.Register(context.Background(), users.RegisterInput{
		Email: "carol@example.com", Password: "password1", Name: "Carol",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	for i := 0; i < 2; i++ {
		recorder := postJSON(t, tc.handlers.HandleLogin, `{"email":"carol@example.com","password":"nope-nope"}`)
		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, recorder.Code)
		}
	}

	recorder := postJSON(t, tc.handlers.HandleLogin, `{"email":"carol@example.com","password":"password1"}`)
	if recorder.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 while locked out, got %d", recorder.Code)
	}
	if got := recorder.Header().Get("Retry-After"); got != "300" {
		t.Fatalf("expected Retry-After 300, got %q", got)
	}

	tc.clock.Advance(5*time.Minute + time.Second)

	recorder = postJSON(t, tc.handlers.HandleLogin, `{"email":"carol@example.com","password":"password1"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 after lockout expiry, got %d", recorder.Code)
	}
}

func TestHandleMe(t *testing.T) {
	tc := setupAuthTest(t, 0)
	u, err := tc.users.Register(context.Background(), users.RegisterInput{
		Email: "dave@example.com", Password: "password1", Name: "Dave",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	recorder := httptest.NewRecorder()
	tc.handlers.HandleMe(recorder, req)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %d", recorder.Code)
	}

	ctx := authz.ContextWithUser(req.Context(), &authz.AuthUser{ID: u.ID, Email: u.Email, Role: string(u.Role)})
	recorder = httptest.NewRecorder()
	tc.handlers.HandleMe(recorder, req.WithContext(ctx))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var got users.User
	if err := json.NewDecoder(recorder.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != u.ID || got.Name != "Dave" {
		t.Fatalf("unexpected user %+v", got)
	}

	ctx = authz.ContextWithUser(req.Context(), &authz.AuthUser{ID: "deleted-user", Role: "PLAYER"})
	recorder = httptest.NewRecorder()
	tc.handlers.HandleMe(recorder, req.WithContext(ctx))
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d", recorder.Code)
	}
}
