package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtly/internal/api/apiutil"
	"github.com/codr1/Courtly/internal/apperr"
	"github.com/codr1/Courtly/internal/ratelimit"
	"github.com/codr1/Courtly/internal/users"
)

const authQueryTimeout = 5 * time.Second

type Handlers struct {
	users      *users.Service
	tokens     *Tokens
	limiter    *ratelimit.Limiter
	trustProxy bool
}

// NewHandlers wires the auth endpoints. A nil limiter disables login lockout.
func NewHandlers(userService *users.Service, tokens *Tokens, limiter *ratelimit.Limiter, trustProxy bool) *Handlers {
	return &Handlers{users: userService, tokens: tokens, limiter: limiter, trustProxy: trustProxy}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      users.User `json:"user"`
}

// POST /api/auth/register
func (h *Handlers) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), authQueryTimeout)
	defer cancel()

	u, err := h.users.Register(ctx, users.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, u)
}

// POST /api/auth/login
func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	var req loginRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		apiutil.WriteError(w, r, apperr.ErrInvalidInput.WithMessage("email and password are required"))
		return
	}

	ip := ratelimit.GetClientIP(r, h.trustProxy)
	if h.limiter != nil {
		if result := h.limiter.Check(req.Email, ip); !result.Allowed {
			ratelimit.LogRateLimitExceeded("login", req.Email, ip, result.Reason)
			apiutil.SetRetryAfter(w, result.RetryAfter)
			apiutil.WriteError(w, r, apperr.ErrRateLimited.WithMessage("Too many failed login attempts, please try again later"))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), authQueryTimeout)
	defer cancel()

	u, err := h.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if h.limiter != nil && errors.Is(err, apperr.ErrInvalidCredentials) {
			if h.limiter.RecordFailure(req.Email, ip) {
				logger.Warn().
					Str("email", ratelimit.SanitizeIdentifier(req.Email)).
					Str("ip", ip).
					Msg("Login locked out after repeated failures")
			}
		}
		apiutil.WriteError(w, r, err)
		return
	}
	if h.limiter != nil {
		h.limiter.Reset(req.Email, ip)
	}

	h.respondWithToken(w, r, http.StatusOK, u)
}

// GET /api/auth/me
func (h *Handlers) HandleMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), authQueryTimeout)
	defer cancel()

	u, err := h.users.Get(ctx, caller.ID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, u)
}

func (h *Handlers) respondWithToken(w http.ResponseWriter, r *http.Request, status int, u users.User) {
	token, expiresAt, err := h.tokens.Issue(u)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, status, authResponse{Token: token, ExpiresAt: expiresAt, User: u})
}
