package users

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/codr1/Courtly/internal/api/apiutil"
	"github.com/codr1/Courtly/internal/membership"
	"github.com/codr1/Courtly/internal/users"
)

const usersQueryTimeout = 5 * time.Second

type Handlers struct {
	users *users.Service
}

func NewHandlers(userService *users.Service) *Handlers {
	return &Handlers{users: userService}
}

// GET /api/users
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), usersQueryTimeout)
	defer cancel()

	list, err := h.users.List(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, list)
}

type membershipRequest struct {
	Email                    string  `json:"email"`
	MembershipStatus         string  `json:"membershipStatus"`
	MembershipStatusSnake    string  `json:"membership_status"`
	MembershipExpiresAt      *string `json:"membershipExpiresAt"`
	MembershipExpiresAtSnake *string `json:"membership_expires_at"`
}

// PATCH /api/users/membership
func (h *Handlers) HandleUpdateMembership(w http.ResponseWriter, r *http.Request) {
	var req membershipRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	status := membership.Status(strings.ToUpper(strings.TrimSpace(
		apiutil.FirstNonEmpty(req.MembershipStatus, req.MembershipStatusSnake),
	)))
	var expiresAt *time.Time
	if raw := apiutil.FirstNonNil(req.MembershipExpiresAt, req.MembershipExpiresAtSnake); raw != nil {
		parsed, err := apiutil.ParseOptionalTime(*raw, "membershipExpiresAt")
		if err != nil {
			apiutil.WriteError(w, r, err)
			return
		}
		expiresAt = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), usersQueryTimeout)
	defer cancel()

	u, err := h.users.UpdateMembership(ctx, req.Email, status, expiresAt)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, u)
}
