package handlers

import (
	"net/http"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type AuthHandler struct {
	AuthUC      *usecase.AuthUseCase
	rateLimiter *RateLimiter
}

func NewAuthHandler(uc *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		AuthUC:      uc,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 logins/min per IP
	}
}

func (h *AuthHandler) Close() {
	h.rateLimiter.Stop()
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input usecase.RegisterInput
	if !decodeJSON(w, r, &input) {
		return
	}

	user, err := h.AuthUC.Register(r.Context(), input)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many login attempts. Please try again later.")
		return
	}

	var input usecase.LoginInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.AuthUC.Login(r.Context(), input)
	middleware.RecordLogin(err == nil)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, caller)
}

// callerFrom answers 401 itself when the route was mounted without authentication.
func callerFrom(w http.ResponseWriter, r *http.Request) (*entity.User, bool) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteError(w, usecase.ErrInvalidToken)
	}
	return caller, ok
}
