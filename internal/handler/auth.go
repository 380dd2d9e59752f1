package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/artistsagainsttaupe/api/internal/domain"
	"github.com/artistsagainsttaupe/api/internal/service"
)

// AuthHandler handles admin login.
type AuthHandler struct {
	auth    *service.AuthService
	limiter *service.LoginLimiter
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, limiter *service.LoginLimiter) *AuthHandler {
	return &AuthHandler{auth: auth, limiter: limiter}
}

// HandleLogin verifies the admin password and returns a session token.
// Attempts are rate limited per client IP.
// POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(clientIP(r)) {
		writeError(w, http.StatusTooManyRequests, "Too many login attempts. Try again shortly.")
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	token, err := h.auth.Login(req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			// Generic message to avoid credential probing.
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("login", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": token})
}
