// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/panelreq-go/internal/auth"
	"github.com/olegiv/panelreq-go/internal/middleware"
	"github.com/olegiv/panelreq-go/internal/service"
)

// AuthHandler handles the login and logout endpoints.
type AuthHandler struct {
	authService  *service.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie controls the
// Secure attribute on the session cookie and should be true outside
// development.
func NewAuthHandler(db *sql.DB, tokens *auth.TokenIssuer, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  service.NewAuthService(db, tokens),
		secureCookie: secureCookie,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies admin credentials and issues a session token. The token
// is returned in the body for API clients and also set as an HTTP-only
// cookie so the admin pages work without client-side token handling.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, err := h.authService.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSONError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	case errors.Is(err, service.ErrAdminRequired):
		writeJSONError(w, http.StatusForbidden, "Admin access required")
		return
	case err != nil:
		slog.Error("login failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.TokenTTL / time.Second),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	slog.Info("admin logged in", "username", user.Username, "user_id", user.ID)
	writeJSON(w, map[string]any{
		"token": token,
		"user": map[string]any{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// Logout clears the session cookie. The token itself stays valid until it
// expires; there is no server-side revocation list.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, map[string]any{"message": "Logged out successfully"})
}
