// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for session token
// authentication and request context handling.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/olegiv/panelreq-go/internal/auth"
	"github.com/olegiv/panelreq-go/internal/model"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyClaims holds the verified token claims for a request.
const ContextKeyClaims ContextKey = "claims"

// TokenCookieName is the cookie that carries the session token for page
// navigation. API calls may use an Authorization bearer header instead;
// both carry the same token.
const TokenCookieName = "token"

// TokenFromRequest extracts the session token from the Authorization
// header (preferred) or the session cookie. Returns "" when neither is
// present.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	if c, err := r.Cookie(TokenCookieName); err == nil {
		return c.Value
	}
	return ""
}

// RequireAdmin creates middleware that gates a route behind a valid admin
// session token: 401 when no token is presented or the token fails
// verification, 403 when a valid token carries a non-admin role.
func RequireAdmin(tokens *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				writeAuthError(w, http.StatusUnauthorized, "Access token required")
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					writeAuthError(w, http.StatusUnauthorized, "Token expired")
					return
				}
				writeAuthError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			if claims.Role != model.RoleAdmin {
				writeAuthError(w, http.StatusForbidden, "Admin access required")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims retrieves the verified token claims from the request context.
// Returns nil outside RequireAdmin-protected routes.
func GetClaims(r *http.Request) *auth.TokenClaims {
	claims, ok := r.Context().Value(ContextKeyClaims).(*auth.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}

// writeAuthError writes a JSON error without pulling in the handler package.
func writeAuthError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": message})
}
