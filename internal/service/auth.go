// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the business rules behind the API: credential
// verification, the panel request ledger, and the chat log. Services trust
// their callers for authorization; the HTTP layer gates admin operations.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/olegiv/panelreq-go/internal/auth"
	"github.com/olegiv/panelreq-go/internal/model"
	"github.com/olegiv/panelreq-go/internal/store"
)

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords, so responses never reveal whether an account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAdminRequired is returned when valid credentials belong to a
	// non-admin account.
	ErrAdminRequired = errors.New("admin access required")
)

// AuthService verifies operator credentials and issues session tokens.
type AuthService struct {
	queries *store.Queries
	tokens  *auth.TokenIssuer
}

// NewAuthService creates an AuthService on top of db and the token issuer.
func NewAuthService(db *sql.DB, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{
		queries: store.New(db),
		tokens:  tokens,
	}
}

// VerifyCredentials checks a username/password pair against the user table.
// Unknown username and wrong password are indistinguishable to the caller.
func (s *AuthService) VerifyCredentials(ctx context.Context, username, password string) (model.User, error) {
	user, err := s.queries.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return model.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// Login verifies credentials and issues a session token. Only admin
// accounts may log in to the panel; valid non-admin credentials yield
// ErrAdminRequired.
func (s *AuthService) Login(ctx context.Context, username, password string) (model.User, string, error) {
	user, err := s.VerifyCredentials(ctx, username, password)
	if err != nil {
		return model.User{}, "", err
	}

	if !user.IsAdmin() {
		return model.User{}, "", ErrAdminRequired
	}

	token, err := s.tokens.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return model.User{}, "", fmt.Errorf("issuing token: %w", err)
	}

	return user, token, nil
}
