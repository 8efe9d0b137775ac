// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/olegiv/panelreq-go/internal/auth"
	"github.com/olegiv/panelreq-go/internal/model"
)

func TestVerifyCredentials(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	createTestUser(t, db, "admin", "admin123", model.RoleAdmin)

	svc := NewAuthService(db, auth.NewTokenIssuer("test-secret"))

	user, err := svc.VerifyCredentials(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("VerifyCredentials: %v", err)
	}
	if user.Username != "admin" || !user.IsAdmin() {
		t.Errorf("user = %+v, want admin account", user)
	}
}

func TestVerifyCredentialsFailuresAreUniform(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	createTestUser(t, db, "admin", "admin123", model.RoleAdmin)

	svc := NewAuthService(db, auth.NewTokenIssuer("test-secret"))

	// Wrong password and unknown username must be the same error, so
	// responses cannot be used to probe which accounts exist.
	_, wrongPass := svc.VerifyCredentials(ctx, "admin", "nope")
	_, unknownUser := svc.VerifyCredentials(ctx, "ghost", "nope")

	if !errors.Is(wrongPass, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", wrongPass)
	}
	if !errors.Is(unknownUser, ErrInvalidCredentials) {
		t.Errorf("unknown user error = %v, want ErrInvalidCredentials", unknownUser)
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	adminID := createTestUser(t, db, "admin", "admin123", model.RoleAdmin)

	issuer := auth.NewTokenIssuer("test-secret")
	svc := NewAuthService(db, issuer)

	user, token, err := svc.Login(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != adminID {
		t.Errorf("user.ID = %d, want %d", user.ID, adminID)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != adminID || claims.Username != "admin" || claims.Role != model.RoleAdmin {
		t.Errorf("claims = %+v, want the admin identity", claims)
	}
}

func TestLoginRejectsNonAdmin(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	createTestUser(t, db, "visitor", "hunter22", model.RoleUser)

	svc := NewAuthService(db, auth.NewTokenIssuer("test-secret"))

	_, _, err := svc.Login(ctx, "visitor", "hunter22")
	if !errors.Is(err, ErrAdminRequired) {
		t.Errorf("Login = %v, want ErrAdminRequired", err)
	}
}
