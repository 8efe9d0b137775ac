// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/mattn/go-sqlite3"

	"github.com/olegiv/panelreq-go/internal/auth"
	"github.com/olegiv/panelreq-go/internal/middleware"
	"github.com/olegiv/panelreq-go/internal/service"
	"github.com/olegiv/panelreq-go/internal/store"
)

const testSecret = "handler-test-secret"

// testDB creates an in-memory SQLite database with the application schema.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE panel_requests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			user_ip TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			approved_at DATETIME,
			admin_notes TEXT
		);

		CREATE TABLE chat_messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_ip TEXT NOT NULL,
			masked_ip TEXT NOT NULL,
			message TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// createTestUser inserts a user with a real argon2id hash and returns its id.
func createTestUser(t *testing.T, db *sql.DB, username, password, role string) int64 {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user.ID
}

// testRouter wires the full route table against an in-memory database,
// mirroring the production router closely enough for end-to-end handler
// tests.
func testRouter(t *testing.T, db *sql.DB) chi.Router {
	t.Helper()

	tokens := auth.NewTokenIssuer(testSecret)
	requestService := service.NewRequestService(db, nil)

	authHandler := NewAuthHandler(db, tokens, false)
	requestHandler := NewRequestHandler(requestService)
	chatHandler := NewChatHandler(service.NewChatService(db))

	r := chi.NewRouter()
	r.Post("/api/login", authHandler.Login)
	r.Post("/api/logout", authHandler.Logout)
	r.Post("/api/panel-request", requestHandler.Create)
	r.Get("/api/chat/messages", chatHandler.List)
	r.Post("/api/chat/messages", chatHandler.Post)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(tokens))
		r.Get("/api/admin/panel-requests", requestHandler.List)
		r.Put("/api/admin/panel-requests/{id}", requestHandler.Update)
		r.Get("/api/admin/stats", requestHandler.Stats)
	})

	return r
}

// adminToken logs a user in through the token issuer used by testRouter.
func adminToken(t *testing.T, db *sql.DB, username, role string) string {
	t.Helper()

	id := createTestUser(t, db, username, "secret123", role)
	token, err := auth.NewTokenIssuer(testSecret).Issue(id, username, role)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return token
}

// bearer sets the Authorization header on a request.
func bearer(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}
