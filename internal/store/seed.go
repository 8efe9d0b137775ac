package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/panelreq-go/internal/auth"
	"github.com/olegiv/panelreq-go/internal/model"
)

// Default admin credentials. Well known on purpose so a fresh install is
// reachable; the password must be changed before the panel faces the
// internet.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// Seed creates the default admin account if no admin-role user exists yet.
// Safe to run on every startup.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	admins, err := queries.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("counting admin users: %w", err)
	}
	if admins > 0 {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Username:     DefaultAdminUsername,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Warn("created default admin user with well-known credentials; change the password immediately",
		"id", user.ID,
		"username", user.Username,
	)

	return nil
}
