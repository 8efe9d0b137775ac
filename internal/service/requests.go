// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/panelreq-go/internal/auth"
	"github.com/olegiv/panelreq-go/internal/geoip"
	"github.com/olegiv/panelreq-go/internal/model"
	"github.com/olegiv/panelreq-go/internal/store"
	"github.com/olegiv/panelreq-go/internal/util"
)

// MinPasswordLength is the minimum accepted password length for panel
// requests. The browser form enforces the same rule, but the client is
// untrusted so the check is repeated here.
const MinPasswordLength = 6

var (
	// ErrPasswordMismatch is returned when password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrPasswordTooShort is returned for passwords under MinPasswordLength.
	ErrPasswordTooShort = errors.New("password too short")
	// ErrUsernameConflict is returned when a pending or approved request
	// already claims the username. Rejected requests do not block reuse.
	ErrUsernameConflict = errors.New("username already requested")
	// ErrNotFound is returned for an unknown request id.
	ErrNotFound = errors.New("panel request not found")
	// ErrInvalidStatus is returned for a status outside the known enum.
	ErrInvalidStatus = errors.New("invalid status")
)

// RequestService is the ledger of panel access requests.
type RequestService struct {
	db      *sql.DB
	queries *store.Queries
	geo     *geoip.Lookup
}

// NewRequestService creates a RequestService. geo may be nil or disabled;
// requests are then stored without a country code.
func NewRequestService(db *sql.DB, geo *geoip.Lookup) *RequestService {
	return &RequestService{
		db:      db,
		queries: store.New(db),
		geo:     geo,
	}
}

// Submit validates and records a new panel request. Validation order:
// confirmation mismatch, then length, then username conflict. The conflict
// check and insert run in one transaction so two concurrent submissions of
// the same username cannot both slip through.
// On success the masked source IP is returned; the raw IP stays in the store.
func (s *RequestService) Submit(ctx context.Context, username, password, confirmPassword, sourceIP string) (string, error) {
	if password != confirmPassword {
		return "", ErrPasswordMismatch
	}
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	maskedIP := util.MaskIP(sourceIP)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)

	active, err := qtx.CountActiveRequestsByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("checking for active requests: %w", err)
	}
	if active > 0 {
		return "", ErrUsernameConflict
	}

	if _, err := qtx.CreatePanelRequest(ctx, store.CreatePanelRequestParams{
		Username:     username,
		PasswordHash: passwordHash,
		UserIP:       sourceIP,
		Country:      s.geo.Country(sourceIP),
		CreatedAt:    time.Now(),
	}); err != nil {
		return "", fmt.Errorf("creating panel request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing panel request: %w", err)
	}

	return maskedIP, nil
}

// ListAll returns every request, newest first, with the masked IP derived
// from the stored raw address. The raw IP never leaves the store layer
// except through this service, which only hands out the masked form.
func (s *RequestService) ListAll(ctx context.Context) ([]model.PanelRequest, error) {
	requests, err := s.queries.ListPanelRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing panel requests: %w", err)
	}
	for i := range requests {
		requests[i].MaskedIP = util.MaskIP(requests[i].UserIP)
	}
	return requests, nil
}

// Stats summarizes the ledger by status for the admin dashboard.
func (s *RequestService) Stats(ctx context.Context) (model.RequestStats, error) {
	stats, err := s.queries.GetRequestStats(ctx)
	if err != nil {
		return model.RequestStats{}, fmt.Errorf("computing request stats: %w", err)
	}
	return stats, nil
}

// UpdateStatus applies an admin decision to a request. approved_at is set
// whenever the new status is not pending and cleared otherwise. Transitions
// are not required to be monotonic: an approved request may be moved back
// to pending.
func (s *RequestService) UpdateStatus(ctx context.Context, id int64, status, adminNotes string) error {
	if !model.ValidStatus(status) {
		return ErrInvalidStatus
	}

	approvedAt := sql.NullTime{}
	if status != model.StatusPending {
		approvedAt = sql.NullTime{Time: time.Now(), Valid: true}
	}

	affected, err := s.queries.UpdatePanelRequestStatus(ctx, store.UpdatePanelRequestStatusParams{
		ID:         id,
		Status:     status,
		AdminNotes: adminNotes,
		ApprovedAt: approvedAt,
	})
	if err != nil {
		return fmt.Errorf("updating panel request: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
