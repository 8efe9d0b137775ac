// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/panelreq-go/internal/model"
)

// DBTX is the subset of *sql.DB / *sql.Tx the query layer needs, so the
// same queries run inside and outside transactions.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries provides typed access to the application tables.
type Queries struct {
	db DBTX
}

// New creates a Queries instance backed by db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries instance that runs on the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// CreateUserParams holds the fields for creating a user.
type CreateUserParams struct {
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// CreateUser inserts a new user and returns it with its assigned ID.
func (q *Queries) CreateUser(ctx context.Context, p CreateUserParams) (model.User, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role, created_at) VALUES (?, ?, ?, ?)`,
		p.Username, p.PasswordHash, p.Role, p.CreatedAt,
	)
	if err != nil {
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return model.User{
		ID:           id,
		Username:     p.Username,
		PasswordHash: p.PasswordHash,
		Role:         p.Role,
		CreatedAt:    p.CreatedAt,
	}, nil
}

// GetUserByUsername fetches a user by exact (case-sensitive) username.
// Returns sql.ErrNoRows when absent.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := q.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, created_at FROM users WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

// CountAdmins returns the number of admin-role users.
func (q *Queries) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role = ?`, model.RoleAdmin,
	).Scan(&n)
	return n, err
}

// CreatePanelRequestParams holds the fields for creating a panel request.
type CreatePanelRequestParams struct {
	Username     string
	PasswordHash string
	UserIP       string
	Country      string
	CreatedAt    time.Time
}

// CreatePanelRequest inserts a new pending request and returns it with its
// assigned ID.
func (q *Queries) CreatePanelRequest(ctx context.Context, p CreatePanelRequestParams) (model.PanelRequest, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO panel_requests (username, password_hash, status, user_ip, country, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.Username, p.PasswordHash, model.StatusPending, p.UserIP, p.Country, p.CreatedAt,
	)
	if err != nil {
		return model.PanelRequest{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.PanelRequest{}, err
	}
	return model.PanelRequest{
		ID:           id,
		Username:     p.Username,
		PasswordHash: p.PasswordHash,
		Status:       model.StatusPending,
		UserIP:       p.UserIP,
		Country:      p.Country,
		CreatedAt:    p.CreatedAt,
	}, nil
}

// CountActiveRequestsByUsername counts requests with the given username
// whose status still blocks reuse (pending or approved).
func (q *Queries) CountActiveRequestsByUsername(ctx context.Context, username string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM panel_requests WHERE username = ? AND status IN (?, ?)`,
		username, model.StatusPending, model.StatusApproved,
	).Scan(&n)
	return n, err
}

// ListPanelRequests returns all requests, newest first. The id tiebreak
// keeps ordering stable for rows created within the same second.
func (q *Queries) ListPanelRequests(ctx context.Context) ([]model.PanelRequest, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, username, password_hash, status, user_ip, country, created_at, approved_at, admin_notes
		 FROM panel_requests
		 ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []model.PanelRequest
	for rows.Next() {
		r, err := scanPanelRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// GetPanelRequestByID fetches a single request. Returns sql.ErrNoRows when
// absent.
func (q *Queries) GetPanelRequestByID(ctx context.Context, id int64) (model.PanelRequest, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, status, user_ip, country, created_at, approved_at, admin_notes
		 FROM panel_requests WHERE id = ?`, id)

	var r model.PanelRequest
	var approvedAt sql.NullTime
	var adminNotes sql.NullString
	err := row.Scan(&r.ID, &r.Username, &r.PasswordHash, &r.Status, &r.UserIP, &r.Country,
		&r.CreatedAt, &approvedAt, &adminNotes)
	if err != nil {
		return model.PanelRequest{}, err
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		r.ApprovedAt = &t
	}
	r.AdminNotes = adminNotes.String
	return r, nil
}

// UpdatePanelRequestStatusParams holds the fields for a status update.
type UpdatePanelRequestStatusParams struct {
	ID         int64
	Status     string
	AdminNotes string
	ApprovedAt sql.NullTime
}

// UpdatePanelRequestStatus applies an admin decision. Returns the number of
// rows touched so callers can detect an unknown id.
func (q *Queries) UpdatePanelRequestStatus(ctx context.Context, p UpdatePanelRequestStatusParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE panel_requests SET status = ?, admin_notes = ?, approved_at = ? WHERE id = ?`,
		p.Status, p.AdminNotes, p.ApprovedAt, p.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GetRequestStats returns counts of requests by status in one query.
func (q *Queries) GetRequestStats(ctx context.Context) (model.RequestStats, error) {
	var s model.RequestStats
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(status = 'pending'), 0),
		        COALESCE(SUM(status = 'approved'), 0),
		        COALESCE(SUM(status = 'rejected'), 0)
		 FROM panel_requests`,
	).Scan(&s.Total, &s.Pending, &s.Approved, &s.Rejected)
	return s, err
}

// CreateChatMessageParams holds the fields for creating a chat message.
type CreateChatMessageParams struct {
	UserIP    string
	MaskedIP  string
	Message   string
	CreatedAt time.Time
}

// CreateChatMessage appends a message to the chat log and returns it with
// its assigned ID.
func (q *Queries) CreateChatMessage(ctx context.Context, p CreateChatMessageParams) (model.ChatMessage, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO chat_messages (user_ip, masked_ip, message, created_at) VALUES (?, ?, ?, ?)`,
		p.UserIP, p.MaskedIP, p.Message, p.CreatedAt,
	)
	if err != nil {
		return model.ChatMessage{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ChatMessage{}, err
	}
	return model.ChatMessage{
		ID:        id,
		UserIP:    p.UserIP,
		MaskedIP:  p.MaskedIP,
		Message:   p.Message,
		CreatedAt: p.CreatedAt,
	}, nil
}

// ListRecentChatMessages returns the newest limit messages in descending
// recency order. Callers reverse the slice for display.
func (q *Queries) ListRecentChatMessages(ctx context.Context, limit int64) ([]model.ChatMessage, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, user_ip, masked_ip, message, created_at
		 FROM chat_messages
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserIP, &m.MaskedIP, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// scanPanelRequest scans a panel_requests row from a multi-row result.
func scanPanelRequest(rows *sql.Rows) (model.PanelRequest, error) {
	var r model.PanelRequest
	var approvedAt sql.NullTime
	var adminNotes sql.NullString
	err := rows.Scan(&r.ID, &r.Username, &r.PasswordHash, &r.Status, &r.UserIP, &r.Country,
		&r.CreatedAt, &approvedAt, &adminNotes)
	if err != nil {
		return model.PanelRequest{}, err
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		r.ApprovedAt = &t
	}
	r.AdminNotes = adminNotes.String
	return r, nil
}
