// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models shared across the application:
// users, panel requests, and chat messages.
package model

import "time"

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Panel request statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ValidStatus reports whether s is one of the known panel request statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// User represents an operator account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PanelRequest is a visitor's request for an account on the external
// control panel. The raw submitter IP is retained for audit but is never
// serialized; clients only ever see the masked form.
type PanelRequest struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Status       string     `json:"status"`
	UserIP       string     `json:"-"`
	MaskedIP     string     `json:"masked_ip"`
	Country      string     `json:"country,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ApprovedAt   *time.Time `json:"approved_at"`
	AdminNotes   string     `json:"admin_notes"`
}

// IsActive returns true while the request blocks reuse of its username,
// i.e. while it is pending or approved.
func (r *PanelRequest) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusApproved
}

// ChatMessage is an immutable chat room entry. Masking is applied at
// write time; the raw IP stays server-side.
type ChatMessage struct {
	ID        int64     `json:"id"`
	UserIP    string    `json:"-"`
	MaskedIP  string    `json:"masked_ip"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// RequestStats summarizes panel requests by status for the admin dashboard.
type RequestStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}
