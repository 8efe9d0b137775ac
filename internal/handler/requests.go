// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/panelreq-go/internal/service"
)

// RequestHandler handles panel request submission and administration.
type RequestHandler struct {
	requests *service.RequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(requests *service.RequestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

type submitRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Create handles the public panel request submission.
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	maskedIP, err := h.requests.Submit(r.Context(),
		req.Username, req.Password, req.ConfirmPassword, clientIP(r))
	switch {
	case errors.Is(err, service.ErrPasswordMismatch):
		writeJSONError(w, http.StatusBadRequest, "Passwords do not match")
		return
	case errors.Is(err, service.ErrPasswordTooShort):
		writeJSONError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	case errors.Is(err, service.ErrUsernameConflict):
		writeJSONError(w, http.StatusBadRequest, "Username already exists in pending or approved requests")
		return
	case err != nil:
		slog.Error("panel request submission failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, map[string]any{
		"message":  "Panel request submitted successfully",
		"maskedIp": maskedIP,
	})
}

// List returns every panel request for the admin dashboard, newest first.
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.requests.ListAll(r.Context())
	if err != nil {
		slog.Error("list panel requests failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, requests)
}

type updateRequest struct {
	Status     string `json:"status"`
	AdminNotes string `json:"admin_notes"`
}

// Update changes the status and notes of a panel request.
func (h *RequestHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	var req updateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err = h.requests.UpdateStatus(r.Context(), id, req.Status, req.AdminNotes)
	switch {
	case errors.Is(err, service.ErrInvalidStatus):
		writeJSONError(w, http.StatusBadRequest, "Invalid status")
		return
	case errors.Is(err, service.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "Panel request not found")
		return
	case err != nil:
		slog.Error("update panel request failed", "error", err, "id", id)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, map[string]any{"message": "Panel request updated successfully"})
}

// Stats returns aggregate request counts for the admin dashboard.
func (h *RequestHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.requests.Stats(r.Context())
	if err != nil {
		slog.Error("request stats failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, stats)
}
