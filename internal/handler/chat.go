// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/panelreq-go/internal/service"
)

// ChatHandler handles the public chat endpoints.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// List returns the recent chat messages, oldest first. Clients poll this
// endpoint; it is deliberately cheap.
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chat.Recent(r.Context(), service.DefaultRecentLimit)
	if err != nil {
		slog.Error("list chat messages failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, messages)
}

type postMessageRequest struct {
	Message string `json:"message"`
}

// Post stores a chat message attributed to the caller's masked address.
func (h *ChatHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	maskedIP, err := h.chat.Post(r.Context(), req.Message, clientIP(r))
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		writeJSONError(w, http.StatusBadRequest, "Message cannot be empty")
		return
	case err != nil:
		slog.Error("post chat message failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, map[string]any{
		"message":  "Message sent successfully",
		"maskedIp": maskedIP,
	})
}
