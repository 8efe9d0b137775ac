// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/panelreq-go/internal/model"
	"github.com/olegiv/panelreq-go/internal/store"
	"github.com/olegiv/panelreq-go/internal/util"
)

// DefaultRecentLimit is how many messages a chat poll returns.
const DefaultRecentLimit = 50

// ErrEmptyMessage is returned when a message is empty after trimming.
var ErrEmptyMessage = errors.New("message cannot be empty")

// ChatService is the append-only chat log. Messages are trimmed on write
// and never mutated or deleted afterwards. There is no server-side maximum
// length; the browser client caps input at 500 characters but the server
// accepts longer.
type ChatService struct {
	queries *store.Queries
}

// NewChatService creates a ChatService on top of db.
func NewChatService(db *sql.DB) *ChatService {
	return &ChatService{queries: store.New(db)}
}

// Post appends a message, masking the source IP at write time. Both the
// raw and masked address are persisted; only the masked form is returned.
func (s *ChatService) Post(ctx context.Context, message, sourceIP string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	maskedIP := util.MaskIP(sourceIP)

	if _, err := s.queries.CreateChatMessage(ctx, store.CreateChatMessageParams{
		UserIP:    sourceIP,
		MaskedIP:  maskedIP,
		Message:   message,
		CreatedAt: time.Now(),
	}); err != nil {
		return "", fmt.Errorf("creating chat message: %w", err)
	}

	return maskedIP, nil
}

// Recent returns the newest limit messages in oldest-first display order.
// A non-positive limit selects DefaultRecentLimit.
func (s *ChatService) Recent(ctx context.Context, limit int64) ([]model.ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	messages, err := s.queries.ListRecentChatMessages(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing chat messages: %w", err)
	}

	// Fetched newest-first; reverse for display.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
