// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func postChatMessage(t *testing.T, router http.Handler, message, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/messages", strings.NewReader(string(payload)))
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(rec, req)
	return rec
}

func TestPostChatMessage(t *testing.T) {
	db := testDB(t)
	router := testRouter(t, db)

	rec := postChatMessage(t, router, "hello everyone", "203.0.113.42:40000")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["message"] != "Message sent successfully" {
		t.Errorf("message = %q, want confirmation", body["message"])
	}
	if body["maskedIp"] != "203.0.***.***" {
		t.Errorf("maskedIp = %q, want masked form", body["maskedIp"])
	}
}

func TestPostChatMessageEmpty(t *testing.T) {
	db := testDB(t)
	router := testRouter(t, db)

	for _, message := range []string{"", "   "} {
		rec := postChatMessage(t, router, message, "203.0.113.42:40000")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("message %q: status = %d, want 400", message, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Message cannot be empty") {
			t.Errorf("message %q: body = %s", message, rec.Body.String())
		}
	}
}

func TestListChatMessages(t *testing.T) {
	db := testDB(t)
	router := testRouter(t, db)

	for i := 0; i < 3; i++ {
		rec := postChatMessage(t, router, fmt.Sprintf("message %d", i), "203.0.113.42:40000")
		if rec.Code != http.StatusOK {
			t.Fatalf("post %d: status = %d", i, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat/messages", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var messages []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &messages); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("len = %d, want 3", len(messages))
	}
	// Oldest first for chronological display.
	for i, m := range messages {
		want := fmt.Sprintf("message %d", i)
		if m["message"] != want {
			t.Errorf("messages[%d] = %q, want %q", i, m["message"], want)
		}
		if m["masked_ip"] != "203.0.***.***" {
			t.Errorf("messages[%d].masked_ip = %q, want masked form", i, m["masked_ip"])
		}
	}
	if strings.Contains(rec.Body.String(), "203.0.113.42") {
		t.Error("raw address must never be serialized")
	}
}
