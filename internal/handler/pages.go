// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/olegiv/panelreq-go/internal/auth"
	"github.com/olegiv/panelreq-go/internal/middleware"
	"github.com/olegiv/panelreq-go/internal/model"
	"github.com/olegiv/panelreq-go/internal/service"
	"github.com/olegiv/panelreq-go/web"
)

// PageHandler renders the HTML pages from the embedded templates.
type PageHandler struct {
	templates map[string]*template.Template
	tokens    *auth.TokenIssuer
	requests  *service.RequestService
}

// pageData is the root template context for every page.
type pageData struct {
	Title         string
	Page          string
	User          *auth.TokenClaims
	PanelRequests []model.PanelRequest
	Stats         model.RequestStats
}

// NewPageHandler parses the embedded templates. Each page template defines
// a "content" block rendered inside the shared base layout.
func NewPageHandler(tokens *auth.TokenIssuer, requests *service.RequestService) (*PageHandler, error) {
	templates := make(map[string]*template.Template)
	for _, page := range []string{"index", "admin", "chat"} {
		t, err := template.ParseFS(web.Templates, "templates/base.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		templates[page] = t
	}
	return &PageHandler{
		templates: templates,
		tokens:    tokens,
		requests:  requests,
	}, nil
}

func (h *PageHandler) render(w http.ResponseWriter, page string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates[page].ExecuteTemplate(w, "base.html", data); err != nil {
		slog.Error("render page failed", "page", page, "error", err)
	}
}

// Home renders the landing page with the panel request form.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, "index", pageData{
		Title: "Pterodactyl Panel Request",
		Page:  "home",
	})
}

// Chat renders the public chat room page.
func (h *PageHandler) Chat(w http.ResponseWriter, r *http.Request) {
	h.render(w, "chat", pageData{
		Title: "Chat Room",
		Page:  "chat",
	})
}

// Admin renders the admin dashboard when the request carries a valid admin
// session, and the login form otherwise. A failed data load still renders
// the dashboard, just empty; the JSON endpoints report the error properly.
func (h *PageHandler) Admin(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Title: "Admin Login",
		Page:  "admin",
	}

	if token := middleware.TokenFromRequest(r); token != "" {
		if claims, err := h.tokens.Verify(token); err == nil && claims.Role == model.RoleAdmin {
			data.Title = "Admin Panel"
			data.User = claims

			requests, err := h.requests.ListAll(r.Context())
			if err != nil {
				slog.Error("load admin requests failed", "error", err)
			} else {
				data.PanelRequests = requests
			}
			stats, err := h.requests.Stats(r.Context())
			if err != nil {
				slog.Error("load admin stats failed", "error", err)
			} else {
				data.Stats = stats
			}
		}
	}

	h.render(w, "admin", data)
}
