// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command panelreq runs the panel access request service: a public site
// for submitting control panel account requests and chatting, plus an
// admin dashboard for reviewing the requests.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/panelreq-go/internal/auth"
	"github.com/olegiv/panelreq-go/internal/config"
	"github.com/olegiv/panelreq-go/internal/geoip"
	"github.com/olegiv/panelreq-go/internal/handler"
	"github.com/olegiv/panelreq-go/internal/middleware"
	"github.com/olegiv/panelreq-go/internal/service"
	"github.com/olegiv/panelreq-go/internal/store"
	"github.com/olegiv/panelreq-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "panelreq - Panel Access Request Service\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANELREQ_SESSION_SECRET  Token signing secret (set in production!)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANELREQ_DB_HOST         MySQL host (default: localhost)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANELREQ_DB_PORT         MySQL port (default: 3306)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANELREQ_DB_USER         MySQL user (default: root)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANELREQ_DB_PASSWORD     MySQL password (default: empty)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANELREQ_DB_NAME         MySQL database (default: pterodactyl_panel)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANELREQ_SERVER_PORT     Server port (default: 3000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANELREQ_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANELREQ_GEOIP_DB_PATH   MaxMind country database path (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("panelreq %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Initialize database
	slog.Info("connecting to database", "host", cfg.DBHost, "name", cfg.DBName)
	db, err := store.Open(cfg.DSN())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	if err := store.Seed(context.Background(), db); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	// GeoIP country lookup is optional; without a database path requests
	// are simply stored without a country.
	geo, err := geoip.New(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("geoip database unavailable, country lookup disabled",
			"path", cfg.GeoIPDBPath, "error", err)
		geo = nil
	}
	if geo.Enabled() {
		defer func() {
			_ = geo.Close()
		}()
	}

	// Services and handlers
	tokens := auth.NewTokenIssuer(cfg.SessionSecret)
	requestService := service.NewRequestService(db, geo)
	chatService := service.NewChatService(db)

	authHandler := handler.NewAuthHandler(db, tokens, !cfg.IsDevelopment())
	requestHandler := handler.NewRequestHandler(requestService)
	chatHandler := handler.NewChatHandler(chatService)
	pageHandler, err := handler.NewPageHandler(tokens, requestService)
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	// Router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	// Pages
	r.Get("/", pageHandler.Home)
	r.Get("/chat", pageHandler.Chat)
	r.Get("/admin", pageHandler.Admin)

	// Public API
	r.Post("/api/login", authHandler.Login)
	r.Post("/api/logout", authHandler.Logout)
	r.Post("/api/panel-request", requestHandler.Create)
	r.Get("/api/chat/messages", chatHandler.List)
	r.Post("/api/chat/messages", chatHandler.Post)

	// Admin API
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(tokens))
		r.Get("/api/admin/panel-requests", requestHandler.List)
		r.Put("/api/admin/panel-requests/{id}", requestHandler.Update)
		r.Get("/api/admin/stats", requestHandler.Stats)
	})

	// Static assets from the embedded filesystem
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("static filesystem: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
