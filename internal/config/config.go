// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// DefaultSessionSecret is the out-of-the-box signing secret. It exists so
// the panel starts without any configuration, and must be replaced before
// the panel faces the internet.
const DefaultSessionSecret = "your-secret-key"

// Config holds the application configuration loaded from environment variables.
// Every variable has a default so a bare `panelreq` starts against a local
// MySQL instance.
type Config struct {
	DBHost     string `env:"PANELREQ_DB_HOST" envDefault:"localhost"`
	DBPort     int    `env:"PANELREQ_DB_PORT" envDefault:"3306"`
	DBUser     string `env:"PANELREQ_DB_USER" envDefault:"root"`
	DBPassword string `env:"PANELREQ_DB_PASSWORD" envDefault:""`
	DBName     string `env:"PANELREQ_DB_NAME" envDefault:"pterodactyl_panel"`

	SessionSecret string `env:"PANELREQ_SESSION_SECRET" envDefault:"your-secret-key"`

	ServerHost string `env:"PANELREQ_SERVER_HOST" envDefault:""`
	ServerPort int    `env:"PANELREQ_SERVER_PORT" envDefault:"3000"`
	Env        string `env:"PANELREQ_ENV" envDefault:"development"`
	LogLevel   string `env:"PANELREQ_LOG_LEVEL" envDefault:"info"`

	// GeoIP configuration. Empty path disables country lookups.
	GeoIPDBPath string `env:"PANELREQ_GEOIP_DB_PATH"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the listen address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// DSN returns the MySQL data source name for the configured database.
// parseTime is required so DATETIME columns scan into time.Time.
func (c Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// GeoIPEnabled returns true if a GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// The default secret keeps first-run friction low but every token it
	// signs is forgeable by anyone who has read this source.
	if cfg.SessionSecret == DefaultSessionSecret {
		slog.Warn("PANELREQ_SESSION_SECRET is the built-in default; " +
			"generate a real secret with: openssl rand -base64 32")
	}

	return cfg, nil
}
