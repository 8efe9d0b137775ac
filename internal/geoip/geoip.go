// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip provides IP-to-country lookup using a MaxMind
// GeoLite2-Country database. Lookups degrade gracefully: with no database
// configured every lookup returns an empty country code.
package geoip

import (
	"fmt"
	"net"

	"github.com/oschwald/maxminddb-golang"
)

// Lookup resolves IP addresses to ISO country codes for audit context.
type Lookup struct {
	db *maxminddb.Reader
}

// geoRecord matches the GeoLite2-Country database structure.
type geoRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// New opens the MaxMind database at dbPath. An empty path returns a
// disabled Lookup rather than an error.
func New(dbPath string) (*Lookup, error) {
	if dbPath == "" {
		return &Lookup{}, nil
	}

	db, err := maxminddb.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening geoip database: %w", err)
	}
	return &Lookup{db: db}, nil
}

// Enabled reports whether a database is loaded.
func (g *Lookup) Enabled() bool {
	return g != nil && g.db != nil
}

// Country returns the ISO 3166-1 country code for the given address, or
// an empty string when disabled, unparseable, or not found.
func (g *Lookup) Country(ipStr string) string {
	if !g.Enabled() {
		return ""
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return ""
	}

	var record geoRecord
	if err := g.db.Lookup(ip, &record); err != nil {
		return ""
	}
	return record.Country.ISOCode
}

// Close releases the underlying database.
func (g *Lookup) Close() error {
	if g == nil || g.db == nil {
		return nil
	}
	return g.db.Close()
}
