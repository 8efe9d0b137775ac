// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides small shared helpers, currently IP address masking
// for display to non-privileged viewers.
package util

import "strings"

// maskedUnknown is returned when no address is available at all.
const maskedUnknown = "***.***.***.***"

// maskPrefixLen is how many leading characters of a non-dotted-quad
// address survive masking.
const maskPrefixLen = 8

// MaskIP produces an irreversible partial representation of a network
// address. Dotted-quad addresses keep their first two octets; anything
// else (IPv6, hostnames) keeps at most its first 8 characters. The raw
// address cannot be recovered from the masked form.
func MaskIP(ip string) string {
	if ip == "" {
		return maskedUnknown
	}

	parts := strings.Split(ip, ".")
	if len(parts) == 4 {
		return parts[0] + "." + parts[1] + ".***.***"
	}

	if len(ip) > maskPrefixLen {
		return ip[:maskPrefixLen] + "***"
	}
	return ip
}
