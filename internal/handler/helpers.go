// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net"
	"net/http"
)

// clientIP returns the client address for the request without the port.
// RemoteAddr is rewritten by the RealIP middleware when the request came
// through a trusted proxy, so by the time a handler sees it the value is
// already the best available client address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RealIP leaves a bare address with no port.
		return r.RemoteAddr
	}
	return host
}
