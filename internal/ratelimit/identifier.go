package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// userAgentPrefix is how much of the User-Agent contributes to the identifier.
const userAgentPrefix = 32

// ClientIdentifier derives a coarse, non-reversible client key from the
// network origin and the start of the User-Agent. Clients behind one NAT with
// the same browser share a budget.
func ClientIdentifier(r *http.Request) string {
	ua := r.UserAgent()
	if len(ua) > userAgentPrefix {
		ua = ua[:userAgentPrefix]
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(clientIP(r)+"|"+ua))
}

// clientIP returns the first X-Forwarded-For hop, then X-Real-IP, then the
// connection address without its port.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
