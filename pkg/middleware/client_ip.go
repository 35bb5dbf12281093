package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP extracts the client IP from the request, trusting proxy headers.
// The result is caller controlled: use it for display only, never as a key.
func ClientIP(r *http.Request) string {
	// Check X-Forwarded-For header first (for proxies/load balancers)
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		// X-Forwarded-For can contain multiple IPs, take the first one
		ips := strings.Split(xff, ",")
		if ip := strings.TrimSpace(ips[0]); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	return RemoteIP(r)
}

// RemoteIP returns the host part of the connection peer address
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr might not have a port
		return r.RemoteAddr
	}
	return host
}

// TrustedClientIP returns the address the outermost of trustedHops proxies
// saw. Each trusted proxy appends its peer to X-Forwarded-For, so only the
// rightmost trustedHops entries are reliable; anything left of them was
// written by the client. With no trusted hops, or a header shorter than
// expected, the connection peer is used.
func TrustedClientIP(r *http.Request, trustedHops int) string {
	if trustedHops <= 0 {
		return RemoteIP(r)
	}

	var hops []string
	for _, v := range r.Header.Values("X-Forwarded-For") {
		for _, ip := range strings.Split(v, ",") {
			hops = append(hops, strings.TrimSpace(ip))
		}
	}
	if len(hops) < trustedHops {
		return RemoteIP(r)
	}
	if ip := hops[len(hops)-trustedHops]; ip != "" {
		return ip
	}
	return RemoteIP(r)
}
