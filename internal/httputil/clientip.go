package httputil

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the address of the client that made r, for logging.
// With trustProxy set, the leftmost X-Forwarded-For entry and then
// X-Real-IP are used when they hold a valid IP; otherwise the host part of
// RemoteAddr is returned. Only set trustProxy behind a trusted reverse proxy.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ","); validIP(first) {
			return strings.TrimSpace(first)
		}
		if xri := r.Header.Get("X-Real-IP"); validIP(xri) {
			return strings.TrimSpace(xri)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func validIP(s string) bool {
	return net.ParseIP(strings.TrimSpace(s)) != nil
}
