package handler

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
)

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// clientIP strips the port from RemoteAddr. The router's RealIP middleware
// has already applied forwarding headers.
func clientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
