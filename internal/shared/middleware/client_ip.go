package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ClientIPKey = "client_ip"

// ClientIP resolves the caller address once and stores it under "client_ip"
// for the access log and the rate limiter.
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ClientIPKey, extractIPAddress(c.Request))
		c.Next()
	}
}

// extractIPAddress prefers X-Real-IP, then the first X-Forwarded-For hop,
// then RemoteAddr without its port.
func extractIPAddress(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
