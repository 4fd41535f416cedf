package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders configures Secure. Empty values leave the header out.
type SecurityHeaders struct {
	// HSTS is only sent once TLS terminates in front of the server.
	HSTSMaxAge        time.Duration
	HSTSPreload       bool
	CSP               string
	PermissionsPolicy string
}

// DefaultSecurityHeaders suits the JSON API and the HTML invoice preview,
// which inlines its styles and may load logos over https.
func DefaultSecurityHeaders() SecurityHeaders {
	return SecurityHeaders{
		CSP: "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; " +
			"font-src 'self' data:; frame-ancestors 'none'; base-uri 'self'; form-action 'self'",
		PermissionsPolicy: "camera=(), geolocation=(), microphone=(), payment=(), usb=()",
	}
}

// Secure sets anti-framing, sniffing and referrer headers plus whatever
// h enables.
func Secure(h SecurityHeaders) gin.HandlerFunc {
	headers := [][2]string{
		{"X-Frame-Options", "DENY"},
		{"X-Content-Type-Options", "nosniff"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
	}
	if h.CSP != "" {
		headers = append(headers, [2]string{"Content-Security-Policy", h.CSP})
	}
	if h.PermissionsPolicy != "" {
		headers = append(headers, [2]string{"Permissions-Policy", h.PermissionsPolicy})
	}
	if h.HSTSMaxAge > 0 {
		hsts := "max-age=" + strconv.Itoa(int(h.HSTSMaxAge.Seconds())) + "; includeSubDomains"
		if h.HSTSPreload {
			hsts += "; preload"
		}
		headers = append(headers, [2]string{"Strict-Transport-Security", hsts})
	}

	return func(c *gin.Context) {
		for _, kv := range headers {
			c.Header(kv[0], kv[1])
		}
		c.Next()
	}
}
