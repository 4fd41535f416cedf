package middleware

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/facturo/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SwaggerConfig controls access to the API documentation
type SwaggerConfig struct {
	Enabled     bool
	RequireAuth bool     // run the auth middleware before serving docs
	AllowedIPs  []string // single addresses or CIDR prefixes, empty allows all
}

// SwaggerProtection guards the /swagger routes.
//
// A disabled endpoint answers 404 so its existence is not advertised. The IP
// allowlist is checked before authentication, and both may be combined.
// Entries that do not parse are ignored.
func SwaggerProtection(cfg SwaggerConfig, auth gin.HandlerFunc) gin.HandlerFunc {
	prefixes := parseAllowedIPs(cfg.AllowedIPs)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			abortWithError(c, http.StatusNotFound, dto.ErrCodeNotFound, "API documentation is not available")
			return
		}

		if len(cfg.AllowedIPs) > 0 && !ipAllowed(c.ClientIP(), prefixes) {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Access to API documentation is restricted")
			return
		}

		if cfg.RequireAuth && auth != nil {
			auth(c)
			if c.IsAborted() {
				return
			}
		}

		c.Next()
	}
}

func parseAllowedIPs(entries []string) []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			if p, err := netip.ParsePrefix(entry); err == nil {
				prefixes = append(prefixes, p.Masked())
			}
			continue
		}
		if addr, err := netip.ParseAddr(entry); err == nil {
			prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
		}
	}
	return prefixes
}

func ipAllowed(clientIP string, prefixes []netip.Prefix) bool {
	addr, err := netip.ParseAddr(clientIP)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
