package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS admits browser calls from origins. "*" admits any origin but never
// with credentials; an empty list refuses every cross-origin request.
// Headers are added to the defaults the SPA and the SSE stream need.
func CORS(origins, methods, headers []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  methods,
		AllowHeaders:  mergeHeaders(headers, "Content-Type", "Authorization", "X-Request-ID", "Cache-Control", "Last-Event-ID"),
		ExposeHeaders: []string{RequestIDKey, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowMethods) == 0 {
		cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}

	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		allowed := make(map[string]bool, len(origins))
		for _, o := range origins {
			allowed[o] = true
		}
		cfg.AllowOriginFunc = func(origin string) bool { return allowed[origin] }
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

func mergeHeaders(headers []string, required ...string) []string {
	out := slices.Clone(headers)
	for _, h := range required {
		if !slices.Contains(out, h) {
			out = append(out, h)
		}
	}
	return out
}
