package middleware

import (
	"strings"

	"github.com/facturo/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxRequestIDLength bounds client supplied request IDs
const maxRequestIDLength = 128

// RequestID tags every request with an ID, echoed in the X-Request-ID
// response header. A printable ID sent by the client is kept.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := cleanRequestID(c.GetHeader(RequestIDKey))
		if id == "" {
			id = strings.ReplaceAll(uuid.NewString(), "-", "")
		}
		c.Set(logger.GinRequestIDKey, id)
		c.Header(RequestIDKey, id)
		c.Next()
	}
}

// GetRequestID returns the ID assigned by RequestID, or the cleaned request
// header on routes it did not run for.
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(logger.GinRequestIDKey); id != "" {
		return id
	}
	return cleanRequestID(c.GetHeader(RequestIDKey))
}

// cleanRequestID truncates id and rejects it when it holds spaces or
// non-ASCII characters, which would break log lines and headers.
func cleanRequestID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) > maxRequestIDLength {
		id = id[:maxRequestIDLength]
	}
	if strings.IndexFunc(id, func(r rune) bool { return r <= ' ' || r > '~' }) >= 0 {
		return ""
	}
	return id
}
