// Package middleware provides the gin middleware of the HTTP API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing starts a server span per request, named after the route pattern
// (e.g. "/api/v1/invoices/:id").
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passthrough
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// SpanEnricher adds request_id and user_id to the current span. Place it
// after Auth so the principal is known.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpan(c, span)
		}
		c.Next()
	}
}

func enrichSpan(c *gin.Context, span trace.Span) {
	if requestID := GetRequestID(c); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	if p := GetPrincipal(c); !p.IsZero() {
		span.SetAttributes(
			attribute.String("user_id", p.UserID.String()),
			attribute.Bool("user.admin", p.IsAdmin()),
		)
	}
}

// SpanErrorMarker marks the span as failed for 4xx and 5xx responses.
// Place it after Tracing.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}
		if text := http.StatusText(status); text != "" {
			span.SetStatus(codes.Error, text)
		} else {
			span.SetStatus(codes.Error, "HTTP error")
		}
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}
