package middleware

import (
	"errors"
	"time"

	"github.com/facturo/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// bodySizeBuckets spans JSON payloads up to logo uploads and PDF downloads.
var bodySizeBuckets = []float64{256, 1 << 10, 4 << 10, 16 << 10, 64 << 10, 256 << 10, 1 << 20, 4 << 20, 16 << 20}

type requestInstruments struct {
	requests     *telemetry.Counter
	duration     *telemetry.Histogram
	requestBody  *telemetry.Histogram
	responseBody *telemetry.Histogram
	inFlight     metric.Int64UpDownCounter
}

func newRequestInstruments(meter metric.Meter) (*requestInstruments, error) {
	var errs []error
	histogram := func(name, desc, unit string, bounds []float64) *telemetry.Histogram {
		h, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{Name: name, Description: desc, Unit: unit, Boundaries: bounds})
		errs = append(errs, err)
		return h
	}

	ri := &requestInstruments{
		duration:     histogram("http.server.request.duration", "Time to serve a request", "s", telemetry.HTTPDurationBuckets),
		requestBody:  histogram("http.server.request.body.size", "Request body size", "By", bodySizeBuckets),
		responseBody: histogram("http.server.response.body.size", "Response body size", "By", bodySizeBuckets),
	}
	var err error
	ri.requests, err = telemetry.NewCounter(meter, "http.server.requests", "Requests served", "{request}")
	errs = append(errs, err)
	ri.inFlight, err = meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Requests being served"), metric.WithUnit("{request}"))
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return ri, nil
}

// RequestMetrics counts and times requests per method and route pattern.
// A nil meter, or one whose instruments cannot be created, disables it.
func RequestMetrics(meter metric.Meter, log *zap.Logger) gin.HandlerFunc {
	if meter == nil {
		return passthrough
	}
	ri, err := newRequestInstruments(meter)
	if err != nil {
		if log != nil {
			log.Warn("HTTP metrics disabled", zap.Error(err))
		}
		return passthrough
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		ri.inFlight.Add(ctx, 1)
		defer ri.inFlight.Add(ctx, -1)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		attrs := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
		}
		ri.requests.Inc(ctx, append(attrs, telemetry.AttrHTTPStatusCode.Int(c.Writer.Status()))...)
		ri.duration.RecordDuration(ctx, time.Since(start), attrs...)
		if n := c.Request.ContentLength; n > 0 {
			ri.requestBody.Record(ctx, float64(n), attrs...)
		}
		if n := c.Writer.Size(); n > 0 {
			ri.responseBody.Record(ctx, float64(n), attrs...)
		}
	}
}

func passthrough(c *gin.Context) {
	c.Next()
}
