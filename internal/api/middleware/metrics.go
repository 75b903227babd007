package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/aidlink/aidlink/internal/api/middleware"

// Metrics holds the OpenTelemetry HTTP server instruments. Domain counters
// live in internal/metrics and are exported to Prometheus instead.
type Metrics struct {
	duration     metric.Float64Histogram
	requests     metric.Int64Counter
	inFlight     metric.Int64UpDownCounter
	responseSize metric.Int64Histogram
}

// NewMetrics creates the instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}

	var err, errs error
	m.duration, err = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Duration of HTTP server requests"),
		metric.WithUnit("s"))
	errs = errors.Join(errs, err)

	m.requests, err = meter.Int64Counter("http.server.request.total",
		metric.WithDescription("HTTP server requests by route and status"),
		metric.WithUnit("{request}"))
	errs = errors.Join(errs, err)

	m.inFlight, err = meter.Int64UpDownCounter("http.server.requests_in_flight",
		metric.WithDescription("HTTP requests currently being served"),
		metric.WithUnit("{request}"))
	errs = errors.Join(errs, err)

	m.responseSize, err = meter.Int64Histogram("http.server.response.size",
		metric.WithDescription("Size of HTTP response bodies"),
		metric.WithUnit("By"))
	errs = errors.Join(errs, err)

	if errs != nil {
		return nil, errs
	}
	return m, nil
}

// Middleware records the instruments for each request. Requests are
// labelled by chi route pattern, never by raw path.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			start := time.Now()

			method := metric.WithAttributes(attribute.String("http.method", r.Method))
			m.inFlight.Add(ctx, 1, method)
			defer m.inFlight.Add(ctx, -1, method)

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			attrs := metric.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", routePattern(r)),
				attribute.String("http.status_code", strconv.Itoa(rec.status)),
				attribute.Bool("error", rec.status >= http.StatusBadRequest),
			)
			m.duration.Record(ctx, time.Since(start).Seconds(), attrs)
			m.requests.Add(ctx, 1, attrs)
			m.responseSize.Record(ctx, rec.written, attrs)
		})
	}
}
