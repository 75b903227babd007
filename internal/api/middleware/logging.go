package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Logger writes one access log line per request and puts a request-scoped
// logger into the context for handlers (zerolog.Ctx). Auth enriches that
// logger with the caller's subject and role, so they appear on the access
// line too. Server errors log at error level and client errors at warn.
func Logger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := r.Context()
			fields := log.With().Str("request_id", GetRequestID(ctx))
			if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
				fields = fields.Str("trace_id", sc.TraceID().String()).Str("span_id", sc.SpanID().String())
			}
			ctx = fields.Logger().WithContext(ctx)
			reqLog := zerolog.Ctx(ctx)

			rec := newStatusRecorder(w)
			r = r.WithContext(ctx)
			next.ServeHTTP(rec, r)

			var event *zerolog.Event
			switch {
			case rec.status >= http.StatusInternalServerError:
				event = reqLog.Error()
			case rec.status >= http.StatusBadRequest:
				event = reqLog.Warn()
			default:
				event = reqLog.Info()
			}

			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", routeOrPath(r)).
				Int("status", rec.status).
				Int64("bytes", rec.written).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Str("user_agent", r.UserAgent()).
				Msg("request completed")
		})
	}
}
