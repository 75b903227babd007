package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// statusRecorder captures the status code and body size a handler wrote.
// It is shared by the tracing, logging and metrics middleware.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int64
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func chiPattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}

// routePattern returns the chi route pattern for r, or "unmatched" so that
// raw paths with ids never become metric labels. Only meaningful after the
// request has been routed.
func routePattern(r *http.Request) string {
	if pattern := chiPattern(r); pattern != "" {
		return pattern
	}
	return "unmatched"
}

// routeOrPath is routePattern for spans and logs, falling back to the raw
// path outside a chi router.
func routeOrPath(r *http.Request) string {
	if pattern := chiPattern(r); pattern != "" {
		return pattern
	}
	return r.URL.Path
}
