package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/aidlink/aidlink/internal/api/models"
)

// Recovery converts a handler panic into a 500 problem. A panic with
// http.ErrAbortHandler propagates so the server aborts the connection.
func Recovery(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if err, ok := rvr.(error); ok && errors.Is(err, http.ErrAbortHandler) {
						panic(rvr)
					}
					handlePanic(w, r, log, rvr)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func handlePanic(w http.ResponseWriter, r *http.Request, fallback zerolog.Logger, rvr interface{}) {
	ctx := r.Context()
	log := zerolog.Ctx(ctx)
	if log.GetLevel() == zerolog.Disabled {
		log = &fallback
	}

	traceID := GetRequestID(ctx)
	log.Error().
		Str("request_id", traceID).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Interface("panic", rvr).
		Bytes("stack", debug.Stack()).
		Msg("panic recovered")

	problem := models.NewInternalError(traceID, "an unexpected error occurred")
	problem.Instance = r.URL.Path
	problem.Write(w)
}
