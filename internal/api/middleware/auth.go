package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/aidlink/aidlink/internal/api/models"
	"github.com/aidlink/aidlink/internal/auth"
)

// TokenValidator resolves a bearer token to a principal.
type TokenValidator interface {
	ValidateAccessToken(token string) (*auth.Principal, error)
}

// principalKey is the context key for the authenticated principal.
type principalKey struct{}

// Auth creates authentication middleware that validates JWT bearer tokens.
func Auth(validator TokenValidator) func(http.Handler) http.Handler {
	return authenticate(validator, true)
}

// OptionalAuth attaches a principal when a bearer token is present and lets
// anonymous requests through. A present but invalid token is still rejected.
func OptionalAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return authenticate(validator, false)
}

func authenticate(validator TokenValidator, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				if !required {
					next.ServeHTTP(w, r)
					return
				}
				writeUnauthorized(w, r, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if len(authHeader) < len(bearerPrefix) ||
				!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
				writeUnauthorized(w, r, "invalid authorization header format")
				return
			}

			tokenString := authHeader[len(bearerPrefix):]
			if tokenString == "" {
				writeUnauthorized(w, r, "missing bearer token")
				return
			}

			principal, err := validator.ValidateAccessToken(tokenString)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrAccessTokenExpired):
					writeUnauthorized(w, r, "access token has expired")
				case errors.Is(err, auth.ErrInvalidAccessToken):
					writeUnauthorized(w, r, "invalid access token")
				default:
					writeUnauthorized(w, r, "authentication failed")
				}
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			annotate(ctx, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose principal holds none of roles. It must
// run after Auth.
func RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := GetPrincipal(r.Context())
			if principal == nil {
				writeUnauthorized(w, r, "authentication required")
				return
			}
			for _, role := range roles {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			problem := models.NewForbidden(GetRequestID(r.Context()), "role "+string(principal.Role)+" may not perform this operation")
			problem.Instance = r.URL.Path
			problem.Write(w)
		})
	}
}

// annotate tags the request logger and span with the principal. The
// logger is shared with the Logging middleware, so the access log line
// carries the subject too.
func annotate(ctx context.Context, p *auth.Principal) {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("subject", p.Subject).Str("role", string(p.Role))
		})
	}
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("enduser.id", p.Subject),
		attribute.String("enduser.role", string(p.Role)),
	)
}

// writeUnauthorized lives here rather than in package response, which
// imports middleware.
func writeUnauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	problem := models.NewUnauthorized(GetRequestID(r.Context()), detail)
	problem.Instance = r.URL.Path
	problem.Write(w)
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// GetPrincipal returns the authenticated principal, or nil.
func GetPrincipal(ctx context.Context) *auth.Principal {
	if p, ok := ctx.Value(principalKey{}).(*auth.Principal); ok {
		return p
	}
	return nil
}

// GetSubject returns the authenticated subject, or an empty string.
func GetSubject(ctx context.Context) string {
	if p := GetPrincipal(ctx); p != nil {
		return p.Subject
	}
	return ""
}
