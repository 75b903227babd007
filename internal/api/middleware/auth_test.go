package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidlink/aidlink/internal/api/middleware"
	"github.com/aidlink/aidlink/internal/auth"
)

func TestAuth_MissingAuthorizationHeader(t *testing.T) {
	authService := createTestAuthService(t)
	authMiddleware := middleware.Auth(authService)

	handler := authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing authorization header")
}

func TestAuth_InvalidAuthorizationFormat(t *testing.T) {
	authService := createTestAuthService(t)
	authMiddleware := middleware.Auth(authService)

	handler := authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "token123"},
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"bearer lowercase no space", "bearer token123"},
		{"empty bearer", "Bearer "},
		{"just bearer", "Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	authService := createTestAuthService(t)
	authMiddleware := middleware.Auth(authService)

	handler := authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer invalid.jwt.token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// Invalid tokens are detected and reported as such
	assert.Contains(t, rec.Body.String(), "invalid access token")
}

func TestAuth_ValidToken(t *testing.T) {
	authService := createTestAuthService(t)
	token := issueToken(t, auth.Principal{Subject: "field@wfp.org", Role: auth.RoleNGO, Organization: "WFP"})

	var captured *auth.Principal
	handler := middleware.Auth(authService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = middleware.GetPrincipal(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "field@wfp.org", captured.Subject)
	assert.Equal(t, auth.RoleNGO, captured.Role)
	assert.Equal(t, "WFP", captured.Organization)
}

func TestAuth_ExpiredToken(t *testing.T) {
	authService := createTestAuthService(t)

	issued := time.Now().Add(-2 * auth.AccessTokenExpiry)
	stale := auth.NewJWTService(auth.JWTConfig{
		SigningKey: testSigningKey,
		Issuer:     testIssuer,
		Audience:   testAudience,
		Now:        func() time.Time { return issued },
	})
	token, _, err := stale.GenerateAccessToken(auth.Principal{Subject: "ops@aidlink.org", Role: auth.RoleAdmin})
	require.NoError(t, err)

	handler := middleware.Auth(authService)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
}

func TestAuth_CaseInsensitiveBearer(t *testing.T) {
	authService := createTestAuthService(t)
	token := issueToken(t, auth.Principal{Subject: "ops@aidlink.org", Role: auth.RoleAdmin})

	handler := middleware.Auth(authService)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	cases := []string{"Bearer ", "bearer ", "BEARER "}
	for _, prefix := range cases {
		t.Run(prefix, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
			req.Header.Set("Authorization", prefix+token)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	authService := createTestAuthService(t)

	var captured *auth.Principal
	handler := middleware.OptionalAuth(authService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = middleware.GetPrincipal(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("anonymous passes through", func(t *testing.T) {
		captured = nil
		req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, captured)
	})

	t.Run("valid token attaches principal", func(t *testing.T) {
		captured = nil
		token := issueToken(t, auth.Principal{Subject: "field@unicef.org", Role: auth.RoleNGO, Organization: "UNICEF"})
		req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, captured)
		assert.Equal(t, "UNICEF", captured.Organization)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	adminOnly := middleware.RequireRole(auth.RoleAdmin)(ok)
	anyRole := middleware.RequireRole(auth.RoleNGO, auth.RoleAdmin)(ok)

	tests := []struct {
		name      string
		handler   http.Handler
		principal *auth.Principal
		want      int
	}{
		{"admin on admin route", adminOnly, &auth.Principal{Subject: "a", Role: auth.RoleAdmin}, http.StatusOK},
		{"ngo on admin route", adminOnly, &auth.Principal{Subject: "n", Role: auth.RoleNGO, Organization: "WFP"}, http.StatusForbidden},
		{"ngo on shared route", anyRole, &auth.Principal{Subject: "n", Role: auth.RoleNGO, Organization: "WFP"}, http.StatusOK},
		{"anonymous", adminOnly, nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", http.NoBody)
			if tt.principal != nil {
				req = req.WithContext(middleware.WithPrincipal(req.Context(), tt.principal))
			}
			rec := httptest.NewRecorder()

			tt.handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusForbidden {
				assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestGetPrincipal_NoAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	assert.Nil(t, middleware.GetPrincipal(req.Context()))
	assert.Empty(t, middleware.GetSubject(req.Context()))
}

const (
	testSigningKey = "test-secret-key-for-testing-only"
	testIssuer     = "https://api.aidlink.org"
	testAudience   = "aidlink-api"
)

func issueToken(t *testing.T, p auth.Principal) string {
	t.Helper()

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: testSigningKey,
		Issuer:     testIssuer,
		Audience:   testAudience,
	})
	token, _, err := jwtService.GenerateAccessToken(p)
	require.NoError(t, err)
	return token
}

// createTestAuthService creates an auth service for testing.
func createTestAuthService(t *testing.T) *auth.Service {
	t.Helper()

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: testSigningKey,
		Issuer:     testIssuer,
		Audience:   testAudience,
	})

	return auth.NewService(auth.ServiceConfig{
		JWTService: jwtService,
		Logger:     zerolog.Nop(),
	})
}

func authPrincipal() auth.Principal {
	return auth.Principal{Subject: "field@wfp.org", Role: auth.RoleNGO, Organization: "WFP"}
}
