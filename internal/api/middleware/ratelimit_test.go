package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidlink/aidlink/internal/api/middleware"
	"github.com/aidlink/aidlink/internal/api/models"
	"github.com/aidlink/aidlink/internal/auth"
)

// limiter wraps an OK handler with mw and sends requests from the given
// address, optionally as principal.
type limiter struct {
	handler http.Handler
}

func newLimiter(mw func(http.Handler) http.Handler) limiter {
	return limiter{handler: middleware.RequestID(mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))}
}

func (l limiter) send(addr string, principal *auth.Principal) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/heatmap/geojson", http.NoBody)
	req.RemoteAddr = addr
	if principal != nil {
		req = req.WithContext(middleware.WithPrincipal(req.Context(), principal))
	}
	rec := httptest.NewRecorder()
	l.handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitByIP(t *testing.T) {
	l := newLimiter(middleware.RateLimitByIP(middleware.RateLimitConfig{RequestLimit: 3, WindowLength: time.Minute}))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, l.send("10.0.0.1:5000", nil).Code, "request %d", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, l.send("10.0.0.1:5000", nil).Code)

	// Port changes do not reset the budget; another host has its own.
	assert.Equal(t, http.StatusTooManyRequests, l.send("10.0.0.1:6000", nil).Code)
	assert.Equal(t, http.StatusOK, l.send("10.0.0.2:5000", nil).Code)
}

func TestRateLimitByUser(t *testing.T) {
	ngo := &auth.Principal{Subject: "field@wfp.org", Role: auth.RoleNGO, Organization: "WFP"}
	admin := &auth.Principal{Subject: "ops@aidlink.org", Role: auth.RoleAdmin}

	t.Run("subject shares budget across addresses", func(t *testing.T) {
		l := newLimiter(middleware.RateLimitByUser(middleware.RateLimitConfig{RequestLimit: 2, WindowLength: time.Minute}))

		assert.Equal(t, http.StatusOK, l.send("172.16.0.1:1000", ngo).Code)
		assert.Equal(t, http.StatusOK, l.send("172.16.0.2:1000", ngo).Code)
		assert.Equal(t, http.StatusTooManyRequests, l.send("172.16.0.3:1000", ngo).Code)
		assert.Equal(t, http.StatusOK, l.send("172.16.0.3:1000", admin).Code)
	})

	t.Run("anonymous falls back to address", func(t *testing.T) {
		l := newLimiter(middleware.RateLimitByUser(middleware.RateLimitConfig{RequestLimit: 2, WindowLength: time.Minute}))

		assert.Equal(t, http.StatusOK, l.send("192.168.7.1:1000", nil).Code)
		assert.Equal(t, http.StatusOK, l.send("192.168.7.1:1000", nil).Code)
		assert.Equal(t, http.StatusTooManyRequests, l.send("192.168.7.1:1000", nil).Code)
		assert.Equal(t, http.StatusOK, l.send("192.168.7.2:1000", nil).Code)
	})
}

func TestRateLimit_Problem(t *testing.T) {
	l := newLimiter(middleware.RateLimitByIP(middleware.RateLimitConfig{RequestLimit: 1, WindowLength: 90 * time.Second}))

	require.Equal(t, http.StatusOK, l.send("203.0.113.1:1000", nil).Code)
	rec := l.send("203.0.113.1:1000", nil)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "90", rec.Header().Get("Retry-After"))

	var p models.Problem
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	assert.Equal(t, models.ProblemTypeTooManyRequests, p.Type)
	assert.Equal(t, "/v1/heatmap/geojson", p.Instance)
	assert.Equal(t, rec.Header().Get("X-Request-Id"), p.TraceID)
	assert.NotEmpty(t, p.TraceID)
}

func TestRateLimitBudgets(t *testing.T) {
	tests := []struct {
		name  string
		cfg   middleware.RateLimitConfig
		limit int
	}{
		{"auth", middleware.AuthRateLimit, 10},
		{"expensive", middleware.ExpensiveRateLimit, 30},
		{"standard", middleware.StandardRateLimit, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.limit, tt.cfg.RequestLimit, tt.name)
		assert.Equal(t, time.Minute, tt.cfg.WindowLength, tt.name)
	}
}
