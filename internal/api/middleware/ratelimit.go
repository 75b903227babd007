package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/aidlink/aidlink/internal/api/models"
)

// RateLimitConfig is a fixed request budget per window.
type RateLimitConfig struct {
	RequestLimit int
	WindowLength time.Duration
}

// Route budgets.
var (
	// AuthRateLimit guards login (10 req/min per IP).
	AuthRateLimit = RateLimitConfig{RequestLimit: 10, WindowLength: time.Minute}

	// ExpensiveRateLimit guards the heatmap projections, which walk every
	// location (30 req/min per IP).
	ExpensiveRateLimit = RateLimitConfig{RequestLimit: 30, WindowLength: time.Minute}

	// StandardRateLimit applies to reads and authenticated writes
	// (100 req/min).
	StandardRateLimit = RateLimitConfig{RequestLimit: 100, WindowLength: time.Minute}
)

// RateLimitByIP limits by client IP. chi's RealIP middleware must run first
// for proxied requests.
func RateLimitByIP(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return limit(cfg, httprate.KeyByRealIP)
}

// RateLimitByUser limits by token subject, so one NGO account shares a budget
// across devices. Anonymous requests fall back to the client IP.
func RateLimitByUser(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return limit(cfg, keyByUserOrIP)
}

func limit(cfg RateLimitConfig, key httprate.KeyFunc) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(math.Ceil(cfg.WindowLength.Seconds())))
	return httprate.Limit(
		cfg.RequestLimit,
		cfg.WindowLength,
		httprate.WithKeyFuncs(key),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			// httprate does not expose the reset time; a full window is the
			// upper bound.
			w.Header().Set("Retry-After", retryAfter)
			problem := models.NewTooManyRequests(GetRequestID(r.Context()), "Rate limit exceeded. Please try again later.")
			problem.Instance = r.URL.Path
			problem.Write(w)
		}),
	)
}

func keyByUserOrIP(r *http.Request) (string, error) {
	if subject := GetSubject(r.Context()); subject != "" {
		return "user:" + subject, nil
	}
	return httprate.KeyByRealIP(r)
}
