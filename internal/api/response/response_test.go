package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidlink/aidlink/internal/api/middleware"
	"github.com/aidlink/aidlink/internal/api/models"
	"github.com/aidlink/aidlink/internal/api/response"
)

// tracedRequest returns a request whose context carries a request id, as it
// would after the RequestID middleware.
func tracedRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	var traced *http.Request
	middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		traced = r
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(method, path, http.NoBody))
	require.NotNil(t, traced)
	return traced
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) models.Problem {
	t.Helper()
	var p models.Problem
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	return p
}

func TestJSON_IncludesRequestID(t *testing.T) {
	req := tracedRequest(t, http.MethodGet, "/v1/locations")
	rec := httptest.NewRecorder()

	response.JSON(rec, req, http.StatusOK, map[string]int{"count": 8})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, middleware.GetRequestID(req.Context()), rec.Header().Get("X-Request-Id"))
	assert.JSONEq(t, `{"count":8}`, rec.Body.String())
}

func TestJSON_WithoutRequestID(t *testing.T) {
	rec := httptest.NewRecorder()

	response.JSON(rec, httptest.NewRequest(http.MethodGet, "/v1/locations", http.NoBody), http.StatusOK, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Request-Id"))
	assert.Zero(t, rec.Body.Len())
}

func TestBody_SetsContentType(t *testing.T) {
	req := tracedRequest(t, http.MethodGet, "/v1/heatmap/geojson")
	rec := httptest.NewRecorder()

	response.Body(rec, req, http.StatusOK, "application/geo+json", []byte(`{"type":"FeatureCollection","features":[]}`))

	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Contains(t, rec.Body.String(), "FeatureCollection")
}

func TestCreated_SetsLocation(t *testing.T) {
	req := tracedRequest(t, http.MethodPost, "/v1/applications")
	rec := httptest.NewRecorder()

	response.Created(rec, req, "/v1/applications/9", map[string]int64{"id": 9})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/v1/applications/9", rec.Header().Get("Location"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestNoContent(t *testing.T) {
	req := tracedRequest(t, http.MethodDelete, "/v1/feed/posts/2")
	rec := httptest.NewRecorder()

	response.NoContent(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Zero(t, rec.Body.Len())
}

func TestProblemWriters(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter, *http.Request)
		status int
		typ    string
	}{
		{
			name: "bad request",
			write: func(w http.ResponseWriter, r *http.Request) {
				response.BadRequest(w, r, "validation error", []models.FieldError{{Field: "view", Message: "unknown"}})
			},
			status: http.StatusBadRequest,
			typ:    models.ProblemTypeValidation,
		},
		{
			name:   "forbidden",
			write:  func(w http.ResponseWriter, r *http.Request) { response.Forbidden(w, r, "role ngo may not perform this operation") },
			status: http.StatusForbidden,
			typ:    models.ProblemTypeForbidden,
		},
		{
			name:   "not found",
			write:  func(w http.ResponseWriter, r *http.Request) { response.NotFound(w, r, "post not found") },
			status: http.StatusNotFound,
			typ:    models.ProblemTypeNotFound,
		},
		{
			name:   "internal",
			write:  func(w http.ResponseWriter, r *http.Request) { response.InternalError(w, r, "an unexpected error occurred") },
			status: http.StatusInternalServerError,
			typ:    models.ProblemTypeInternal,
		},
		{
			name:   "unavailable",
			write:  func(w http.ResponseWriter, r *http.Request) { response.ServiceUnavailable(w, r, "feed posting is temporarily disabled") },
			status: http.StatusServiceUnavailable,
			typ:    models.ProblemTypeUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tracedRequest(t, http.MethodPost, "/v1/feed/posts/4")
			rec := httptest.NewRecorder()

			tt.write(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

			p := decodeProblem(t, rec)
			assert.Equal(t, tt.typ, p.Type)
			assert.Equal(t, tt.status, p.Status)
			assert.Equal(t, "/v1/feed/posts/4", p.Instance)
			assert.Equal(t, middleware.GetRequestID(req.Context()), p.TraceID)
		})
	}
}
