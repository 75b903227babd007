package models_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidlink/aidlink/internal/api/models"
)

func TestNewProblem(t *testing.T) {
	p := models.NewProblem(models.ProblemTypeValidation, "Validation error", http.StatusBadRequest, "req_test123")

	assert.Equal(t, models.ProblemTypeValidation, p.Type)
	assert.Equal(t, http.StatusBadRequest, p.Status)
	assert.Equal(t, "req_test123", p.TraceID)
	assert.Empty(t, p.Detail)
	assert.Nil(t, p.Errors)
}

func TestProblem_Write(t *testing.T) {
	p := models.NewBadRequest("req_test123", "validation error", []models.FieldError{
		{Field: "requiredSupply", Message: "must be greater than zero", Code: "INVALID"},
	})
	p.Instance = "/v1/locations"

	w := httptest.NewRecorder()
	p.Write(w)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.Equal(t, "req_test123", w.Header().Get("X-Request-Id"))

	var result models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, models.ProblemTypeValidation, result.Type)
	assert.Equal(t, "/v1/locations", result.Instance)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "requiredSupply", result.Errors[0].Field)
	assert.Equal(t, "INVALID", result.Errors[0].Code)
}

func TestProblem_Write_NoTraceID(t *testing.T) {
	w := httptest.NewRecorder()
	models.NewNotFound("", "location not found").Write(w)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Header().Get("X-Request-Id"))
}

func TestProblemConstructors(t *testing.T) {
	tests := []struct {
		name    string
		problem *models.Problem
		typ     string
		title   string
		status  int
	}{
		{"bad request", models.NewBadRequest("req_1", "d", nil), models.ProblemTypeValidation, "Validation error", http.StatusBadRequest},
		{"unauthorized", models.NewUnauthorized("req_1", "d"), models.ProblemTypeUnauthorized, "Unauthorized", http.StatusUnauthorized},
		{"forbidden", models.NewForbidden("req_1", "d"), models.ProblemTypeForbidden, "Forbidden", http.StatusForbidden},
		{"not found", models.NewNotFound("req_1", "d"), models.ProblemTypeNotFound, "Not found", http.StatusNotFound},
		{"unsupported", models.NewUnsupportedMediaType("req_1", "d"), models.ProblemTypeUnsupportedType, "Unsupported media type", http.StatusUnsupportedMediaType},
		{"too many", models.NewTooManyRequests("req_1", "d"), models.ProblemTypeTooManyRequests, "Too many requests", http.StatusTooManyRequests},
		{"internal", models.NewInternalError("req_1", "d"), models.ProblemTypeInternal, "Internal server error", http.StatusInternalServerError},
		{"unavailable", models.NewServiceUnavailable("req_1", "d"), models.ProblemTypeUnavailable, "Service unavailable", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.problem.Type)
			assert.Equal(t, tt.title, tt.problem.Title)
			assert.Equal(t, tt.status, tt.problem.Status)
			assert.Equal(t, "d", tt.problem.Detail)
			assert.Equal(t, "req_1", tt.problem.TraceID)
		})
	}
}

func TestNewTLSRequired(t *testing.T) {
	p := models.NewTLSRequired("req_1")

	assert.Equal(t, models.ProblemTypeTLSRequired, p.Type)
	assert.Equal(t, http.StatusForbidden, p.Status)
	assert.Equal(t, "This endpoint requires HTTPS", p.Detail)
}
