// Package response writes JSON and problem responses tagged with the
// request id.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/aidlink/aidlink/internal/api/middleware"
	"github.com/aidlink/aidlink/internal/api/models"
)

func tagRequest(w http.ResponseWriter, r *http.Request) {
	if requestID := middleware.GetRequestID(r.Context()); requestID != "" {
		w.Header().Set("X-Request-Id", requestID)
	}
}

// JSON writes data as a JSON body with status.
func JSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	Body(w, r, status, "application/json", nil)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Body writes a pre-encoded body with an explicit content type, e.g. the
// application/geo+json heatmap export. A nil body writes headers only.
func Body(w http.ResponseWriter, r *http.Request, status int, contentType string, body []byte) {
	tagRequest(w, r)
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if body != nil {
		_, _ = w.Write(body)
	}
}

// Created writes a 201 with a Location header pointing at the new resource.
func Created(w http.ResponseWriter, r *http.Request, location string, data interface{}) {
	if location != "" {
		w.Header().Set("Location", location)
	}
	JSON(w, r, http.StatusCreated, data)
}

// NoContent writes a 204.
func NoContent(w http.ResponseWriter, r *http.Request) {
	tagRequest(w, r)
	w.WriteHeader(http.StatusNoContent)
}

// Error writes problem with the request path as its instance.
func Error(w http.ResponseWriter, r *http.Request, problem *models.Problem) {
	problem.Instance = r.URL.Path
	problem.Write(w)
}

// BadRequest writes a 400 with field errors.
func BadRequest(w http.ResponseWriter, r *http.Request, detail string, errors []models.FieldError) {
	Error(w, r, models.NewBadRequest(middleware.GetRequestID(r.Context()), detail, errors))
}

// Forbidden writes a 403.
func Forbidden(w http.ResponseWriter, r *http.Request, detail string) {
	Error(w, r, models.NewForbidden(middleware.GetRequestID(r.Context()), detail))
}

// NotFound writes a 404.
func NotFound(w http.ResponseWriter, r *http.Request, detail string) {
	Error(w, r, models.NewNotFound(middleware.GetRequestID(r.Context()), detail))
}

// InternalError writes a 500.
func InternalError(w http.ResponseWriter, r *http.Request, detail string) {
	Error(w, r, models.NewInternalError(middleware.GetRequestID(r.Context()), detail))
}

// ServiceUnavailable writes a 503.
func ServiceUnavailable(w http.ResponseWriter, r *http.Request, detail string) {
	Error(w, r, models.NewServiceUnavailable(middleware.GetRequestID(r.Context()), detail))
}
