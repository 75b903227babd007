package models

import (
	"encoding/json"
	"net/http"
)

// Problem is an RFC7807 error body, served as application/problem+json.
type Problem struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Detail   string       `json:"detail,omitempty"`
	Instance string       `json:"instance,omitempty"`
	TraceID  string       `json:"traceId"`
	Errors   []FieldError `json:"errors,omitempty"`
}

// FieldError is a validation failure on one request field. Code is a
// machine-readable reason such as INVALID_ENUM.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

const problemBase = "https://api.aidlink.org/problems/"

// Problem type URIs.
const (
	ProblemTypeValidation      = problemBase + "validation-error"
	ProblemTypeUnauthorized    = problemBase + "unauthorized"
	ProblemTypeForbidden       = problemBase + "forbidden"
	ProblemTypeNotFound        = problemBase + "not-found"
	ProblemTypeUnsupportedType = problemBase + "unsupported-media-type"
	ProblemTypeTooManyRequests = problemBase + "too-many-requests"
	ProblemTypeInternal        = problemBase + "internal-error"
	ProblemTypeUnavailable     = problemBase + "service-unavailable"
	ProblemTypeTLSRequired     = problemBase + "tls-required"
)

// NewProblem creates a Problem without detail.
func NewProblem(problemType, title string, status int, traceID string) *Problem {
	return &Problem{
		Type:    problemType,
		Title:   title,
		Status:  status,
		TraceID: traceID,
	}
}

// Write serializes p with its status code. The trace id is echoed in
// X-Request-Id when set.
func (p *Problem) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	if p.TraceID != "" {
		w.Header().Set("X-Request-Id", p.TraceID)
	}
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func newDetailed(problemType, title string, status int, traceID, detail string) *Problem {
	p := NewProblem(problemType, title, status, traceID)
	p.Detail = detail
	return p
}

// NewBadRequest creates a 400 validation problem carrying field errors.
func NewBadRequest(traceID, detail string, errors []FieldError) *Problem {
	p := newDetailed(ProblemTypeValidation, "Validation error", http.StatusBadRequest, traceID, detail)
	p.Errors = errors
	return p
}

// NewUnauthorized creates a 401 problem.
func NewUnauthorized(traceID, detail string) *Problem {
	return newDetailed(ProblemTypeUnauthorized, "Unauthorized", http.StatusUnauthorized, traceID, detail)
}

// NewForbidden creates a 403 problem, used when the caller's role may not
// perform the operation.
func NewForbidden(traceID, detail string) *Problem {
	return newDetailed(ProblemTypeForbidden, "Forbidden", http.StatusForbidden, traceID, detail)
}

// NewTLSRequired creates a 403 problem for plain-HTTP requests behind a TLS
// terminating proxy.
func NewTLSRequired(traceID string) *Problem {
	return newDetailed(ProblemTypeTLSRequired, "TLS required", http.StatusForbidden, traceID, "This endpoint requires HTTPS")
}

// NewNotFound creates a 404 problem.
func NewNotFound(traceID, detail string) *Problem {
	return newDetailed(ProblemTypeNotFound, "Not found", http.StatusNotFound, traceID, detail)
}

// NewUnsupportedMediaType creates a 415 problem.
func NewUnsupportedMediaType(traceID, detail string) *Problem {
	return newDetailed(ProblemTypeUnsupportedType, "Unsupported media type", http.StatusUnsupportedMediaType, traceID, detail)
}

// NewTooManyRequests creates a 429 problem.
func NewTooManyRequests(traceID, detail string) *Problem {
	return newDetailed(ProblemTypeTooManyRequests, "Too many requests", http.StatusTooManyRequests, traceID, detail)
}

// NewInternalError creates a 500 problem. Detail must not leak internals.
func NewInternalError(traceID, detail string) *Problem {
	return newDetailed(ProblemTypeInternal, "Internal server error", http.StatusInternalServerError, traceID, detail)
}

// NewServiceUnavailable creates a 503 problem, used for readiness failures
// and flag-disabled features.
func NewServiceUnavailable(traceID, detail string) *Problem {
	return newDetailed(ProblemTypeUnavailable, "Service unavailable", http.StatusServiceUnavailable, traceID, detail)
}
