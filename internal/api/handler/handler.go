// Package handler provides HTTP handlers for the AidLink API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aidlink/aidlink/internal/api/models"
	"github.com/aidlink/aidlink/internal/api/response"
	"github.com/aidlink/aidlink/internal/application"
	"github.com/aidlink/aidlink/internal/auth"
	"github.com/aidlink/aidlink/internal/featureflags"
	"github.com/aidlink/aidlink/internal/feed"
	"github.com/aidlink/aidlink/internal/location"
)

// decodeJSON decodes the request body into dst, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return false
	}
	return true
}

// pathID parses a positive integer URL parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, r, name+" must be a positive integer", []models.FieldError{
			{Field: name, Message: "must be a positive integer", Code: "INVALID_FORMAT"},
		})
		return 0, false
	}
	return id, true
}

// writeError maps a domain error onto a problem response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		locationValidation    *location.ValidationError
		applicationValidation *application.ValidationError
		feedValidation        *feed.ValidationError
		authValidation        *auth.ValidationError
	)

	switch {
	case errors.As(err, &locationValidation):
		fieldErrors := make([]models.FieldError, len(locationValidation.Errors))
		for i, e := range locationValidation.Errors {
			fieldErrors[i] = models.FieldError{Field: e.Field, Message: e.Message, Code: "INVALID"}
		}
		response.BadRequest(w, r, "validation error", fieldErrors)
	case errors.As(err, &applicationValidation):
		fieldErrors := make([]models.FieldError, len(applicationValidation.Errors))
		for i, e := range applicationValidation.Errors {
			fieldErrors[i] = models.FieldError{Field: e.Field, Message: e.Message, Code: "INVALID"}
		}
		response.BadRequest(w, r, "validation error", fieldErrors)
	case errors.As(err, &feedValidation):
		fieldErrors := make([]models.FieldError, len(feedValidation.Errors))
		for i, e := range feedValidation.Errors {
			fieldErrors[i] = models.FieldError{Field: e.Field, Message: e.Message, Code: "INVALID"}
		}
		response.BadRequest(w, r, "validation error", fieldErrors)
	case errors.As(err, &authValidation):
		fieldErrors := make([]models.FieldError, len(authValidation.Errors))
		for i, e := range authValidation.Errors {
			fieldErrors[i] = models.FieldError{Field: e.Field, Message: e.Message, Code: e.Code}
		}
		response.BadRequest(w, r, "validation error", fieldErrors)

	case errors.Is(err, location.ErrLocationNotFound):
		response.NotFound(w, r, "location not found")
	case errors.Is(err, application.ErrApplicationNotFound):
		response.NotFound(w, r, "application not found")
	case errors.Is(err, feed.ErrPostNotFound):
		response.NotFound(w, r, "post not found")

	case errors.Is(err, application.ErrInvalidStatus):
		response.BadRequest(w, r, err.Error(), []models.FieldError{
			{Field: "status", Message: err.Error(), Code: "INVALID_ENUM"},
		})
	case errors.Is(err, location.ErrInvalidChannel):
		response.BadRequest(w, r, "channel must be promised or performed", []models.FieldError{
			{Field: "channel", Message: "must be promised or performed", Code: "INVALID_ENUM"},
		})
	case errors.Is(err, featureflags.ErrUnknownFlag):
		response.BadRequest(w, r, err.Error(), []models.FieldError{
			{Field: "updates.key", Message: err.Error(), Code: "INVALID_ENUM"},
		})
	case errors.Is(err, feed.ErrPostingDisabled):
		response.ServiceUnavailable(w, r, "feed posting is temporarily disabled")

	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		response.InternalError(w, r, "an unexpected error occurred")
	}
}

func toPoint(p location.Point) models.Point {
	return models.Point{Lat: p.Lat, Lng: p.Lng}
}

func fromPoint(p models.Point) location.Point {
	return location.Point{Lat: p.Lat, Lng: p.Lng}
}
