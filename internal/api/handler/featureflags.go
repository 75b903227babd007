package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aidlink/aidlink/internal/api/middleware"
	"github.com/aidlink/aidlink/internal/api/models"
	"github.com/aidlink/aidlink/internal/api/response"
	"github.com/aidlink/aidlink/internal/featureflags"
)

// FeatureFlagsHandler serves the admin flag switchboard.
type FeatureFlagsHandler struct {
	service *featureflags.Service
}

// NewFeatureFlagsHandler creates a new FeatureFlagsHandler.
func NewFeatureFlagsHandler(service *featureflags.Service) *FeatureFlagsHandler {
	return &FeatureFlagsHandler{service: service}
}

// ListFeatureFlags handles GET /v1/admin/feature-flags.
func (h *FeatureFlagsHandler) ListFeatureFlags(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, toFlagList(h.service.List(r.Context())))
}

// UpsertFeatureFlags handles PUT /v1/admin/feature-flags. The update is all
// or nothing: one bad entry rejects the request.
func (h *FeatureFlagsHandler) UpsertFeatureFlags(w http.ResponseWriter, r *http.Request) {
	var req models.FeatureFlagsUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if len(req.Updates) == 0 {
		response.BadRequest(w, r, "validation error", []models.FieldError{
			{Field: "updates", Message: "at least one update is required", Code: "REQUIRED"},
		})
		return
	}

	var fieldErrors []models.FieldError
	updates := make(map[string]bool, len(req.Updates))
	for _, u := range req.Updates {
		if _, ok := featureflags.Lookup(u.Key); !ok {
			fieldErrors = append(fieldErrors, models.FieldError{Field: "updates.key", Message: "unknown flag " + u.Key, Code: "INVALID_ENUM"})
			continue
		}
		if u.Enabled == nil {
			fieldErrors = append(fieldErrors, models.FieldError{Field: "updates.enabled", Message: u.Key + " needs enabled", Code: "REQUIRED"})
			continue
		}
		updates[u.Key] = *u.Enabled
	}
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "validation error", fieldErrors)
		return
	}

	flags, err := h.service.Set(r.Context(), updates)
	if err != nil {
		writeError(w, r, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().
		Str("actor", middleware.GetSubject(r.Context())).
		Str("reason", req.Reason).
		Int("updates", len(updates)).
		Msg("feature flags updated")

	response.JSON(w, r, http.StatusOK, toFlagList(flags))
}

// InvalidateCache handles POST /v1/admin/feature-flags/invalidate, used
// after editing the flag table directly.
func (h *FeatureFlagsHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	h.service.Invalidate()
	response.NoContent(w, r)
}

func toFlagList(flags []featureflags.Flag) models.FeatureFlagList {
	items := make([]models.FeatureFlag, len(flags))
	for i, f := range flags {
		items[i] = models.FeatureFlag{Key: f.Key, Enabled: f.Enabled}
		if d, ok := featureflags.Lookup(f.Key); ok {
			items[i].Description = d.Description
		}
		if !f.UpdatedAt.IsZero() {
			ts := models.Timestamp(f.UpdatedAt)
			items[i].UpdatedAt = &ts
		}
	}
	return models.FeatureFlagList{Items: items}
}
