package handler

import (
	"net/http"
	"strconv"

	"github.com/aidlink/aidlink/internal/api/models"
	"github.com/aidlink/aidlink/internal/api/response"
	"github.com/aidlink/aidlink/internal/location"
)

// LocationHandler handles location registry endpoints.
type LocationHandler struct {
	registry *location.Registry
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(registry *location.Registry) *LocationHandler {
	return &LocationHandler{registry: registry}
}

// ListLocations handles GET /v1/locations.
func (h *LocationHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := h.registry.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	items := make([]models.Location, len(locs))
	for i, l := range locs {
		items[i] = toLocationModel(l)
	}
	response.JSON(w, r, http.StatusOK, models.LocationList{Items: items, Meta: models.ListMeta{Count: len(items)}})
}

// GetLocation handles GET /v1/locations/{locationId}.
func (h *LocationHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "locationId")
	if !ok {
		return
	}

	l, err := h.registry.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toLocationModel(l))
}

// CreateLocation handles POST /v1/locations.
func (h *LocationHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req models.LocationCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	l, err := h.registry.Add(r.Context(), location.Input{
		Name:                req.Name,
		Region:              req.Region,
		Coordinates:         fromPoint(req.Coordinates),
		TotalPopulation:     req.TotalPopulation,
		AffectedFamilies:    req.AffectedFamilies,
		CurrentSupply:       req.CurrentSupply,
		PromisedSupply:      req.PromisedSupply,
		RequiredSupply:      req.RequiredSupply,
		UrgencyLevel:        location.UrgencyLevel(req.UrgencyLevel),
		ActiveOrganizations: req.ActiveOrganizations,
		Infrastructure:      location.Infrastructure(req.Infrastructure),
		Demographics:        location.Demographics(req.Demographics),
		SpecificNeeds:       req.SpecificNeeds,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, r, "/v1/locations/"+strconv.FormatInt(l.ID, 10), toLocationModel(l))
}

// UpdateLocation handles PATCH /v1/locations/{locationId}.
func (h *LocationHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "locationId")
	if !ok {
		return
	}

	var req models.LocationPatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	patch := location.Patch{
		Name:                req.Name,
		Region:              req.Region,
		TotalPopulation:     req.TotalPopulation,
		AffectedFamilies:    req.AffectedFamilies,
		CurrentSupply:       req.CurrentSupply,
		PromisedSupply:      req.PromisedSupply,
		RequiredSupply:      req.RequiredSupply,
		ActiveOrganizations: req.ActiveOrganizations,
		SpecificNeeds:       req.SpecificNeeds,
	}
	if req.Coordinates != nil {
		p := fromPoint(*req.Coordinates)
		patch.Coordinates = &p
	}
	if req.UrgencyLevel != nil {
		u := location.UrgencyLevel(*req.UrgencyLevel)
		patch.UrgencyLevel = &u
	}
	if req.Infrastructure != nil {
		infra := location.Infrastructure(*req.Infrastructure)
		patch.Infrastructure = &infra
	}
	if req.Demographics != nil {
		demo := location.Demographics(*req.Demographics)
		patch.Demographics = &demo
	}

	l, err := h.registry.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toLocationModel(l))
}

// DeleteLocation handles DELETE /v1/locations/{locationId}.
func (h *LocationHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "locationId")
	if !ok {
		return
	}

	if err := h.registry.Remove(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	response.NoContent(w, r)
}

// ApplySupplyDelta handles POST /v1/locations/{locationId}/supply.
func (h *LocationHandler) ApplySupplyDelta(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "locationId")
	if !ok {
		return
	}

	var req models.SupplyDeltaRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	l, err := h.registry.ApplySupplyDelta(r.Context(), id, req.Days, location.Channel(req.Channel))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toLocationModel(l))
}

// toLocationModel renders a location under the current view.
func toLocationModel(l *location.Location) models.Location {
	return models.Location{
		ID:                  l.ID,
		Name:                l.Name,
		Region:              l.Region,
		Coordinates:         toPoint(l.Coordinates),
		TotalPopulation:     l.TotalPopulation,
		AffectedFamilies:    l.AffectedFamilies,
		CurrentSupply:       l.CurrentSupply,
		PromisedSupply:      l.PromisedSupply,
		RequiredSupply:      l.RequiredSupply,
		UrgencyLevel:        string(l.UrgencyLevel),
		UrgencyColor:        location.UrgencyColor(l, location.ViewCurrent),
		SupplyDeficit:       location.SupplyDeficit(l, location.ViewCurrent),
		LastUpdated:         models.Timestamp(l.LastUpdated),
		ActiveOrganizations: nonNil(l.ActiveOrganizations),
		Infrastructure:      models.Infrastructure(l.Infrastructure),
		Demographics:        models.Demographics(l.Demographics),
		SpecificNeeds:       nonNil(l.SpecificNeeds),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
