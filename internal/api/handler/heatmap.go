package handler

import (
	"net/http"

	"github.com/aidlink/aidlink/internal/api/models"
	"github.com/aidlink/aidlink/internal/api/response"
	"github.com/aidlink/aidlink/internal/heatmap"
	"github.com/aidlink/aidlink/internal/location"
)

// HeatmapHandler handles heatmap projection endpoints.
type HeatmapHandler struct {
	service *heatmap.Service
}

// NewHeatmapHandler creates a new HeatmapHandler.
func NewHeatmapHandler(service *heatmap.Service) *HeatmapHandler {
	return &HeatmapHandler{service: service}
}

// Markers handles GET /v1/heatmap/markers?view=.
func (h *HeatmapHandler) Markers(w http.ResponseWriter, r *http.Request) {
	view, ok := parseView(w, r)
	if !ok {
		return
	}

	markers, err := h.service.Markers(r.Context(), view)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items := make([]models.Marker, len(markers))
	for i, m := range markers {
		items[i] = models.Marker{
			ID:            m.ID,
			Name:          m.Name,
			Region:        m.Region,
			Coordinates:   toPoint(m.Coordinates),
			UrgencyLevel:  string(m.UrgencyLevel),
			UrgencyColor:  m.UrgencyColor,
			SupplyLevel:   m.SupplyLevel,
			SupplyDeficit: m.SupplyDeficit,
			SupplyPercent: m.SupplyPercent,
		}
	}
	response.JSON(w, r, http.StatusOK, models.MarkerList{View: string(view), Items: items})
}

// GeoJSON handles GET /v1/heatmap/geojson?view=.
func (h *HeatmapHandler) GeoJSON(w http.ResponseWriter, r *http.Request) {
	view, ok := parseView(w, r)
	if !ok {
		return
	}

	body, err := h.service.GeoJSON(r.Context(), view)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Body(w, r, http.StatusOK, "application/geo+json", body)
}

// Summary handles GET /v1/heatmap/summary?view=.
func (h *HeatmapHandler) Summary(w http.ResponseWriter, r *http.Request) {
	view, ok := parseView(w, r)
	if !ok {
		return
	}

	s, err := h.service.Summary(r.Context(), view)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.HeatmapSummary{
		View:                   string(s.View),
		Locations:              s.Locations,
		Critical:               s.Critical,
		HighPriority:           s.HighPriority,
		Oversupplied:           s.Oversupplied,
		TotalFamilies:          s.TotalFamilies,
		TotalPopulation:        s.TotalPopulation,
		AverageSupplyPercent:   s.AverageSupplyPercent,
		AggregateSupplyPercent: s.AggregateSupplyPercent,
	})
}

func parseView(w http.ResponseWriter, r *http.Request) (location.View, bool) {
	view, ok := location.ParseView(r.URL.Query().Get("view"))
	if !ok {
		response.BadRequest(w, r, "unknown view", []models.FieldError{
			{Field: "view", Message: "must be current, promised or performed", Code: "INVALID_ENUM"},
		})
		return "", false
	}
	return view, true
}
