// Package heatmap projects the location registry onto map markers, GeoJSON
// and dashboard summary statistics.
package heatmap

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/aidlink/aidlink/internal/location"
)

// Summary ratio bands. High priority runs to 0.6, unlike the stored bands.
const (
	criticalRatio = 0.3
	highRatio     = 0.6
)

// LocationSource lists locations. The location registry satisfies it.
type LocationSource interface {
	List(ctx context.Context) ([]*location.Location, error)
}

// Service builds heatmap projections.
type Service struct {
	locations LocationSource
}

// NewService creates a new heatmap service.
func NewService(locations LocationSource) *Service {
	return &Service{locations: locations}
}

// Marker is a single map pin. UrgencyLevel is the last committed status;
// UrgencyColor is the point-in-time projection for the requested view.
type Marker struct {
	ID            int64
	Name          string
	Region        string
	Coordinates   location.Point
	UrgencyLevel  location.UrgencyLevel
	UrgencyColor  string
	SupplyLevel   float64
	SupplyDeficit float64

	// SupplyPercent is SupplyLevel as a rounded percentage of RequiredSupply.
	SupplyPercent int
}

// Summary aggregates the registry for the dashboard header.
type Summary struct {
	View                 location.View
	Locations            int
	Critical             int
	HighPriority         int
	Oversupplied         int
	TotalFamilies        int
	TotalPopulation      int
	AverageSupplyPercent int

	// AggregateSupplyPercent is total supply over total requirement.
	AggregateSupplyPercent int
}

// Markers returns one marker per location, ordered by ID.
func (s *Service) Markers(ctx context.Context, view location.View) ([]Marker, error) {
	locs, err := s.locations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}

	markers := make([]Marker, 0, len(locs))
	for _, l := range locs {
		markers = append(markers, newMarker(l, view))
	}
	return markers, nil
}

// GeoJSON returns the markers as a FeatureCollection of points.
func (s *Service) GeoJSON(ctx context.Context, view location.View) ([]byte, error) {
	markers, err := s.Markers(ctx, view)
	if err != nil {
		return nil, err
	}

	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(markers))}
	for _, m := range markers {
		point := geom.NewPointFlat(geom.XY, []float64{m.Coordinates.Lng, m.Coordinates.Lat})
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       strconv.FormatInt(m.ID, 10),
			Geometry: point,
			Properties: map[string]interface{}{
				"id":            m.ID,
				"name":          m.Name,
				"region":        m.Region,
				"urgencyLevel":  string(m.UrgencyLevel),
				"urgencyColor":  m.UrgencyColor,
				"supplyLevel":   m.SupplyLevel,
				"supplyDeficit": m.SupplyDeficit,
				"supplyPercent": m.SupplyPercent,
				"view":          string(view),
			},
		})
	}

	data, err := json.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("encoding geojson: %w", err)
	}
	return data, nil
}

// Summary computes dashboard statistics for a view. An empty registry yields
// a zero summary.
func (s *Service) Summary(ctx context.Context, view location.View) (*Summary, error) {
	locs, err := s.locations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}

	sum := &Summary{View: view, Locations: len(locs)}
	if len(locs) == 0 {
		return sum, nil
	}

	var ratioSum, supplySum, requiredSum float64
	for _, l := range locs {
		level := location.SupplyLevel(l, view)
		ratio := level / l.RequiredSupply

		switch {
		case ratio < criticalRatio:
			sum.Critical++
		case ratio < highRatio:
			sum.HighPriority++
		}
		if level > l.RequiredSupply {
			sum.Oversupplied++
		}

		sum.TotalFamilies += l.AffectedFamilies
		sum.TotalPopulation += l.TotalPopulation
		ratioSum += ratio
		supplySum += level
		requiredSum += l.RequiredSupply
	}

	sum.AverageSupplyPercent = percent(ratioSum / float64(len(locs)))
	if requiredSum > 0 {
		sum.AggregateSupplyPercent = percent(supplySum / requiredSum)
	}
	return sum, nil
}

func newMarker(l *location.Location, view location.View) Marker {
	return Marker{
		ID:            l.ID,
		Name:          l.Name,
		Region:        l.Region,
		Coordinates:   l.Coordinates,
		UrgencyLevel:  l.UrgencyLevel,
		UrgencyColor:  location.UrgencyColor(l, view),
		SupplyLevel:   location.SupplyLevel(l, view),
		SupplyDeficit: location.SupplyDeficit(l, view),
		SupplyPercent: percent(location.SupplyRatio(l, view)),
	}
}

func percent(ratio float64) int {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 0
	}
	return int(math.Round(ratio * 100))
}
