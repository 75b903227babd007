package heatmap_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidlink/aidlink/internal/heatmap"
	"github.com/aidlink/aidlink/internal/location"
)

type staticSource struct {
	locs []*location.Location
	err  error
}

func (s staticSource) List(context.Context) ([]*location.Location, error) {
	return s.locs, s.err
}

func fixtures() []*location.Location {
	return []*location.Location{
		{ID: 1, Name: "A", Coordinates: location.Point{Lat: 18.57, Lng: -72.33}, TotalPopulation: 1000, AffectedFamilies: 100,
			CurrentSupply: 1, PromisedSupply: 6, RequiredSupply: 10, UrgencyLevel: location.UrgencyCritical},
		{ID: 2, Name: "B", Coordinates: location.Point{Lat: 19.85, Lng: -73.19}, TotalPopulation: 2000, AffectedFamilies: 250,
			CurrentSupply: 4, PromisedSupply: 12, RequiredSupply: 10, UrgencyLevel: location.UrgencyHigh},
		{ID: 3, Name: "C", Coordinates: location.Point{Lat: 18.80, Lng: -73.05}, TotalPopulation: 500, AffectedFamilies: 40,
			CurrentSupply: 13, PromisedSupply: 13, RequiredSupply: 10, UrgencyLevel: location.UrgencyOversupplied},
	}
}

func TestService_Markers(t *testing.T) {
	svc := heatmap.NewService(staticSource{locs: fixtures()})

	markers, err := svc.Markers(context.Background(), location.ViewCurrent)
	require.NoError(t, err)
	require.Len(t, markers, 3)

	assert.Equal(t, location.ColorSevereDeficit, markers[0].UrgencyColor)
	assert.Equal(t, 9.0, markers[0].SupplyDeficit)
	assert.Equal(t, 10, markers[0].SupplyPercent)
	assert.Equal(t, location.UrgencyCritical, markers[0].UrgencyLevel)

	assert.Equal(t, location.ColorHighDeficit, markers[1].UrgencyColor)
	assert.Equal(t, location.ColorVeryOversupplied, markers[2].UrgencyColor)
	assert.Zero(t, markers[2].SupplyDeficit)
}

func TestService_MarkersPromisedView(t *testing.T) {
	svc := heatmap.NewService(staticSource{locs: fixtures()})

	markers, err := svc.Markers(context.Background(), location.ViewPromised)
	require.NoError(t, err)

	assert.Equal(t, 6.0, markers[0].SupplyLevel)
	assert.Equal(t, location.ColorMediumDeficit, markers[0].UrgencyColor)
	// The stored level is not recomputed by the projection.
	assert.Equal(t, location.UrgencyCritical, markers[0].UrgencyLevel)
	assert.Equal(t, location.ColorOversupplied, markers[1].UrgencyColor)
}

func TestService_Summary(t *testing.T) {
	svc := heatmap.NewService(staticSource{locs: fixtures()})

	sum, err := svc.Summary(context.Background(), location.ViewCurrent)
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Locations)
	assert.Equal(t, 1, sum.Critical)
	assert.Equal(t, 1, sum.HighPriority)
	assert.Equal(t, 1, sum.Oversupplied)
	assert.Equal(t, 390, sum.TotalFamilies)
	assert.Equal(t, 3500, sum.TotalPopulation)
	assert.Equal(t, 60, sum.AverageSupplyPercent)
	assert.Equal(t, 60, sum.AggregateSupplyPercent)
}

func TestService_SummaryEmpty(t *testing.T) {
	svc := heatmap.NewService(staticSource{})

	sum, err := svc.Summary(context.Background(), location.ViewPerformed)
	require.NoError(t, err)
	assert.Equal(t, &heatmap.Summary{View: location.ViewPerformed}, sum)
}

func TestService_SourceError(t *testing.T) {
	svc := heatmap.NewService(staticSource{err: errors.New("db down")})

	_, err := svc.Summary(context.Background(), location.ViewCurrent)
	assert.Error(t, err)
	_, err = svc.GeoJSON(context.Background(), location.ViewCurrent)
	assert.Error(t, err)
}

func TestService_GeoJSON(t *testing.T) {
	svc := heatmap.NewService(staticSource{locs: fixtures()})

	data, err := svc.GeoJSON(context.Background(), location.ViewCurrent)
	require.NoError(t, err)

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Type     string `json:"type"`
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 3)
	first := doc.Features[0]
	assert.Equal(t, "Feature", first.Type)
	assert.Equal(t, "Point", first.Geometry.Type)
	assert.Equal(t, []float64{-72.33, 18.57}, first.Geometry.Coordinates, "GeoJSON is lng,lat")
	assert.Equal(t, "A", first.Properties["name"])
	assert.Equal(t, location.ColorSevereDeficit, first.Properties["urgencyColor"])
	assert.Equal(t, "critical", first.Properties["urgencyLevel"])
}
