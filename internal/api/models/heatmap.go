package models

// Marker is a map pin for one location.
type Marker struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Region        string  `json:"region"`
	Coordinates   Point   `json:"coordinates"`
	UrgencyLevel  string  `json:"urgencyLevel"`
	UrgencyColor  string  `json:"urgencyColor"`
	SupplyLevel   float64 `json:"supplyLevel"`
	SupplyDeficit float64 `json:"supplyDeficit"`
	SupplyPercent int     `json:"supplyPercent"`
}

// MarkerList is the response of GET /v1/heatmap/markers.
type MarkerList struct {
	View  string   `json:"view"`
	Items []Marker `json:"items"`
}

// HeatmapSummary is the response of GET /v1/heatmap/summary.
type HeatmapSummary struct {
	View                   string `json:"view"`
	Locations              int    `json:"locations"`
	Critical               int    `json:"critical"`
	HighPriority           int    `json:"highPriority"`
	Oversupplied           int    `json:"oversupplied"`
	TotalFamilies          int    `json:"totalFamilies"`
	TotalPopulation        int    `json:"totalPopulation"`
	AverageSupplyPercent   int    `json:"averageSupplyPercent"`
	AggregateSupplyPercent int    `json:"aggregateSupplyPercent"`
}
