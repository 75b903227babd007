// Package location provides the registry of aid-tracked locations and their
// food-supply metrics.
package location

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrLocationNotFound = errors.New("location not found")
)

// DefaultRequiredSupply is the number of days of food a location needs per
// distribution cycle.
const DefaultRequiredSupply = 7.0

// UrgencyLevel is the stored classification of a location's current supply.
type UrgencyLevel string

const (
	UrgencyCritical     UrgencyLevel = "critical"
	UrgencyHigh         UrgencyLevel = "high"
	UrgencyMedium       UrgencyLevel = "medium"
	UrgencyLow          UrgencyLevel = "low"
	UrgencyOversupplied UrgencyLevel = "oversupplied"
)

// Valid reports whether u is a known urgency level.
func (u UrgencyLevel) Valid() bool {
	switch u {
	case UrgencyCritical, UrgencyHigh, UrgencyMedium, UrgencyLow, UrgencyOversupplied:
		return true
	}
	return false
}

// Channel selects which supply figure a delta is applied to.
type Channel string

const (
	ChannelPromised  Channel = "promised"
	ChannelPerformed Channel = "performed"
)

// View is a named perspective on a location's supply.
type View string

const (
	ViewCurrent   View = "current"
	ViewPromised  View = "promised"
	ViewPerformed View = "performed"
)

// ParseView parses a view name. An empty string yields ViewCurrent.
func ParseView(s string) (View, bool) {
	switch View(s) {
	case "":
		return ViewCurrent, true
	case ViewCurrent, ViewPromised, ViewPerformed:
		return View(s), true
	}
	return "", false
}

// Location is a tracked place with population and food-supply metrics.
type Location struct {
	ID               int64
	Name             string
	Region           string
	Coordinates      Point
	TotalPopulation  int
	AffectedFamilies int

	// Supply figures are expressed in days of food.
	CurrentSupply  float64
	PromisedSupply float64
	RequiredSupply float64

	UrgencyLevel        UrgencyLevel
	LastUpdated         time.Time
	ActiveOrganizations []string
	Infrastructure      Infrastructure
	Demographics        Demographics
	SpecificNeeds       []string
}

// Point is a geographic coordinate.
type Point struct {
	Lat float64
	Lng float64
}

// Infrastructure flags the state of essential services at a location.
type Infrastructure struct {
	RoadsAccessible            bool
	CommunicationAvailable     bool
	MedicalFacilityOperational bool
}

// Demographics holds counts of vulnerable groups.
type Demographics struct {
	Children int
	Elderly  int
	Disabled int
	Pregnant int
}

// Clone returns a deep copy of l.
func (l *Location) Clone() *Location {
	cpy := *l
	cpy.ActiveOrganizations = append([]string(nil), l.ActiveOrganizations...)
	cpy.SpecificNeeds = append([]string(nil), l.SpecificNeeds...)
	return &cpy
}

// Input holds the caller-supplied fields of a new location.
type Input struct {
	Name                string
	Region              string
	Coordinates         Point
	TotalPopulation     int
	AffectedFamilies    int
	CurrentSupply       float64
	PromisedSupply      float64
	RequiredSupply      float64
	UrgencyLevel        UrgencyLevel
	ActiveOrganizations []string
	Infrastructure      Infrastructure
	Demographics        Demographics
	SpecificNeeds       []string
}

// Patch is a shallow partial update. Nil fields are left untouched.
type Patch struct {
	Name                *string
	Region              *string
	Coordinates         *Point
	TotalPopulation     *int
	AffectedFamilies    *int
	CurrentSupply       *float64
	PromisedSupply      *float64
	RequiredSupply      *float64
	UrgencyLevel        *UrgencyLevel
	ActiveOrganizations []string
	Infrastructure      *Infrastructure
	Demographics        *Demographics
	SpecificNeeds       []string
}

// FieldError describes a validation failure on a single field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned when input fails validation.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
