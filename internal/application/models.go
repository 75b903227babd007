// Package application implements the aid application workflow: submission,
// review and the supply side effects of approval and completion.
package application

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrApplicationNotFound = errors.New("application not found")
)

// Status is the review state of an application.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// Settable reports whether s can be the target of SetStatus. Pending is only
// ever assigned on submission.
func (s Status) Settable() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCompleted
}

// Priority is the urgency an application was filed with.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DateLayout is the calendar date format used for submission dates.
const DateLayout = "2006-01-02"

// Application is an organization's request to deliver aid.
type Application struct {
	ID            int64
	Organization  string
	AidType       string
	Quantity      string
	Description   string
	SubmittedDate string
	DeliveryDate  string
	Status        Status
	Priority      Priority

	// Optional link to a location; both must be set for status changes to
	// move supply.
	LocationID *int64
	AidDays    *float64
}

// Clone returns a deep copy of a.
func (a *Application) Clone() *Application {
	cpy := *a
	if a.LocationID != nil {
		id := *a.LocationID
		cpy.LocationID = &id
	}
	if a.AidDays != nil {
		days := *a.AidDays
		cpy.AidDays = &days
	}
	return &cpy
}

// supplyLink returns the location and days a status change pushes, or
// ok=false when the application does not carry a usable link.
func (a *Application) supplyLink() (locationID int64, days float64, ok bool) {
	if a.LocationID == nil || a.AidDays == nil {
		return 0, 0, false
	}
	if *a.LocationID == 0 || *a.AidDays == 0 {
		return 0, 0, false
	}
	return *a.LocationID, *a.AidDays, true
}

// Input holds the caller-supplied fields of a new application.
type Input struct {
	Organization string
	AidType      string
	Quantity     string
	Description  string
	DeliveryDate string
	LocationID   *int64
	AidDays      *float64
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Status       Status
	Organization string
}

// Matches reports whether a passes the filter.
func (f Filter) Matches(a *Application) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Organization != "" && a.Organization != f.Organization {
		return false
	}
	return true
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

func today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}
