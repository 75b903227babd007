package models

// Application is an organization's aid application.
type Application struct {
	ID            int64    `json:"id"`
	Organization  string   `json:"organization"`
	AidType       string   `json:"aidType"`
	Quantity      string   `json:"quantity"`
	Description   string   `json:"description"`
	SubmittedDate string   `json:"submittedDate"`
	DeliveryDate  string   `json:"deliveryDate"`
	Status        string   `json:"status"`
	Priority      string   `json:"priority"`
	LocationID    *int64   `json:"locationId,omitempty"`
	AidDays       *float64 `json:"aidDays,omitempty"`
}

// ApplicationList is the response of GET /v1/applications.
type ApplicationList struct {
	Items []Application `json:"items"`
	Meta  ListMeta      `json:"meta"`
}

// ApplicationCreateRequest is the body of POST /v1/applications. Status,
// priority and submission date are assigned by the server.
type ApplicationCreateRequest struct {
	Organization string   `json:"organization"`
	AidType      string   `json:"aidType"`
	Quantity     string   `json:"quantity"`
	Description  string   `json:"description"`
	DeliveryDate string   `json:"deliveryDate"`
	LocationID   *int64   `json:"locationId,omitempty"`
	AidDays      *float64 `json:"aidDays,omitempty"`
}

// StatusUpdateRequest is the body of PUT /v1/applications/{id}/status.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// StatusUpdateResponse reports the outcome of a status change.
type StatusUpdateResponse struct {
	Application   Application `json:"application"`
	Location      *Location   `json:"location,omitempty"`
	Channel       string      `json:"channel,omitempty"`
	EffectApplied bool        `json:"effectApplied"`
	EffectSkipped bool        `json:"effectSkipped"`
}
