package models

// Infrastructure flags essential services at a location.
type Infrastructure struct {
	RoadsAccessible            bool `json:"roadsAccessible"`
	CommunicationAvailable     bool `json:"communicationAvailable"`
	MedicalFacilityOperational bool `json:"medicalFacilityOperational"`
}

// Demographics holds counts of vulnerable groups.
type Demographics struct {
	Children int `json:"children"`
	Elderly  int `json:"elderly"`
	Disabled int `json:"disabled"`
	Pregnant int `json:"pregnant"`
}

// Location is an aid-tracked place.
type Location struct {
	ID                  int64          `json:"id"`
	Name                string         `json:"name"`
	Region              string         `json:"region"`
	Coordinates         Point          `json:"coordinates"`
	TotalPopulation     int            `json:"totalPopulation"`
	AffectedFamilies    int            `json:"affectedFamilies"`
	CurrentSupply       float64        `json:"currentSupply"`
	PromisedSupply      float64        `json:"promisedSupply"`
	RequiredSupply      float64        `json:"requiredSupply"`
	UrgencyLevel        string         `json:"urgencyLevel"`
	UrgencyColor        string         `json:"urgencyColor"`
	SupplyDeficit       float64        `json:"supplyDeficit"`
	LastUpdated         Timestamp      `json:"lastUpdated"`
	ActiveOrganizations []string       `json:"activeOrganizations"`
	Infrastructure      Infrastructure `json:"infrastructure"`
	Demographics        Demographics   `json:"demographics"`
	SpecificNeeds       []string       `json:"specificNeeds"`
}

// LocationList is the response of GET /v1/locations.
type LocationList struct {
	Items []Location `json:"items"`
	Meta  ListMeta   `json:"meta"`
}

// LocationCreateRequest is the body of POST /v1/locations.
type LocationCreateRequest struct {
	Name                string         `json:"name"`
	Region              string         `json:"region"`
	Coordinates         Point          `json:"coordinates"`
	TotalPopulation     int            `json:"totalPopulation"`
	AffectedFamilies    int            `json:"affectedFamilies"`
	CurrentSupply       float64        `json:"currentSupply"`
	PromisedSupply      float64        `json:"promisedSupply"`
	RequiredSupply      float64        `json:"requiredSupply,omitempty"`
	UrgencyLevel        string         `json:"urgencyLevel,omitempty"`
	ActiveOrganizations []string       `json:"activeOrganizations,omitempty"`
	Infrastructure      Infrastructure `json:"infrastructure"`
	Demographics        Demographics   `json:"demographics"`
	SpecificNeeds       []string       `json:"specificNeeds,omitempty"`
}

// LocationPatchRequest is the body of PATCH /v1/locations/{id}. Absent fields
// are left untouched.
type LocationPatchRequest struct {
	Name                *string         `json:"name,omitempty"`
	Region              *string         `json:"region,omitempty"`
	Coordinates         *Point          `json:"coordinates,omitempty"`
	TotalPopulation     *int            `json:"totalPopulation,omitempty"`
	AffectedFamilies    *int            `json:"affectedFamilies,omitempty"`
	CurrentSupply       *float64        `json:"currentSupply,omitempty"`
	PromisedSupply      *float64        `json:"promisedSupply,omitempty"`
	RequiredSupply      *float64        `json:"requiredSupply,omitempty"`
	UrgencyLevel        *string         `json:"urgencyLevel,omitempty"`
	ActiveOrganizations []string        `json:"activeOrganizations,omitempty"`
	Infrastructure      *Infrastructure `json:"infrastructure,omitempty"`
	Demographics        *Demographics   `json:"demographics,omitempty"`
	SpecificNeeds       []string        `json:"specificNeeds,omitempty"`
}

// SupplyDeltaRequest is the body of POST /v1/locations/{id}/supply.
type SupplyDeltaRequest struct {
	Days    float64 `json:"days"`
	Channel string  `json:"channel"`
}
