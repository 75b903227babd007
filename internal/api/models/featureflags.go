package models

// FeatureFlag is a runtime switch. UpdatedAt is omitted for a flag that was
// never changed.
type FeatureFlag struct {
	Key         string     `json:"key"`
	Enabled     bool       `json:"enabled"`
	Description string     `json:"description"`
	UpdatedAt   *Timestamp `json:"updatedAt,omitempty"`
}

// FeatureFlagList is the response of GET /v1/admin/feature-flags.
type FeatureFlagList struct {
	Items []FeatureFlag `json:"items"`
}

// FeatureFlagUpdate is a single flag change.
type FeatureFlagUpdate struct {
	Key     string `json:"key"`
	Enabled *bool  `json:"enabled"`
}

// FeatureFlagsUpdateRequest is the body of PUT /v1/admin/feature-flags.
// Reason is recorded in the audit log line.
type FeatureFlagsUpdateRequest struct {
	Updates []FeatureFlagUpdate `json:"updates"`
	Reason  string              `json:"reason"`
}
