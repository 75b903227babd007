package models

// HealthStatus is the coarse state reported by the ops endpoints.
type HealthStatus string

const (
	HealthStatusOK       HealthStatus = "OK"
	HealthStatusDegraded HealthStatus = "DEGRADED"
	HealthStatusFail     HealthStatus = "FAIL"
)

// Health is the body of /v1/ops/health and /v1/ops/ready. On a failed
// readiness probe Details maps each failing check to its error.
type Health struct {
	Status  HealthStatus      `json:"status"`
	Time    Timestamp         `json:"time"`
	Details map[string]string `json:"details,omitempty"`
}

// SystemStatus is the body of /v1/ops/status.
type SystemStatus struct {
	Status       HealthStatus       `json:"status"`
	Time         Timestamp          `json:"time"`
	Version      string             `json:"version"`
	Subsystems   []SubsystemStatus  `json:"subsystems"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

// SubsystemStatus is one readiness check result.
type SubsystemStatus struct {
	Name   string       `json:"name"`
	Status HealthStatus `json:"status"`
	Detail string       `json:"detail,omitempty"`
}

// DependencyStatus describes a guarded external dependency.
type DependencyStatus struct {
	Name          string       `json:"name"`
	Status        HealthStatus `json:"status"`
	CircuitState  string       `json:"circuitState"`
	Requests      uint32       `json:"requests"`
	Failures      uint32       `json:"failures"`
	LastSuccessAt *Timestamp   `json:"lastSuccessAt,omitempty"`
	LastFailureAt *Timestamp   `json:"lastFailureAt,omitempty"`
	LastError     string       `json:"lastError,omitempty"`
}
