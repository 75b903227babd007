// Package worker provides background job processing for AidLink.
package worker

import (
	"time"
)

// Job types accepted on the jobs subscription.
const (
	JobTypeUrgencyAudit = "urgency_audit"
	JobTypeHealthCheck  = "health_check"
)

// AuditConfig holds configuration for the urgency audit job.
type AuditConfig struct {
	// Repair rewrites drifted urgency levels through the registry.
	// Default: false (report only)
	Repair bool

	// Concurrency is the number of concurrent repairs.
	// Default: 3
	Concurrency int

	// Timeout bounds each repair.
	// Default: 10 seconds
	Timeout time.Duration
}

// DefaultAuditConfig returns the default audit configuration.
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		Repair:      false,
		Concurrency: 3,
		Timeout:     10 * time.Second,
	}
}

func (c AuditConfig) withDefaults() AuditConfig {
	d := DefaultAuditConfig()
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	return c
}
