package worker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidlink/aidlink/internal/location"
	"github.com/aidlink/aidlink/internal/worker"
)

func newDispatcher(auditor worker.LocationAuditor) *worker.Dispatcher {
	job := worker.NewAuditJob(worker.AuditJobConfig{Locations: auditor, Logger: zerolog.Nop()})
	return worker.NewDispatcher(job, zerolog.Nop())
}

func TestDispatcher_UrgencyAudit(t *testing.T) {
	registry := newRegistry(testLocations())
	d := newDispatcher(registry)

	jobType, err := d.Dispatch(context.Background(), []byte(`{"job_type":"urgency_audit"}`))
	require.NoError(t, err)
	assert.Equal(t, worker.JobTypeUrgencyAudit, jobType)

	loc, err := registry.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, location.UrgencyHigh, loc.UrgencyLevel)
}

func TestDispatcher_UrgencyAuditWithRepair(t *testing.T) {
	registry := newRegistry(testLocations())
	d := newDispatcher(registry)

	_, err := d.Dispatch(context.Background(), []byte(`{"job_type":"urgency_audit","repair":true}`))
	require.NoError(t, err)

	loc, err := registry.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, location.UrgencyLow, loc.UrgencyLevel)
}

func TestDispatcher_RepairFailuresNack(t *testing.T) {
	d := newDispatcher(&stubAuditor{locs: testLocations(), repairErr: errors.New("row locked")})

	_, err := d.Dispatch(context.Background(), []byte(`{"job_type":"urgency_audit","repair":true}`))
	require.Error(t, err)
	assert.False(t, worker.Ack(err))
}

func TestDispatcher_HealthCheck(t *testing.T) {
	d := newDispatcher(newRegistry(testLocations()))
	_, err := d.Dispatch(context.Background(), []byte(`{"job_type":"health_check"}`))
	assert.NoError(t, err)

	failing := newDispatcher(&stubAuditor{listErr: errors.New("pool closed")})
	_, err = failing.Dispatch(context.Background(), []byte(`{"job_type":"health_check"}`))
	assert.Error(t, err)
	assert.False(t, worker.Ack(err))
}

func TestDispatcher_UnknownJobTypeIsAcked(t *testing.T) {
	d := newDispatcher(newRegistry(testLocations()))

	jobType, err := d.Dispatch(context.Background(), []byte(`{"job_type":"provider_refresh"}`))
	require.ErrorIs(t, err, worker.ErrUnknownJobType)
	assert.Equal(t, "provider_refresh", jobType)
	assert.True(t, worker.Ack(err))
}

func TestDispatcher_MalformedIsNacked(t *testing.T) {
	d := newDispatcher(newRegistry(testLocations()))

	_, err := d.Dispatch(context.Background(), []byte(`not json`))
	require.ErrorIs(t, err, worker.ErrMalformedJob)
	assert.False(t, worker.Ack(err))
}
