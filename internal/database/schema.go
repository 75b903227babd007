package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the DDL for every table the service owns. Statements are
// idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS locations (
		id                           BIGSERIAL PRIMARY KEY,
		name                         TEXT NOT NULL,
		region                       TEXT NOT NULL DEFAULT '',
		lat                          DOUBLE PRECISION NOT NULL,
		lng                          DOUBLE PRECISION NOT NULL,
		total_population             INTEGER NOT NULL DEFAULT 0,
		affected_families            INTEGER NOT NULL DEFAULT 0,
		current_supply               DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (current_supply >= 0),
		promised_supply              DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (promised_supply >= 0),
		required_supply              DOUBLE PRECISION NOT NULL DEFAULT 7 CHECK (required_supply > 0),
		urgency_level                TEXT NOT NULL,
		last_updated                 TIMESTAMPTZ NOT NULL DEFAULT now(),
		active_organizations         TEXT[] NOT NULL DEFAULT '{}',
		roads_accessible             BOOLEAN NOT NULL DEFAULT false,
		communication_available      BOOLEAN NOT NULL DEFAULT false,
		medical_facility_operational BOOLEAN NOT NULL DEFAULT false,
		children                     INTEGER NOT NULL DEFAULT 0,
		elderly                      INTEGER NOT NULL DEFAULT 0,
		disabled                     INTEGER NOT NULL DEFAULT 0,
		pregnant                     INTEGER NOT NULL DEFAULT 0,
		specific_needs               TEXT[] NOT NULL DEFAULT '{}'
	)`,
	// location_id has no foreign key; a link may outlive its location.
	`CREATE TABLE IF NOT EXISTS applications (
		id             BIGSERIAL PRIMARY KEY,
		organization   TEXT NOT NULL,
		aid_type       TEXT NOT NULL,
		quantity       TEXT NOT NULL DEFAULT '',
		description    TEXT NOT NULL DEFAULT '',
		submitted_date TEXT NOT NULL,
		delivery_date  TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL,
		priority       TEXT NOT NULL,
		location_id    BIGINT,
		aid_days       DOUBLE PRECISION
	)`,
	`CREATE INDEX IF NOT EXISTS applications_status_idx ON applications (status)`,
	`CREATE TABLE IF NOT EXISTS feature_flags (
		key        TEXT PRIMARY KEY,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates missing tables.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range Schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
