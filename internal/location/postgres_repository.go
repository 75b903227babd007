package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL location repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const selectLocation = `
	SELECT
		id, name, region, lat, lng,
		total_population, affected_families,
		current_supply, promised_supply, required_supply,
		urgency_level, last_updated, active_organizations,
		roads_accessible, communication_available, medical_facility_operational,
		children, elderly, disabled, pregnant,
		specific_needs
	FROM locations
`

// Get retrieves a location by ID.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Location, error) {
	loc, err := scanLocation(r.pool.QueryRow(ctx, selectLocation+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return loc, nil
}

// List retrieves all locations ordered by ID.
func (r *PostgresRepository) List(ctx context.Context) ([]*Location, error) {
	rows, err := r.pool.Query(ctx, selectLocation+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locs []*Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return locs, nil
}

// Create inserts loc and sets its ID from the table sequence.
func (r *PostgresRepository) Create(ctx context.Context, loc *Location) error {
	query := `
		INSERT INTO locations (
			name, region, lat, lng,
			total_population, affected_families,
			current_supply, promised_supply, required_supply,
			urgency_level, last_updated, active_organizations,
			roads_accessible, communication_available, medical_facility_operational,
			children, elderly, disabled, pregnant,
			specific_needs
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id
	`

	return r.pool.QueryRow(ctx, query, locationArgs(loc)...).Scan(&loc.ID)
}

// Modify locks the row, applies fn and writes the result in one transaction.
func (r *PostgresRepository) Modify(ctx context.Context, id int64, fn func(*Location) error) (*Location, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	loc, err := scanLocation(tx.QueryRow(ctx, selectLocation+` WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}

	if err := fn(loc); err != nil {
		return nil, err
	}
	loc.ID = id

	query := `
		UPDATE locations SET
			name = $1, region = $2, lat = $3, lng = $4,
			total_population = $5, affected_families = $6,
			current_supply = $7, promised_supply = $8, required_supply = $9,
			urgency_level = $10, last_updated = $11, active_organizations = $12,
			roads_accessible = $13, communication_available = $14, medical_facility_operational = $15,
			children = $16, elderly = $17, disabled = $18, pregnant = $19,
			specific_needs = $20
		WHERE id = $21
	`
	args := append(locationArgs(loc), id)
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return loc, nil
}

// Delete deletes a location by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	return err
}

// Seed inserts locs with their given IDs, skipping IDs that already exist,
// and moves the ID sequence past the highest stored ID.
func (r *PostgresRepository) Seed(ctx context.Context, locs []*Location) error {
	batch := &pgx.Batch{}
	for _, loc := range locs {
		batch.Queue(`
			INSERT INTO locations (
				name, region, lat, lng,
				total_population, affected_families,
				current_supply, promised_supply, required_supply,
				urgency_level, last_updated, active_organizations,
				roads_accessible, communication_available, medical_facility_operational,
				children, elderly, disabled, pregnant,
				specific_needs, id
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
			ON CONFLICT (id) DO NOTHING
		`, append(locationArgs(loc), loc.ID)...)
	}
	batch.Queue(`SELECT setval(pg_get_serial_sequence('locations', 'id'), GREATEST((SELECT MAX(id) FROM locations), 1))`)

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seeding locations: %w", err)
	}
	return nil
}

func locationArgs(l *Location) []any {
	return []any{
		l.Name, l.Region, l.Coordinates.Lat, l.Coordinates.Lng,
		l.TotalPopulation, l.AffectedFamilies,
		l.CurrentSupply, l.PromisedSupply, l.RequiredSupply,
		string(l.UrgencyLevel), l.LastUpdated, nonNil(l.ActiveOrganizations),
		l.Infrastructure.RoadsAccessible, l.Infrastructure.CommunicationAvailable, l.Infrastructure.MedicalFacilityOperational,
		l.Demographics.Children, l.Demographics.Elderly, l.Demographics.Disabled, l.Demographics.Pregnant,
		nonNil(l.SpecificNeeds),
	}
}

func scanLocation(row pgx.Row) (*Location, error) {
	var l Location
	var urgency string
	err := row.Scan(
		&l.ID, &l.Name, &l.Region, &l.Coordinates.Lat, &l.Coordinates.Lng,
		&l.TotalPopulation, &l.AffectedFamilies,
		&l.CurrentSupply, &l.PromisedSupply, &l.RequiredSupply,
		&urgency, &l.LastUpdated, &l.ActiveOrganizations,
		&l.Infrastructure.RoadsAccessible, &l.Infrastructure.CommunicationAvailable, &l.Infrastructure.MedicalFacilityOperational,
		&l.Demographics.Children, &l.Demographics.Elderly, &l.Demographics.Disabled, &l.Demographics.Pregnant,
		&l.SpecificNeeds,
	)
	if err != nil {
		return nil, err
	}
	l.UrgencyLevel = UrgencyLevel(urgency)
	return &l, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
