package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL application repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const selectApplication = `SELECT ` + applicationColumns + ` FROM applications`

// Get retrieves an application by ID.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Application, error) {
	app, err := scanApplication(r.pool.QueryRow(ctx, selectApplication+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

// List retrieves applications matching filter, ordered by ID.
func (r *PostgresRepository) List(ctx context.Context, filter Filter) ([]*Application, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Organization != "" {
		args = append(args, filter.Organization)
		conds = append(conds, fmt.Sprintf("organization = $%d", len(args)))
	}

	query := selectApplication
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return apps, nil
}

// Create inserts app and sets its ID from the table sequence.
func (r *PostgresRepository) Create(ctx context.Context, app *Application) error {
	query := `
		INSERT INTO applications (
			organization, aid_type, quantity, description,
			submitted_date, delivery_date, status, priority,
			location_id, aid_days
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.pool.QueryRow(ctx, query, applicationArgs(app)...).Scan(&app.ID)
}

// UpdateStatus replaces the status of an application.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status Status) (*Application, error) {
	query := `UPDATE applications SET status = $1 WHERE id = $2 RETURNING ` + applicationColumns
	app, err := scanApplication(r.pool.QueryRow(ctx, query, string(status), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

// Delete deletes an application by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	return err
}

// Seed inserts apps with their given IDs, skipping IDs that already exist,
// and moves the ID sequence past the highest stored ID.
func (r *PostgresRepository) Seed(ctx context.Context, apps []*Application) error {
	batch := &pgx.Batch{}
	for _, app := range apps {
		batch.Queue(`
			INSERT INTO applications (
				organization, aid_type, quantity, description,
				submitted_date, delivery_date, status, priority,
				location_id, aid_days, id
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO NOTHING
		`, append(applicationArgs(app), app.ID)...)
	}
	batch.Queue(`SELECT setval(pg_get_serial_sequence('applications', 'id'), GREATEST((SELECT MAX(id) FROM applications), 1))`)

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seeding applications: %w", err)
	}
	return nil
}

const applicationColumns = `
	id, organization, aid_type, quantity, description,
	submitted_date, delivery_date, status, priority,
	location_id, aid_days
`

func applicationArgs(a *Application) []any {
	return []any{
		a.Organization, a.AidType, a.Quantity, a.Description,
		a.SubmittedDate, a.DeliveryDate, string(a.Status), string(a.Priority),
		a.LocationID, a.AidDays,
	}
}

func scanApplication(row pgx.Row) (*Application, error) {
	var (
		a        Application
		status   string
		priority string
	)
	err := row.Scan(
		&a.ID, &a.Organization, &a.AidType, &a.Quantity, &a.Description,
		&a.SubmittedDate, &a.DeliveryDate, &status, &priority,
		&a.LocationID, &a.AidDays,
	)
	if err != nil {
		return nil, err
	}
	a.Status = Status(status)
	a.Priority = Priority(priority)
	return &a, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
