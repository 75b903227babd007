package featureflags

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores flags in the feature_flags table. The value
// column is JSONB so that non-boolean flags can be added without a
// migration; today only booleans are written.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a repository backed by pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Flag, error) {
	rows, err := r.pool.Query(ctx, `SELECT key, value, updated_at FROM feature_flags ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing feature flags: %w", err)
	}
	defer rows.Close()

	var out []Flag
	for rows.Next() {
		f, err := scanFlag(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Put upserts flags in one transaction.
func (r *PostgresRepository) Put(ctx context.Context, flags ...Flag) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, f := range flags {
			value, _ := json.Marshal(f.Enabled)
			if _, err := tx.Exec(ctx, `
				INSERT INTO feature_flags (key, value, updated_at)
				VALUES ($1, $2, $3)
				ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
			`, f.Key, value, f.UpdatedAt); err != nil {
				return fmt.Errorf("storing flag %s: %w", f.Key, err)
			}
		}
		return nil
	})
}

// EnsureDefaults inserts a row for every defined flag that has none, so the
// table lists every switch an operator can flip. Stored values are kept.
func (r *PostgresRepository) EnsureDefaults(ctx context.Context) error {
	batch := &pgx.Batch{}
	for _, d := range Definitions() {
		value, _ := json.Marshal(d.Default)
		batch.Queue(`
			INSERT INTO feature_flags (key, value)
			VALUES ($1, $2)
			ON CONFLICT (key) DO NOTHING
		`, d.Key, value)
	}
	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seeding feature flags: %w", err)
	}
	return nil
}

func scanFlag(row pgx.Row) (Flag, error) {
	var (
		f   Flag
		raw []byte
	)
	if err := row.Scan(&f.Key, &raw, &f.UpdatedAt); err != nil {
		return Flag{}, err
	}
	if err := json.Unmarshal(raw, &f.Enabled); err != nil {
		return Flag{}, fmt.Errorf("flag %s is not a boolean: %w", f.Key, err)
	}
	return f, nil
}

var _ Repository = (*PostgresRepository)(nil)
