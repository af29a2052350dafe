package learning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxIface is the subset of pgxpool.Pool the backend needs; pgxmock
// satisfies it in tests.
type PgxIface interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresBackend persists the store as a single jsonb row, upserted on
// every save. The schema lives in pkg/db/migrations.
type PostgresBackend struct {
	db PgxIface
}

// NewPostgresBackend creates a backend over a pgx pool (or mock).
func NewPostgresBackend(db PgxIface) *PostgresBackend {
	return &PostgresBackend{db: db}
}

// Load reads the single learned_patterns row. No row yet means a fresh
// install: (nil, nil).
func (b *PostgresBackend) Load(ctx context.Context) (*State, error) {
	var payload []byte
	err := b.db.QueryRow(ctx, `SELECT payload FROM learned_patterns WHERE id = 1`).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load learned store: %w", err)
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("failed to decode learned store: %w", err)
	}
	return &state, nil
}

// Save upserts the full state into the single row.
func (b *PostgresBackend) Save(ctx context.Context, state *State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode learned store: %w", err)
	}

	query := `
		INSERT INTO learned_patterns (id, payload, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = now()
	`
	if _, err := b.db.Exec(ctx, query, payload); err != nil {
		return fmt.Errorf("failed to save learned store: %w", err)
	}
	return nil
}
