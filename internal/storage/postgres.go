package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jimengapi/internal/catalog"
)

// PGStore keeps the snapshot document in a single-row Postgres table so
// multiple gateway instances share one refreshed catalog.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore wraps an existing pgx pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// EnsureSchema creates the snapshot table when it does not exist yet.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	query := `
CREATE TABLE IF NOT EXISTS model_snapshots (
    id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
    document JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("storage: ensure snapshot table: %w", err)
	}
	return nil
}

// Load fetches the snapshot row and decodes its document.
func (s *PGStore) Load(ctx context.Context) (*catalog.Snapshot, error) {
	query := `SELECT document FROM model_snapshots WHERE id = 1;`
	var raw []byte
	if err := s.pool.QueryRow(ctx, query).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("storage: snapshot row missing: %w", err)
		}
		return nil, fmt.Errorf("storage: read snapshot: %w", err)
	}
	var snap catalog.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("storage: decode snapshot: %w", err)
	}
	return &snap, nil
}

// Save upserts the snapshot document.
func (s *PGStore) Save(ctx context.Context, snap *catalog.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("storage: encode snapshot: %w", err)
	}
	query := `
INSERT INTO model_snapshots (id, document, updated_at)
VALUES (1, $1, NOW())
ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = NOW();
`
	if _, err := s.pool.Exec(ctx, query, raw); err != nil {
		return fmt.Errorf("storage: write snapshot: %w", err)
	}
	return nil
}
