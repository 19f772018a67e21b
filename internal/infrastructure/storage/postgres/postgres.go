// Package postgres provides a snapshot store backed by a one-row key/value
// table. The relational engine is used only as a durable document holder:
// the store contract is wholesale snapshot replacement, and the upsert keeps
// that atomic.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Key identifies the snapshot row.
const Key = "inventoryData"

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	key        text PRIMARY KEY,
	data       jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
)`

// Store persists the snapshot in the snapshots table.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to postgres and ensures the snapshots table exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure snapshots table: %w", err)
	}
	return &Store{pool: pool}, nil
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Load reads the snapshot row.
func (s *Store) Load(ctx context.Context) ([]byte, bool, error) {
	sql, args, err := builder().
		Select("data").
		From("snapshots").
		Where(squirrel.Eq{"key": Key}).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("build query: %w", err)
	}

	var row struct {
		Data []byte `db:"data"`
	}
	if err := pgxscan.Get(ctx, s.pool, &row, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read snapshot: %w", err)
	}
	return row.Data, true, nil
}

// Save upserts the snapshot row. The single-statement upsert keeps the
// wholesale-replace guarantee: the previous row survives a failed write.
func (s *Store) Save(ctx context.Context, data []byte) error {
	sql, args, err := builder().
		Insert("snapshots").
		Columns("key", "data").
		Values(Key, data).
		Suffix("ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := s.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Ping reports backend health for readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
