// Package postgres implements warehouse.Store on Postgres using pgx v5.
// The warehouse schema defaults to "public". Read-only: prepared tables are
// expected to be loaded by an external process when Postgres is the backing
// store.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"salescube/internal/warehouse"
	"salescube/pkg/records"
)

// Store is a Postgres-backed warehouse.Store.
type Store struct {
	pool   *pgxpool.Pool
	schema string
}

func init() {
	warehouse.Register("postgres", func(ctx context.Context, cfg warehouse.Config) (warehouse.Store, error) {
		return Open(ctx, cfg.DSN)
	})
}

// Open connects a pgx pool using the given DSN (e.g. "postgresql://...").
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Store{pool: pool, schema: "public"}, nil
}

// Close implements warehouse.Store.
func (s *Store) Close() { s.pool.Close() }

// Tables implements warehouse.Store via information_schema.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		 ORDER BY table_name`, s.schema)
	if err != nil {
		return nil, fmt.Errorf("postgres: list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("postgres: scan table name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// ReadTable implements warehouse.Store. The name comes from discovery against
// information_schema, so it is quoted rather than parameterized.
func (s *Store) ReadTable(ctx context.Context, name string) (*records.Table, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf("SELECT * FROM %s.%s", quoteIdent(s.schema), quoteIdent(name)))
	if err != nil {
		return nil, fmt.Errorf("postgres: read table %s: %w", name, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}

	t := records.NewTable(cols...)
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("postgres: row values: %w", err)
		}
		rec := make(records.Record, len(cols))
		for i, c := range cols {
			rec[c] = vals[i]
		}
		t.Rows = append(t.Rows, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: read table %s: %w", name, err)
	}
	return t, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
