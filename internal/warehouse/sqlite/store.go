// Package sqlite implements the warehouse.Store contract on a SQLite file
// using database/sql. It is the primary backend: the consolidated warehouse
// is a single .db file reachable via a known path.
//
// The package also implements warehouse.Loader so the data-prep jobs can
// rewrite cleaned tables in place. Inserts run batched inside a transaction;
// SQLite has no bulk-load API like Postgres COPY, but transactions keep
// performance acceptable for the volumes involved.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure-Go driver; alternative: github.com/mattn/go-sqlite3

	"salescube/internal/warehouse"
	"salescube/pkg/records"
)

// Store is a SQLite-backed warehouse.Store and warehouse.Loader.
type Store struct {
	db *sql.DB
}

func init() {
	warehouse.Register("sqlite", func(ctx context.Context, cfg warehouse.Config) (warehouse.Store, error) {
		return Open(ctx, cfg.DSN)
	})
}

// Open opens the SQLite database at the given DSN. The DSN is passed through
// to database/sql; a bare file path works:
//
//	"data/warehouse/smart_sales.db"
//	"file:smart_sales.db?cache=shared"
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// The driver returns SQLITE_BUSY instead of waiting when two connections
	// write at once; a single connection serializes all access to the file.
	db.SetMaxOpenConns(1)

	// Fail fast on unreadable paths.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	return &Store{db: db}, nil
}

// Close implements warehouse.Store.
func (s *Store) Close() { s.db.Close() }

// Tables implements warehouse.Store by querying sqlite_master.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("sqlite: list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("sqlite: scan table name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// ReadTable implements warehouse.Store. The table name comes from discovery
// against sqlite_master, so it is quoted rather than parameterized.
func (s *Store) ReadTable(ctx context.Context, name string) (*records.Table, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(name))
	if err != nil {
		return nil, fmt.Errorf("sqlite: read table %s: %w", name, err)
	}
	defer rows.Close()
	return scanTable(rows)
}

// DropTable implements warehouse.Loader.
func (s *Store) DropTable(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
		return fmt.Errorf("sqlite: drop table %s: %w", name, err)
	}
	return nil
}

// CreateTable implements warehouse.Loader.
func (s *Store) CreateTable(ctx context.Context, name string, cols []warehouse.Column) error {
	if len(cols) == 0 {
		return fmt.Errorf("sqlite: create table %s: no columns", name)
	}
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = quoteIdent(c.Name) + " " + c.SQLType
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("sqlite: create table %s: %w", name, err)
	}
	return nil
}

// InsertRows implements warehouse.Loader with a single transaction and a
// prepared INSERT. len(row) must equal len(columns) for every row.
func (s *Store) InsertRows(ctx context.Context, name string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("sqlite: InsertRows: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(name), strings.Join(quoted, ", "), strings.Join(placeholders, ", "),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if len(row) != len(columns) {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("sqlite: InsertRows: row length %d != columns length %d", len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("sqlite: insert into %s: %w", name, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}

// scanTable drains a generic result set into a records.Table.
func scanTable(rows *sql.Rows) (*records.Table, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlite: columns: %w", err)
	}

	t := records.NewTable(cols...)
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		rec := make(records.Record, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				rec[c] = string(b)
			} else {
				rec[c] = vals[i]
			}
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, rows.Err()
}

// quoteIdent double-quotes an identifier, escaping embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
