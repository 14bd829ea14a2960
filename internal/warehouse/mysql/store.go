// Package mysql implements warehouse.Store on MySQL/MariaDB via database/sql
// and the go-sql-driver. Read-only, like the postgres backend.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"salescube/internal/warehouse"
	"salescube/pkg/records"
)

// Store is a MySQL-backed warehouse.Store.
type Store struct {
	db *sql.DB
}

func init() {
	warehouse.Register("mysql", func(ctx context.Context, cfg warehouse.Config) (warehouse.Store, error) {
		return Open(ctx, cfg.DSN)
	})
}

// Open opens a MySQL connection. DSN format is the go-sql-driver form, e.g.
// "user:pass@tcp(host:3306)/warehouse".
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql: ping: %w", err)
	}
	return &Store{db: db}, nil
}

// Close implements warehouse.Store.
func (s *Store) Close() { s.db.Close() }

// Tables implements warehouse.Store, listing base tables of the current
// database.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
		 ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("mysql: list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("mysql: scan table name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// ReadTable implements warehouse.Store.
func (s *Store) ReadTable(ctx context.Context, name string) (*records.Table, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(name))
	if err != nil {
		return nil, fmt.Errorf("mysql: read table %s: %w", name, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("mysql: columns: %w", err)
	}

	t := records.NewTable(cols...)
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("mysql: scan: %w", err)
		}
		rec := make(records.Record, len(cols))
		for i, c := range cols {
			// The driver hands back []byte for most column types.
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

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
