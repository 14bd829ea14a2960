// Package warehouse contains the storage-agnostic contract for the
// consolidated warehouse store plus a factory keyed by backend kind.
//
// The cubing pipeline only ever reads whole tables; concrete backends
// (sqlite, postgres, mysql, mssql) register constructors at init time so that
// callers stay fully backend-agnostic and never import database drivers
// directly. The data-prep collaborator additionally needs a write side, which
// backends may provide by implementing Loader.
package warehouse

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"salescube/pkg/records"
)

// Config selects and configures a warehouse backend.
type Config struct {
	// Kind selects the backend implementation: "sqlite", "postgres",
	// "mysql", or "mssql".
	Kind string `json:"kind"`

	// DSN is the backend connection string. For sqlite this is the database
	// file path (optionally with URI parameters).
	DSN string `json:"dsn"`
}

// Store is the minimal read contract the cubing pipeline depends on. The
// connection is a scoped resource: callers open it for table discovery and
// reads only and Close it before derivation begins.
type Store interface {
	// Tables lists the table names present in the store.
	Tables(ctx context.Context) ([]string, error)

	// ReadTable loads the full contents of the named table.
	ReadTable(ctx context.Context, name string) (*records.Table, error)

	// Close releases the underlying connection(s).
	Close()
}

// Column describes one column of a table to be created by a Loader.
type Column struct {
	Name    string
	SQLType string // backend SQL type, e.g. TEXT, REAL, INTEGER
}

// Loader is the optional write side used by the data-prep jobs to populate
// the warehouse with cleaned tables. DropTable + CreateTable + InsertRows is
// the whole lifecycle; prepared tables are always rewritten from scratch.
type Loader interface {
	DropTable(ctx context.Context, name string) error
	CreateTable(ctx context.Context, name string, cols []Column) error
	InsertRows(ctx context.Context, name string, columns []string, rows [][]any) (int64, error)
}

// Factory constructs a Store for a Config.
type Factory func(ctx context.Context, cfg Config) (Store, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a backend kind. It is
// called from backend packages' init functions.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Store for the configured kind. Unknown kinds are an error that
// lists the registered backends, which in practice means the caller forgot
// the blank import of warehouse/all (or of a specific backend).
func New(ctx context.Context, cfg Config) (Store, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("warehouse: unknown kind %q (registered: %s)", cfg.Kind, strings.Join(Kinds(), ", "))
	}
	return f(ctx, cfg)
}

// Kinds returns the registered backend kinds in unspecified order.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	return out
}

// FindTable returns the first stored table whose name matches one of the
// candidates, comparing case-insensitively while preserving candidate
// priority order. It returns the stored (actual) name, or "" when no
// candidate matches.
func FindTable(tables []string, candidates ...string) string {
	for _, c := range candidates {
		for _, t := range tables {
			if strings.EqualFold(t, c) {
				return t
			}
		}
	}
	return ""
}
