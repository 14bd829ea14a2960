package dataprep

import (
	"context"
	"fmt"

	"salescube/internal/scrubber"
	"salescube/internal/warehouse"
	"salescube/pkg/records"
)

// Load rewrites the named warehouse table from the cleaned rows: drop,
// create, insert. Column SQL types are inferred from the data: columns
// whose non-missing values all parse as numbers become REAL, everything
// else TEXT. The cubing pipeline re-coerces values anyway, so inference only
// needs to be good enough for sensible storage.
func Load(ctx context.Context, loader warehouse.Loader, name string, t *records.Table) (int64, error) {
	if err := loader.DropTable(ctx, name); err != nil {
		return 0, err
	}

	numeric := map[string]bool{}
	for _, c := range scrubber.NumericColumns(t) {
		numeric[c] = true
	}
	cols := make([]warehouse.Column, len(t.Columns))
	for i, c := range t.Columns {
		sqlType := "TEXT"
		if numeric[c] {
			sqlType = "REAL"
		}
		cols[i] = warehouse.Column{Name: c, SQLType: sqlType}
	}
	if err := loader.CreateTable(ctx, name, cols); err != nil {
		return 0, err
	}

	rows := make([][]any, t.Len())
	for i, row := range t.Rows {
		vals := make([]any, len(t.Columns))
		for j, c := range t.Columns {
			v := row[c]
			if numeric[c] && !records.IsMissing(v) {
				if f, ok := records.AsFloat(v); ok {
					v = f
				}
			}
			vals[j] = v
		}
		rows[i] = vals
	}

	n, err := loader.InsertRows(ctx, name, t.Columns, rows)
	if err != nil {
		return n, fmt.Errorf("dataprep: load %s: %w", name, err)
	}
	return n, nil
}
