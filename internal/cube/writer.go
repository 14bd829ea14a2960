package cube

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"salescube/pkg/records"
)

// WriteCSV persists the cube as a delimited file at path, creating parent
// directories as needed and overwriting any prior output. The header row
// lists the table's columns in order; undefined values are emitted as the
// empty marker; numeric fields carry up to 2 decimal places (rounding
// happened during finalization).
func WriteCSV(path string, t *records.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cube: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cube: create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return fmt.Errorf("cube: write header: %w", err)
	}

	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, c := range t.Columns {
			record[i] = formatValue(row[c])
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("cube: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("cube: flush: %w", err)
	}
	return f.Sync()
}

// formatValue renders one cell. Undefined (nil) becomes the empty marker;
// floats print without trailing zeros.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	default:
		return records.AsString(t)
	}
}
