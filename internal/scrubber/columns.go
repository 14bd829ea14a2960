package scrubber

import (
	"strings"

	"salescube/pkg/records"
)

// NormalizeColumnNames trims column names and optionally lower-cases them and
// replaces inner spaces with underscores, renaming row keys to match. Raw
// feeds disagree on header casing; normalizing up front lets one cleaning
// chain serve all of them.
type NormalizeColumnNames struct {
	Lower bool
}

func (op NormalizeColumnNames) Apply(t *records.Table) *records.Table {
	renamed := map[string]string{}
	for i, c := range t.Columns {
		name := strings.TrimSpace(c)
		if op.Lower {
			name = strings.ReplaceAll(strings.ToLower(name), " ", "_")
		}
		if name != c {
			renamed[c] = name
			t.Columns[i] = name
		}
	}
	if len(renamed) == 0 {
		return t
	}
	for _, row := range t.Rows {
		for old, name := range renamed {
			if v, ok := row[old]; ok {
				delete(row, old)
				row[name] = v
			}
		}
	}
	return t
}

// NumericColumns returns the columns whose every non-missing value parses as
// a number (and that have at least one such value). The data-prep jobs use
// it where a cleaning rule applies to "the numeric columns" of a feed whose
// schema is only known at runtime.
func NumericColumns(t *records.Table) []string {
	var out []string
	for _, c := range t.Columns {
		seen := false
		numeric := true
		for _, row := range t.Rows {
			if records.IsMissing(row[c]) {
				continue
			}
			if _, ok := records.AsFloat(row[c]); !ok {
				numeric = false
				break
			}
			seen = true
		}
		if seen && numeric {
			out = append(out, c)
		}
	}
	return out
}
