// Package records defines the schema-flexible row and table model shared by
// the warehouse readers, the scrubber, and the cubing pipeline.
//
// Columns are discovered at runtime, never declared: a Record is simply a map
// from column name to a scalar value (string, numeric, bool, or nil). A Table
// pairs a slice of Records with an ordered column list so that output retains
// a stable column order even though the per-row storage is a map.
package records

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is a single row: column name -> scalar value. A missing key and a
// nil value are both treated as "no value".
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered collection of records. Columns carries the column order
// used for rendering and for membership checks; Rows may hold additional keys
// not listed in Columns, which renderers ignore.
type Table struct {
	Columns []string
	Rows    []Record
}

// NewTable constructs a Table with the given column order and no rows.
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns}
}

// HasColumn reports whether name is in the table's column list.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn appends name to the column list if not already present.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// TrimColumnNames strips leading/trailing whitespace from every column name,
// both in the column list and in each row's keys. Source tables frequently
// carry padded headers; all lookups happen after this pass.
func (t *Table) TrimColumnNames() {
	renamed := map[string]string{}
	for i, c := range t.Columns {
		trimmed := strings.TrimSpace(c)
		if trimmed != c {
			renamed[c] = trimmed
			t.Columns[i] = trimmed
		}
	}
	if len(renamed) == 0 {
		return
	}
	for _, row := range t.Rows {
		for old, trimmed := range renamed {
			if v, ok := row[old]; ok {
				delete(row, old)
				row[trimmed] = v
			}
		}
	}
}

// AsString renders v as a display string. Nil yields the empty string; []byte
// (as returned by some database drivers) is converted in place.
func AsString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// AsFloat coerces v to a float64. The second return is false when v is nil or
// cannot be interpreted as a number (callers decide the fallback: zero,
// undefined, or row rejection).
func AsFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case []byte:
		return parseFloat(string(t))
	case string:
		return parseFloat(t)
	default:
		return 0, false
	}
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// IsMissing reports whether v represents an absent value: nil or a blank
// string.
func IsMissing(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []byte:
		return strings.TrimSpace(string(t)) == ""
	default:
		return false
	}
}
