// Package scrubber contains reusable cleaning operations for tabular data:
// de-duplication, missing-value handling, outlier filtering, format
// standardization, and simple validation rules.
//
// Each operation is a small struct with an Apply method; a Chain runs them in
// order. Ops are pure with respect to the table structure (they may mutate
// row values in place but never reorder surviving rows), which keeps each
// rule independently testable. The data-prep jobs compose entity-specific
// chains from these ops before loading cleaned tables into the warehouse.
package scrubber

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"salescube/pkg/records"
)

// Op is a single cleaning operation.
type Op interface {
	Apply(t *records.Table) *records.Table
}

// Chain is an ordered list of operations.
type Chain []Op

// Apply runs each op in order.
func (c Chain) Apply(t *records.Table) *records.Table {
	out := t
	for _, op := range c {
		out = op.Apply(out)
	}
	return out
}

// TrimStrings strips leading/trailing whitespace from string values. With an
// empty Columns list it applies to every column.
type TrimStrings struct {
	Columns []string
}

func (op TrimStrings) Apply(t *records.Table) *records.Table {
	cols := op.Columns
	if len(cols) == 0 {
		cols = t.Columns
	}
	for _, row := range t.Rows {
		for _, c := range cols {
			if s, ok := row[c].(string); ok {
				row[c] = strings.TrimSpace(s)
			}
		}
	}
	return t
}

// DropMissing removes rows that are missing a value in any of the listed
// columns. Columns absent from the table are ignored, so one rule can serve
// feeds with differing schemas.
type DropMissing struct {
	Columns []string
}

func (op DropMissing) Apply(t *records.Table) *records.Table {
	present := presentColumns(t, op.Columns)
	if len(present) == 0 {
		return t
	}
	out := records.NewTable(t.Columns...)
	for _, row := range t.Rows {
		keep := true
		for _, c := range present {
			if records.IsMissing(row[c]) {
				keep = false
				break
			}
		}
		if keep {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// FillMissing replaces missing values in Column with a constant.
type FillMissing struct {
	Column string
	Value  any
}

func (op FillMissing) Apply(t *records.Table) *records.Table {
	if !t.HasColumn(op.Column) {
		return t
	}
	for _, row := range t.Rows {
		if records.IsMissing(row[op.Column]) {
			row[op.Column] = op.Value
		}
	}
	return t
}

// FillMedian replaces missing values in a numeric column with the column's
// median (computed over the defined values).
type FillMedian struct {
	Column string
}

func (op FillMedian) Apply(t *records.Table) *records.Table {
	if !t.HasColumn(op.Column) {
		return t
	}
	vals := columnValues(t, op.Column)
	if len(vals) == 0 {
		return t
	}
	med := quantile(vals, 0.5)
	for _, row := range t.Rows {
		if records.IsMissing(row[op.Column]) {
			row[op.Column] = med
		}
	}
	return t
}

// IQROutliers drops rows whose value in any listed numeric column falls
// outside [Q1 − 1.5·IQR, Q3 + 1.5·IQR]. Columns with a zero or undefined IQR
// are skipped. Rows whose value does not parse as a number are dropped along
// with the out-of-range ones, matching the upstream cleaning scripts.
type IQROutliers struct {
	Columns []string
}

func (op IQROutliers) Apply(t *records.Table) *records.Table {
	for _, c := range presentColumns(t, op.Columns) {
		vals := columnValues(t, c)
		if len(vals) == 0 {
			continue
		}
		q1 := quantile(vals, 0.25)
		q3 := quantile(vals, 0.75)
		iqr := q3 - q1
		if iqr == 0 || math.IsNaN(iqr) {
			continue
		}
		lower := q1 - 1.5*iqr
		upper := q3 + 1.5*iqr

		out := records.NewTable(t.Columns...)
		for _, row := range t.Rows {
			v, ok := records.AsFloat(row[c])
			if ok && v >= lower && v <= upper {
				out.Rows = append(out.Rows, row)
			}
		}
		t = out
	}
	return t
}

// Bounds drops rows whose numeric value in Column is outside [Min, Max].
// Non-numeric values are dropped too.
type Bounds struct {
	Column   string
	Min, Max float64
}

func (op Bounds) Apply(t *records.Table) *records.Table {
	if !t.HasColumn(op.Column) {
		return t
	}
	out := records.NewTable(t.Columns...)
	for _, row := range t.Rows {
		v, ok := records.AsFloat(row[op.Column])
		if ok && v >= op.Min && v <= op.Max {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// RequirePositive drops rows whose numeric value in Column is missing, not a
// number, or not strictly positive (identifier sanity rule).
type RequirePositive struct {
	Column string
}

func (op RequirePositive) Apply(t *records.Table) *records.Table {
	if !t.HasColumn(op.Column) {
		return t
	}
	out := records.NewTable(t.Columns...)
	for _, row := range t.Rows {
		if v, ok := records.AsFloat(row[op.Column]); ok && v > 0 {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// TitleCase trims and title-cases string values in the listed columns.
type TitleCase struct {
	Columns []string
}

func (op TitleCase) Apply(t *records.Table) *records.Table {
	caser := cases.Title(language.Und)
	for _, c := range presentColumns(t, op.Columns) {
		for _, row := range t.Rows {
			if records.IsMissing(row[c]) {
				continue
			}
			row[c] = caser.String(strings.TrimSpace(records.AsString(row[c])))
		}
	}
	return t
}

// LowerCase trims and lower-cases string values in the listed columns.
type LowerCase struct {
	Columns []string
}

func (op LowerCase) Apply(t *records.Table) *records.Table {
	for _, c := range presentColumns(t, op.Columns) {
		for _, row := range t.Rows {
			if records.IsMissing(row[c]) {
				continue
			}
			row[c] = strings.ToLower(strings.TrimSpace(records.AsString(row[c])))
		}
	}
	return t
}

// UpperCase trims and upper-cases string values in the listed columns.
type UpperCase struct {
	Columns []string
}

func (op UpperCase) Apply(t *records.Table) *records.Table {
	for _, c := range presentColumns(t, op.Columns) {
		for _, row := range t.Rows {
			if records.IsMissing(row[c]) {
				continue
			}
			row[c] = strings.ToUpper(strings.TrimSpace(records.AsString(row[c])))
		}
	}
	return t
}

// presentColumns filters the requested columns down to those the table has.
func presentColumns(t *records.Table, requested []string) []string {
	var out []string
	for _, c := range requested {
		if t.HasColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

// columnValues collects the parseable numeric values of a column.
func columnValues(t *records.Table, col string) []float64 {
	var vals []float64
	for _, row := range t.Rows {
		if v, ok := records.AsFloat(row[col]); ok {
			vals = append(vals, v)
		}
	}
	return vals
}

// quantile computes the q-quantile (0..1) with linear interpolation between
// closest ranks, the same scheme the upstream cleaning scripts used.
func quantile(vals []float64, q float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
