// Package dataprep implements the cleaning collaborator: per-entity pipelines
// that read raw CSV feeds, apply the entity's scrubbing rules, and load the
// cleaned tables into the warehouse store the cubing pipeline reads from.
package dataprep

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"salescube/pkg/records"
)

// ReadCSV loads a raw CSV feed into a table. The first line is the header;
// header names are trimmed. The reader is deliberately tolerant: variable
// field counts, lazy quotes, and leading spaces all occur in raw exports.
// Short rows leave the missing cells nil; extra cells are dropped.
func ReadCSV(path string) (*records.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataprep: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return records.NewTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("dataprep: read header of %s: %w", path, err)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}

	t := records.NewTable(cols...)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataprep: read %s: %w", path, err)
		}
		row := make(records.Record, len(cols))
		for i, c := range cols {
			if i < len(rec) {
				row[c] = rec[i]
			} else {
				row[c] = nil
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
