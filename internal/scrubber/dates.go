package scrubber

import (
	"strings"
	"time"

	"salescube/pkg/records"
)

// isoLayout is the standardized date format the prep jobs emit, matching
// what the cubing pipeline parses first.
const isoLayout = "2006-01-02"

// rawDateLayouts are the formats raw feeds have shown up with.
var rawDateLayouts = []string{
	isoLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
}

// ISODates re-formats date values in the listed columns to ISO YYYY-MM-DD.
// Values that fail to parse under every known layout are left as-is; the
// cubing pipeline degrades those to its unknown-quarter bucket downstream.
type ISODates struct {
	Columns []string
}

func (op ISODates) Apply(t *records.Table) *records.Table {
	for _, c := range presentColumns(t, op.Columns) {
		for _, row := range t.Rows {
			if records.IsMissing(row[c]) {
				continue
			}
			s := strings.TrimSpace(records.AsString(row[c]))
			for _, layout := range rawDateLayouts {
				if d, err := time.Parse(layout, s); err == nil {
					row[c] = d.Format(isoLayout)
					break
				}
			}
		}
	}
	return t
}
