// DeDup is the policy-driven de-duplication op for the cleaning chains. It
// collapses duplicate rows by a configured key (or by the full row when no
// key is given) and keeps a winner per key:
//
//   - "keep-first" : keep the earliest occurrence (default)
//   - "keep-last"  : keep the latest occurrence
//
// Keys are hashed with xxh3 over the key fields joined by a 0x1f separator
// (nil renders as 0x00), so de-duplication cost stays flat regardless of how
// wide the rows are. Run DeDup after TrimStrings so padded values compare
// equal.
package scrubber

import (
	"strings"

	"github.com/zeebo/xxh3"

	"salescube/pkg/records"
)

// DeDup removes duplicate rows.
type DeDup struct {
	// Keys are the field names forming the business key. Empty means the
	// full row (every table column) is the key.
	Keys []string

	// Policy selects the winner among duplicates: "keep-first" (default)
	// or "keep-last".
	Policy string
}

func (d DeDup) Apply(t *records.Table) *records.Table {
	if t.Len() == 0 {
		return t
	}

	// Key columns the table doesn't have cannot discriminate rows; with no
	// usable key the full row is the key.
	keys := presentColumns(t, d.Keys)
	if len(keys) == 0 {
		keys = t.Columns
	}

	policy := strings.ToLower(strings.TrimSpace(d.Policy))
	if policy == "" {
		policy = "keep-first"
	}

	type slot struct {
		row   records.Record
		index int // original position, for stable output order
	}

	winners := make(map[uint64]slot, t.Len())
	var order []uint64

	for i, row := range t.Rows {
		key := hashKey(row, keys)
		prev, seen := winners[key]
		switch {
		case !seen:
			winners[key] = slot{row: row, index: i}
			order = append(order, key)
		case policy == "keep-last":
			// Replace the row but keep the first occurrence's position.
			winners[key] = slot{row: row, index: prev.index}
		}
	}

	out := records.NewTable(t.Columns...)
	for _, key := range order {
		out.Rows = append(out.Rows, winners[key].row)
	}
	return out
}

// hashKey hashes the key fields of a row. Values are rendered as strings and
// joined with an unlikely separator before hashing.
func hashKey(row records.Record, keys []string) uint64 {
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		v, ok := row[k]
		if !ok || v == nil {
			b.WriteByte(0x00)
			continue
		}
		b.WriteString(records.AsString(v))
	}
	return xxh3.HashString(b.String())
}
