package cube

import (
	"context"
	"fmt"
	"log"
	"strings"

	"salescube/internal/warehouse"
	"salescube/pkg/records"
)

// Table name candidates, matched case-insensitively against the store's
// table list in priority order. The sales table is mandatory; product and
// customer reference tables are joined when present.
var (
	SalesTableCandidates    = []string{"sales", "sale", "transactions"}
	ProductTableCandidates  = []string{"product", "products", "store"}
	CustomerTableCandidates = []string{"customer", "customers"}
)

// Join key columns and the suffixes applied to colliding columns of the
// joined side. The left (sales) side always keeps its column names.
const (
	productKey     = "product_id"
	customerKey    = "customer_id"
	productSuffix  = "_prod"
	customerSuffix = "_cust"
)

// MissingSourceError is the fatal "nothing to cube" condition: no sales-like
// table exists in the warehouse.
type MissingSourceError struct {
	Candidates []string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("cube: no sales table found in warehouse (tried: %s)", strings.Join(e.Candidates, ", "))
}

// Ingest loads the sales table and left-joins product and customer reference
// tables onto it where a shared key column exists. The store connection is
// only used here; callers close it before derivation begins.
//
// Reference tables are optional. A reference table without the shared key on
// both sides is skipped with a warning, never an error.
func Ingest(ctx context.Context, store warehouse.Store) (*records.Table, error) {
	tables, err := store.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("cube: list warehouse tables: %w", err)
	}

	salesName := warehouse.FindTable(tables, SalesTableCandidates...)
	if salesName == "" {
		return nil, &MissingSourceError{Candidates: SalesTableCandidates}
	}
	productName := warehouse.FindTable(tables, ProductTableCandidates...)
	customerName := warehouse.FindTable(tables, CustomerTableCandidates...)

	sales, err := store.ReadTable(ctx, salesName)
	if err != nil {
		return nil, fmt.Errorf("cube: read sales table: %w", err)
	}
	sales.TrimColumnNames()

	merged := sales

	if productName != "" {
		products, err := store.ReadTable(ctx, productName)
		if err != nil {
			return nil, fmt.Errorf("cube: read product table: %w", err)
		}
		products.TrimColumnNames()
		if products.Len() > 0 {
			if merged.HasColumn(productKey) && products.HasColumn(productKey) {
				merged = leftJoin(merged, products, productKey, productSuffix)
			} else {
				log.Printf("cube: product table %q present but no common %q key to join on", productName, productKey)
			}
		}
	}

	if customerName != "" {
		customers, err := store.ReadTable(ctx, customerName)
		if err != nil {
			return nil, fmt.Errorf("cube: read customer table: %w", err)
		}
		customers.TrimColumnNames()
		if customers.Len() > 0 {
			if merged.HasColumn(customerKey) && customers.HasColumn(customerKey) {
				merged = leftJoin(merged, customers, customerKey, customerSuffix)
			} else {
				log.Printf("cube: customer table %q present but no common %q key to join on", customerName, customerKey)
			}
		}
	}

	return merged, nil
}

// leftJoin joins right onto left by equality on key. Every left row survives:
// unmatched keys yield nil-filled joined columns, and a left row matching
// several right rows yields one merged row per match. Right-side columns that
// collide with an existing left column are renamed with the suffix; the key
// column itself is carried once, from the left side.
func leftJoin(left, right *records.Table, key, suffix string) *records.Table {
	// Resolve the output name of each incoming right column.
	rightCols := make([]string, 0, len(right.Columns))
	outName := make(map[string]string, len(right.Columns))
	for _, c := range right.Columns {
		if c == key {
			continue
		}
		name := c
		if hasString(left.Columns, c) {
			name = c + suffix
		}
		rightCols = append(rightCols, c)
		outName[c] = name
	}

	out := records.NewTable(left.Columns...)
	for _, c := range rightCols {
		out.AddColumn(outName[c])
	}

	index := make(map[string][]records.Record, right.Len())
	for _, r := range right.Rows {
		k := records.AsString(r[key])
		index[k] = append(index[k], r)
	}

	for _, l := range left.Rows {
		matches := index[records.AsString(l[key])]
		if len(matches) == 0 {
			row := l.Clone()
			for _, c := range rightCols {
				row[outName[c]] = nil
			}
			out.Rows = append(out.Rows, row)
			continue
		}
		for _, m := range matches {
			row := l.Clone()
			for _, c := range rightCols {
				row[outName[c]] = m[c]
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

func hasString(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}
