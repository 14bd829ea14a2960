package cube

import (
	"log"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"salescube/pkg/records"
)

// Derived column names appended to the merged table. If a source table
// already carries one of these names, the derived value replaces it.
const (
	ColSaleQuarter  = "sale_quarter"
	ColUnitsSold    = "units_sold"
	ColSalesRevenue = "sales_revenue"
	ColCOGSTotal    = "cogs_total"
	ColGrossProfit  = "gross_profit"
	ColProductName  = "product_name"
	ColRegion       = "region"
)

// deriveStats counts the recoverable degradations of a derive pass.
type deriveStats struct {
	badDates      int // rows whose sale date was missing or unparseable
	droppedRegion int // rows dropped for missing/empty region
}

// derive appends the computed metric columns to the merged table and drops
// rows without a usable region. The derivation order is fixed because later
// steps depend on earlier ones: quarter → units → revenue → cogs → profit →
// product name → region; region runs last since it also filters rows.
//
// Per-value failures never reject a row (other than the region rule):
// unparseable dates become the unknown-quarter marker, unparseable numbers
// become 0 for units/revenue and undefined (nil) for cogs.
func derive(t *records.Table, cols columnSet) (*records.Table, deriveStats) {
	var stats deriveStats

	for _, row := range t.Rows {
		row[ColSaleQuarter] = deriveQuarter(row, cols.saleDate, &stats)
		units := deriveUnits(row, cols.units)
		row[ColUnitsSold] = units
		row[ColSalesRevenue] = deriveRevenue(row, cols.saleAmount, cols.unitPrice, units)
		row[ColCOGSTotal] = deriveCOGS(row, cols.unitPrice, cols.cogs, units)
		row[ColGrossProfit] = deriveProfit(row)
		row[ColProductName] = deriveProductName(row, cols.productName, t.HasColumn(productKey))
	}
	if stats.badDates > 0 {
		log.Printf("cube: %d sale rows have invalid or null dates", stats.badDates)
	}

	t.AddColumn(ColSaleQuarter)
	t.AddColumn(ColUnitsSold)
	t.AddColumn(ColSalesRevenue)
	t.AddColumn(ColCOGSTotal)
	t.AddColumn(ColGrossProfit)
	t.AddColumn(ColProductName)

	out := deriveRegion(t, cols.region, &stats)
	if stats.droppedRegion > 0 {
		log.Printf("cube: %d rows dropped: missing or empty region", stats.droppedRegion)
	}
	return out, stats
}

// deriveQuarter buckets the sale date into a "YYYYQn" label. No date column,
// or a value that fails to parse, yields the unknown-quarter marker.
func deriveQuarter(row records.Record, dateCol string, stats *deriveStats) string {
	if dateCol == "" {
		return UnknownQuarter
	}
	d, ok := parseDate(records.AsString(row[dateCol]))
	if !ok {
		stats.badDates++
		return UnknownQuarter
	}
	return QuarterOf(d).String()
}

// deriveUnits defaults to 1 per row when no quantity-like column exists;
// non-parseable values become 0.
func deriveUnits(row records.Record, unitsCol string) float64 {
	if unitsCol == "" {
		return 1
	}
	units, ok := records.AsFloat(row[unitsCol])
	if !ok {
		return 0
	}
	return units
}

// deriveRevenue prefers an amount-like column, falls back to
// unit_price × units, and defaults to 0. Coercion failures count as 0.
func deriveRevenue(row records.Record, amountCol, priceCol string, units float64) float64 {
	if amountCol != "" {
		amount, ok := records.AsFloat(row[amountCol])
		if !ok {
			return 0
		}
		return amount
	}
	if priceCol != "" {
		price, ok := records.AsFloat(row[priceCol])
		if !ok {
			return 0
		}
		return price * units
	}
	return 0
}

// deriveCOGS uses unit_price × units as the cost proxy, falling back to an
// explicit cost column. With neither source, or on a coercion failure, the
// value is undefined (nil), never 0.
func deriveCOGS(row records.Record, priceCol, cogsCol string, units float64) any {
	if priceCol != "" {
		price, ok := records.AsFloat(row[priceCol])
		if !ok {
			return nil
		}
		return price * units
	}
	if cogsCol != "" {
		cogs, ok := records.AsFloat(row[cogsCol])
		if !ok {
			return nil
		}
		return cogs
	}
	return nil
}

// deriveProfit is revenue − cogs, undefined when cogs is undefined.
func deriveProfit(row records.Record) any {
	revenue, _ := records.AsFloat(row[ColSalesRevenue])
	cogs, ok := records.AsFloat(row[ColCOGSTotal])
	if !ok {
		return nil
	}
	return revenue - cogs
}

// deriveProductName resolves the display name, falling back to the
// product_id rendered as a string, then to undefined.
func deriveProductName(row records.Record, nameCol string, hasProductID bool) any {
	if nameCol != "" && !records.IsMissing(row[nameCol]) {
		return records.AsString(row[nameCol])
	}
	if hasProductID && !records.IsMissing(row[productKey]) {
		return records.AsString(row[productKey])
	}
	return nil
}

// deriveRegion normalizes the region label and drops rows whose region is
// missing or empty afterwards: region is a mandatory cube dimension.
func deriveRegion(t *records.Table, regionCol string, stats *deriveStats) *records.Table {
	out := records.NewTable(t.Columns...)
	out.AddColumn(ColRegion)
	for _, row := range t.Rows {
		region := ""
		if regionCol != "" {
			region = NormalizeRegion(row[regionCol])
		}
		if region == "" {
			stats.droppedRegion++
			continue
		}
		row[ColRegion] = region
		out.Rows = append(out.Rows, row)
	}
	return out
}

// NormalizeRegion produces the canonical region label: trimmed, the textual
// "nan" treated as missing, truncated at the first underscore or hyphen, and
// title-cased. An empty result means "no region".
func NormalizeRegion(v any) string {
	s := strings.TrimSpace(records.AsString(v))
	if s == "" || s == "nan" {
		return ""
	}
	if i := strings.IndexAny(s, "_-"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return cases.Title(language.Und).String(s)
}
