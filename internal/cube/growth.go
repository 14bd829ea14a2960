package cube

import (
	"log"
	"math"
	"sort"

	"salescube/pkg/records"
)

// OutputColumns is the exact, ordered column list of the final cube. Any
// expected column absent from the computed cube is added as an undefined
// placeholder so the output schema is always complete.
var OutputColumns = []string{
	ColProductName,
	ColRegion,
	ColSaleQuarter,
	ColUnitsSold,
	ColTotalSalesRevenue,
	ColSalesGrowthPct,
	ColTotalCOGS,
	ColGrossProfit,
	ColAvgSellingPrice,
	ColAvgGrossProfit,
}

// roundedColumns are rounded to 2 decimal places during finalization.
var roundedColumns = []string{
	ColUnitsSold,
	ColTotalSalesRevenue,
	ColTotalCOGS,
	ColGrossProfit,
	ColAvgSellingPrice,
	ColAvgGrossProfit,
	ColSalesGrowthPct,
}

// computeGrowth orders the cube chronologically, computes quarter-over-quarter
// percent change of total_sales_revenue within each (product, region) series,
// rounds all numeric columns to 2 decimals, and restricts the cube to the
// fixed output column order.
//
// Ordering: every quarter label must parse as a "YYYYQn" period for the
// chronological sort; if any label fails (including the unknown-quarter
// marker), the sort falls back to lexical ordering of the raw labels. The
// fallback can silently mis-order non-ISO labels, a known limitation kept
// as-is, but it is at least warned about.
//
// Growth: the first period of each series has growth 0, not undefined. A
// previous period with revenue exactly 0 leaves the percent change undefined.
func computeGrowth(cube *records.Table) *records.Table {
	periods, chronological := parsePeriods(cube)
	if !chronological && cube.Len() > 0 {
		log.Printf("cube: unparseable quarter labels; falling back to lexical quarter ordering")
	}

	sort.SliceStable(cube.Rows, func(i, j int) bool {
		a, b := cube.Rows[i], cube.Rows[j]
		if pa, pb := records.AsString(a[ColProductName]), records.AsString(b[ColProductName]); pa != pb {
			return pa < pb
		}
		if ra, rb := records.AsString(a[ColRegion]), records.AsString(b[ColRegion]); ra != rb {
			return ra < rb
		}
		qa, qb := records.AsString(a[ColSaleQuarter]), records.AsString(b[ColSaleQuarter])
		if chronological {
			return periods[qa].Before(periods[qb])
		}
		return qa < qb
	})

	var (
		prevProduct, prevRegion string
		prevRevenue             float64
		inSeries                bool
	)
	for _, row := range cube.Rows {
		product := records.AsString(row[ColProductName])
		region := records.AsString(row[ColRegion])
		revenue, _ := records.AsFloat(row[ColTotalSalesRevenue])

		switch {
		case !inSeries || product != prevProduct || region != prevRegion:
			// Chronologically-first observation of the series.
			row[ColSalesGrowthPct] = 0.0
		case prevRevenue == 0:
			row[ColSalesGrowthPct] = nil
		default:
			row[ColSalesGrowthPct] = (revenue - prevRevenue) / prevRevenue * 100
		}

		prevProduct, prevRegion, prevRevenue, inSeries = product, region, revenue, true
	}
	cube.AddColumn(ColSalesGrowthPct)

	return finalize(cube)
}

// parsePeriods parses every distinct quarter label. The second return is
// false when any label fails, which demotes the sort to lexical ordering.
func parsePeriods(cube *records.Table) (map[string]Quarter, bool) {
	periods := make(map[string]Quarter)
	ok := true
	for _, row := range cube.Rows {
		label := records.AsString(row[ColSaleQuarter])
		if _, seen := periods[label]; seen {
			continue
		}
		q, parsed := ParseQuarter(label)
		if !parsed {
			ok = false
			continue
		}
		periods[label] = q
	}
	return periods, ok
}

// finalize rounds the numeric columns and enforces the output schema: the
// fixed column order, with undefined placeholders for any absent column.
func finalize(cube *records.Table) *records.Table {
	for _, row := range cube.Rows {
		for _, c := range roundedColumns {
			if v, ok := records.AsFloat(row[c]); ok && row[c] != nil {
				row[c] = round2(v)
			}
		}
		for _, c := range OutputColumns {
			if _, ok := row[c]; !ok {
				row[c] = nil
			}
		}
	}
	cube.Columns = append([]string(nil), OutputColumns...)
	return cube
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
