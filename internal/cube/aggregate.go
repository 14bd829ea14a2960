package cube

import "salescube/pkg/records"

// Cube-level column names. Summed revenue and cogs are renamed on
// aggregation; the remaining derived names carry through.
const (
	ColTotalSalesRevenue = "total_sales_revenue"
	ColTotalCOGS         = "total_cogs"
	ColAvgSellingPrice   = "average_selling_price"
	ColAvgGrossProfit    = "average_gross_profit"
	ColSalesGrowthPct    = "sales_growth_pct"
)

// groupKey is the cube cell coordinate. The unknown-quarter marker is a
// distinct, valid key; rows carrying it are grouped, not excluded.
type groupKey struct {
	product string
	region  string
	quarter string
}

// cell accumulates one group's sums. cogs and profit track whether any
// defined value contributed: a cell whose every contribution was undefined
// keeps an undefined total rather than a fabricated 0.
type cell struct {
	units      float64
	revenue    float64
	cogs       float64
	cogsSeen   bool
	profit     float64
	profitSeen bool
}

// aggregate groups derived rows by (product_name, region, sale_quarter) and
// sums units, revenue, cogs, and profit per group, then computes the average
// selling price and average gross profit. When a group's units_sold is
// exactly 0 the averages are undefined, never a division error and never 0.
func aggregate(t *records.Table) *records.Table {
	cells := make(map[groupKey]*cell)
	var order []groupKey

	for _, row := range t.Rows {
		key := groupKey{
			product: records.AsString(row[ColProductName]),
			region:  records.AsString(row[ColRegion]),
			quarter: records.AsString(row[ColSaleQuarter]),
		}
		c, ok := cells[key]
		if !ok {
			c = &cell{}
			cells[key] = c
			order = append(order, key)
		}

		units, _ := records.AsFloat(row[ColUnitsSold])
		c.units += units
		revenue, _ := records.AsFloat(row[ColSalesRevenue])
		c.revenue += revenue
		if cogs, ok := records.AsFloat(row[ColCOGSTotal]); ok {
			c.cogs += cogs
			c.cogsSeen = true
		}
		if profit, ok := records.AsFloat(row[ColGrossProfit]); ok {
			c.profit += profit
			c.profitSeen = true
		}
	}

	out := records.NewTable(
		ColProductName, ColRegion, ColSaleQuarter,
		ColUnitsSold, ColTotalSalesRevenue, ColTotalCOGS, ColGrossProfit,
		ColAvgSellingPrice, ColAvgGrossProfit,
	)
	for _, key := range order {
		c := cells[key]
		row := records.Record{
			ColProductName:       key.product,
			ColRegion:            key.region,
			ColSaleQuarter:       key.quarter,
			ColUnitsSold:         c.units,
			ColTotalSalesRevenue: c.revenue,
			ColTotalCOGS:         optional(c.cogs, c.cogsSeen),
			ColGrossProfit:       optional(c.profit, c.profitSeen),
			ColAvgSellingPrice:   average(c.revenue, true, c.units),
			ColAvgGrossProfit:    average(c.profit, c.profitSeen, c.units),
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// optional returns the sum, or nil when no defined value contributed.
func optional(v float64, seen bool) any {
	if !seen {
		return nil
	}
	return v
}

// average divides a defined total by units, undefined when units is 0 or the
// total itself is undefined.
func average(total float64, seen bool, units float64) any {
	if !seen || units == 0 {
		return nil
	}
	return total / units
}
