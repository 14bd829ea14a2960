package cube

import (
	"testing"

	"salescube/pkg/records"
)

func derivedRow(product, region, quarter string, units, revenue float64, cogs, profit any) records.Record {
	return records.Record{
		ColProductName:  product,
		ColRegion:       region,
		ColSaleQuarter:  quarter,
		ColUnitsSold:    units,
		ColSalesRevenue: revenue,
		ColCOGSTotal:    cogs,
		ColGrossProfit:  profit,
	}
}

func TestAggregateGroupsAndSums(t *testing.T) {
	tbl := makeTable(nil,
		derivedRow("A", "East", "2024Q1", 2, 100, 60.0, 40.0),
		derivedRow("A", "East", "2024Q1", 3, 50, 30.0, 20.0),
		derivedRow("A", "West", "2024Q1", 1, 10, 5.0, 5.0),
	)

	got := aggregate(tbl)
	if got.Len() != 2 {
		t.Fatalf("cells = %d, want 2", got.Len())
	}

	east := got.Rows[0]
	if east[ColUnitsSold] != 5.0 || east[ColTotalSalesRevenue] != 150.0 {
		t.Fatalf("east sums = %v / %v", east[ColUnitsSold], east[ColTotalSalesRevenue])
	}
	if east[ColTotalCOGS] != 90.0 || east[ColGrossProfit] != 60.0 {
		t.Fatalf("east cogs/profit = %v / %v", east[ColTotalCOGS], east[ColGrossProfit])
	}
	if east[ColAvgSellingPrice] != 30.0 {
		t.Fatalf("east avg price = %v, want 30", east[ColAvgSellingPrice])
	}
	if east[ColAvgGrossProfit] != 12.0 {
		t.Fatalf("east avg profit = %v, want 12", east[ColAvgGrossProfit])
	}
}

func TestAggregateZeroUnitsAverages(t *testing.T) {
	tbl := makeTable(nil,
		derivedRow("A", "East", "2024Q1", 0, 100, 60.0, 40.0),
	)

	got := aggregate(tbl)
	row := got.Rows[0]
	if row[ColAvgSellingPrice] != nil {
		t.Fatalf("avg price with 0 units = %v, want nil", row[ColAvgSellingPrice])
	}
	if row[ColAvgGrossProfit] != nil {
		t.Fatalf("avg profit with 0 units = %v, want nil", row[ColAvgGrossProfit])
	}
	// Sums are still defined.
	if row[ColTotalSalesRevenue] != 100.0 {
		t.Fatalf("revenue = %v, want 100", row[ColTotalSalesRevenue])
	}
}

func TestAggregateUndefinedCOGSStaysUndefined(t *testing.T) {
	tbl := makeTable(nil,
		derivedRow("A", "East", "2024Q1", 2, 100, nil, nil),
		derivedRow("A", "East", "2024Q1", 1, 20, nil, nil),
	)

	got := aggregate(tbl)
	row := got.Rows[0]
	if row[ColTotalCOGS] != nil || row[ColGrossProfit] != nil {
		t.Fatalf("all-undefined cogs/profit = %v / %v, want nil", row[ColTotalCOGS], row[ColGrossProfit])
	}
	if row[ColAvgGrossProfit] != nil {
		t.Fatalf("avg profit = %v, want nil", row[ColAvgGrossProfit])
	}
}

func TestAggregateMixedDefinedCOGS(t *testing.T) {
	// An undefined contribution is skipped, not zeroed into the sum.
	tbl := makeTable(nil,
		derivedRow("A", "East", "2024Q1", 2, 100, 60.0, 40.0),
		derivedRow("A", "East", "2024Q1", 1, 20, nil, nil),
	)

	got := aggregate(tbl)
	row := got.Rows[0]
	if row[ColTotalCOGS] != 60.0 {
		t.Fatalf("cogs = %v, want 60", row[ColTotalCOGS])
	}
	if row[ColGrossProfit] != 40.0 {
		t.Fatalf("profit = %v, want 40", row[ColGrossProfit])
	}
}

func TestAggregateUnknownQuarterIsAGroup(t *testing.T) {
	tbl := makeTable(nil,
		derivedRow("A", "East", UnknownQuarter, 1, 10, 5.0, 5.0),
		derivedRow("A", "East", "2024Q1", 1, 10, 5.0, 5.0),
		derivedRow("A", "East", UnknownQuarter, 1, 10, 5.0, 5.0),
	)

	got := aggregate(tbl)
	if got.Len() != 2 {
		t.Fatalf("cells = %d, want 2 (unknown quarter groups rows)", got.Len())
	}
	unknown := got.Rows[0]
	if unknown[ColSaleQuarter] != UnknownQuarter || unknown[ColUnitsSold] != 2.0 {
		t.Fatalf("unknown-quarter cell = %v", unknown)
	}
}

func TestAggregatePreservesFirstSeenOrder(t *testing.T) {
	tbl := makeTable(nil,
		derivedRow("B", "West", "2024Q2", 1, 1, 0.0, 0.0),
		derivedRow("A", "East", "2024Q1", 1, 1, 0.0, 0.0),
		derivedRow("B", "West", "2024Q2", 1, 1, 0.0, 0.0),
	)

	got := aggregate(tbl)
	if got.Rows[0][ColProductName] != "B" || got.Rows[1][ColProductName] != "A" {
		t.Fatalf("group order = %v, %v", got.Rows[0][ColProductName], got.Rows[1][ColProductName])
	}
}
