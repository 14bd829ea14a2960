package dataprep

import (
	"math"

	"salescube/internal/scrubber"
	"salescube/pkg/records"
)

// Entity describes one raw feed: its input file, its destination warehouse
// table, and the cleaning chain applied in between. Chains reference columns
// that may or may not exist in a given feed; ops skip absent columns, so the
// same rules survive schema drift across exports.
type Entity struct {
	Name  string // job/step label
	File  string // raw CSV file name under the raw directory
	Table string // destination warehouse table
	Clean func(t *records.Table) *records.Table
}

// Entities returns the built-in feeds in their canonical order.
func Entities() []Entity {
	return []Entity{
		{Name: "sales", File: "sales_data.csv", Table: "sales", Clean: cleanSales},
		{Name: "products", File: "products_data.csv", Table: "products", Clean: cleanProducts},
		{Name: "customers", File: "customers_data.csv", Table: "customers", Clean: cleanCustomers},
	}
}

// cleanSales mirrors the sales preparation rules: dedupe by transaction,
// drop rows missing critical identifiers or amounts, conservative fills,
// IQR outlier removal on the sale amount, bounds sanity checks, and ISO
// date standardization.
func cleanSales(t *records.Table) *records.Table {
	return scrubber.Chain{
		scrubber.NormalizeColumnNames{},
		scrubber.TrimStrings{},
		scrubber.DeDup{Keys: []string{"TransactionID"}},
		scrubber.DropMissing{Columns: []string{"TransactionID", "SaleAmount", "CustomerID", "ProductID"}},
		scrubber.FillMissing{Column: "DiscountPercent", Value: 0.0},
		scrubber.FillMissing{Column: "PaymentType", Value: "Unknown"},
		scrubber.IQROutliers{Columns: []string{"SaleAmount"}},
		scrubber.Bounds{Column: "SaleAmount", Min: 0, Max: math.MaxFloat64},
		scrubber.Bounds{Column: "DiscountPercent", Min: 0, Max: 100},
		scrubber.RequirePositive{Column: "TransactionID"},
		scrubber.ISODates{Columns: []string{"SaleDate", "sale_date"}},
	}.Apply(t)
}

// cleanProducts mirrors the product preparation rules. Product feeds arrive
// with inconsistent header casing, so column names are lower-cased first.
func cleanProducts(t *records.Table) *records.Table {
	return scrubber.Chain{
		scrubber.NormalizeColumnNames{Lower: true},
		scrubber.TrimStrings{},
		scrubber.DeDup{Keys: []string{"productid"}},
		scrubber.DropMissing{Columns: []string{"productid"}},
		scrubber.RequirePositive{Column: "productid"},
		scrubber.IQROutliers{Columns: []string{"unitprice", "stockcount"}},
		scrubber.Bounds{Column: "unitprice", Min: 0, Max: math.MaxFloat64},
		scrubber.Bounds{Column: "stockcount", Min: 0, Max: math.MaxFloat64},
		scrubber.TitleCase{Columns: []string{"productname"}},
		scrubber.LowerCase{Columns: []string{"category"}},
	}.Apply(t)
}

// cleanCustomers mirrors the customer preparation rules: full-row dedupe,
// name fill, mandatory customer id, then median fills and IQR outlier
// removal across whatever numeric columns the feed happens to carry.
func cleanCustomers(t *records.Table) *records.Table {
	t = scrubber.Chain{
		scrubber.NormalizeColumnNames{},
		scrubber.TrimStrings{},
		scrubber.DeDup{},
		scrubber.FillMissing{Column: "CustomerName", Value: "Unknown"},
		scrubber.DropMissing{Columns: []string{"CustomerID"}},
	}.Apply(t)

	numeric := scrubber.NumericColumns(t)
	for _, c := range numeric {
		t = scrubber.FillMedian{Column: c}.Apply(t)
	}
	return scrubber.IQROutliers{Columns: numeric}.Apply(t)
}
