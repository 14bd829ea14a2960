// Package cube builds the multidimensional sales OLAP cube: it ingests and
// merges warehouse tables, derives per-row metrics, aggregates by
// (product, region, quarter), and computes quarter-over-quarter sales growth.
//
// Source tables have no declared schema, so every semantically relevant
// column is located by scanning an ordered candidate list. The lists cover
// the naming variants seen across upstream feeds (snake_case, CamelCase,
// abbreviations); earlier candidates always win, even when a later one looks
// like a better semantic match. Changing the order changes behavior.
package cube

import "salescube/pkg/records"

// Concept identifies a semantically relevant column the pipeline needs to
// locate in a merged warehouse table.
type Concept int

const (
	ConceptSaleDate Concept = iota
	ConceptUnits
	ConceptSaleAmount
	ConceptCOGS
	ConceptProductName
	ConceptUnitPrice
	ConceptRegion
)

// String returns a short name for logging.
func (c Concept) String() string {
	switch c {
	case ConceptSaleDate:
		return "sale_date"
	case ConceptUnits:
		return "units"
	case ConceptSaleAmount:
		return "sale_amount"
	case ConceptCOGS:
		return "cogs"
	case ConceptProductName:
		return "product_name"
	case ConceptUnitPrice:
		return "unit_price"
	case ConceptRegion:
		return "region"
	default:
		return "unknown"
	}
}

// Candidate column names per concept, in priority order. Matching is
// case-sensitive; the join suffixes "_prod"/"_cust" appear where the merged
// table may only carry the column from a joined reference table.
var (
	SaleDateCandidates = []string{"sale_date", "SaleDate", "date", "saleDate", "transaction_date"}
	UnitsCandidates    = []string{"units", "quantity", "quantity_sold", "units_sold", "qty"}
	AmountCandidates   = []string{"sale_amount", "SaleAmount", "amount", "gross_amount", "saleamount", "total"}
	COGSCandidates     = []string{"cogs", "cost_of_goods_sold", "cost", "unit_cost"}

	ProductNameCandidates         = []string{"product_name", "product", "name"}
	ProductNameFallbackCandidates = []string{"product_name_prod", "name_prod"}

	UnitPriceCandidates = []string{"unitprice", "unit_price", "price", "unitPrice", "UnitPrice", "price_prod"}

	RegionCandidates         = []string{"region", "customer_region", "customerregion", "region_name", "region_cust"}
	RegionFallbackCandidates = []string{"region_prod"}
)

// Resolve returns the first candidate column for the concept that exists in
// the table, or "" when none matches. Absence is not an error; each caller
// has a documented fallback for the unresolved case.
func Resolve(t *records.Table, concept Concept) string {
	switch concept {
	case ConceptSaleDate:
		return firstExisting(t, SaleDateCandidates)
	case ConceptUnits:
		return firstExisting(t, UnitsCandidates)
	case ConceptSaleAmount:
		return firstExisting(t, AmountCandidates)
	case ConceptCOGS:
		return firstExisting(t, COGSCandidates)
	case ConceptProductName:
		if c := firstExisting(t, ProductNameCandidates); c != "" {
			return c
		}
		return firstExisting(t, ProductNameFallbackCandidates)
	case ConceptUnitPrice:
		return firstExisting(t, UnitPriceCandidates)
	case ConceptRegion:
		if c := firstExisting(t, RegionCandidates); c != "" {
			return c
		}
		return firstExisting(t, RegionFallbackCandidates)
	default:
		return ""
	}
}

// columnSet captures every resolved source column for one merged table.
// Empty string means "no candidate matched".
type columnSet struct {
	saleDate    string
	units       string
	saleAmount  string
	cogs        string
	productName string
	unitPrice   string
	region      string
}

// resolveColumns resolves all concepts against the merged table in one pass.
func resolveColumns(t *records.Table) columnSet {
	return columnSet{
		saleDate:    Resolve(t, ConceptSaleDate),
		units:       Resolve(t, ConceptUnits),
		saleAmount:  Resolve(t, ConceptSaleAmount),
		cogs:        Resolve(t, ConceptCOGS),
		productName: Resolve(t, ConceptProductName),
		unitPrice:   Resolve(t, ConceptUnitPrice),
		region:      Resolve(t, ConceptRegion),
	}
}

func firstExisting(t *records.Table, candidates []string) string {
	for _, c := range candidates {
		if t.HasColumn(c) {
			return c
		}
	}
	return ""
}
