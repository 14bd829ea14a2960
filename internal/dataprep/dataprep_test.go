package dataprep

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"salescube/internal/warehouse"
	"salescube/pkg/records"
)

// fakeLoader records the drop/create/insert lifecycle in memory.
type fakeLoader struct {
	dropped []string
	created map[string][]warehouse.Column
	rows    map[string][][]any
	columns map[string][]string
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		created: map[string][]warehouse.Column{},
		rows:    map[string][][]any{},
		columns: map[string][]string{},
	}
}

func (l *fakeLoader) DropTable(ctx context.Context, name string) error {
	l.dropped = append(l.dropped, name)
	return nil
}

func (l *fakeLoader) CreateTable(ctx context.Context, name string, cols []warehouse.Column) error {
	l.created[name] = cols
	return nil
}

func (l *fakeLoader) InsertRows(ctx context.Context, name string, columns []string, rows [][]any) (int64, error) {
	l.columns[name] = columns
	l.rows[name] = rows
	return int64(len(rows)), nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "feed.csv", " id , name \n1,Widget\n2\n3,Gadget,extra\n")

	got, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if !reflect.DeepEqual(got.Columns, []string{"id", "name"}) {
		t.Fatalf("columns = %v", got.Columns)
	}
	if got.Len() != 3 {
		t.Fatalf("rows = %d, want 3", got.Len())
	}
	if got.Rows[1]["name"] != nil {
		t.Fatalf("short row cell = %v, want nil", got.Rows[1]["name"])
	}
	if got.Rows[2]["name"] != "Gadget" {
		t.Fatalf("row = %v (extra cell should be dropped)", got.Rows[2])
	}
}

func TestReadCSVEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.csv", "")

	got, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if got.Len() != 0 || len(got.Columns) != 0 {
		t.Fatalf("table = %+v, want empty", got)
	}
}

func TestLoadInfersTypes(t *testing.T) {
	tbl := records.NewTable("id", "name", "price")
	tbl.Rows = []records.Record{
		{"id": "1", "name": "Widget", "price": "9.50"},
		{"id": "2", "name": "Gadget", "price": "12"},
	}

	loader := newFakeLoader()
	n, err := Load(context.Background(), loader, "products", tbl)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 2 {
		t.Fatalf("inserted = %d, want 2", n)
	}
	if !reflect.DeepEqual(loader.dropped, []string{"products"}) {
		t.Fatalf("dropped = %v", loader.dropped)
	}

	want := []warehouse.Column{
		{Name: "id", SQLType: "REAL"},
		{Name: "name", SQLType: "TEXT"},
		{Name: "price", SQLType: "REAL"},
	}
	if !reflect.DeepEqual(loader.created["products"], want) {
		t.Fatalf("created = %v, want %v", loader.created["products"], want)
	}

	// Numeric columns are coerced to float64 on the way in.
	if !reflect.DeepEqual(loader.rows["products"][0], []any{1.0, "Widget", 9.5}) {
		t.Fatalf("row = %v", loader.rows["products"][0])
	}
}

func TestCleanSales(t *testing.T) {
	tbl := records.NewTable("TransactionID", "ProductID", "CustomerID", "SaleAmount", "SaleDate", "DiscountPercent", "PaymentType")
	add := func(id, product, customer, amount, date string) {
		tbl.Rows = append(tbl.Rows, records.Record{
			"TransactionID": id, "ProductID": product, "CustomerID": customer,
			"SaleAmount": amount, "SaleDate": date, "DiscountPercent": nil, "PaymentType": nil,
		})
	}
	add("1", "10", "c1", "100", "03/15/2024")
	add("1", "10", "c1", "100", "03/15/2024") // duplicate transaction
	add("2", "", "c2", "50", "2024-03-16")    // missing product id
	add("3", "11", "c3", "75", "2024-03-17")

	got := cleanSales(tbl)
	if got.Len() != 2 {
		t.Fatalf("rows = %d, want 2", got.Len())
	}
	first := got.Rows[0]
	if first["SaleDate"] != "2024-03-15" {
		t.Fatalf("date not standardized: %v", first["SaleDate"])
	}
	if first["DiscountPercent"] != 0.0 {
		t.Fatalf("discount fill = %v, want 0", first["DiscountPercent"])
	}
	if first["PaymentType"] != "Unknown" {
		t.Fatalf("payment fill = %v", first["PaymentType"])
	}
}

func TestCleanProducts(t *testing.T) {
	tbl := records.NewTable("ProductID", "ProductName", "Category")
	tbl.Rows = []records.Record{
		{"ProductID": "1", "ProductName": " wireless MOUSE ", "Category": " Electronics "},
		{"ProductID": "1", "ProductName": "dup", "Category": "x"},
		{"ProductID": "", "ProductName": "orphan", "Category": "y"},
	}

	got := cleanProducts(tbl)
	if got.Len() != 1 {
		t.Fatalf("rows = %d, want 1", got.Len())
	}
	row := got.Rows[0]
	if row["productname"] != "Wireless Mouse" {
		t.Fatalf("productname = %v", row["productname"])
	}
	if row["category"] != "electronics" {
		t.Fatalf("category = %v", row["category"])
	}
}

func TestCleanCustomers(t *testing.T) {
	tbl := records.NewTable("CustomerID", "CustomerName", "Age")
	tbl.Rows = []records.Record{
		{"CustomerID": "c1", "CustomerName": nil, "Age": "30"},
		{"CustomerID": "c1", "CustomerName": nil, "Age": "30"}, // exact duplicate
		{"CustomerID": "", "CustomerName": "x", "Age": "40"},
		{"CustomerID": "c2", "CustomerName": "Bob", "Age": nil},
		{"CustomerID": "c3", "CustomerName": "Eve", "Age": "50"},
	}

	got := cleanCustomers(tbl)
	if got.Len() != 3 {
		t.Fatalf("rows = %d, want 3", got.Len())
	}
	if got.Rows[0]["CustomerName"] != "Unknown" {
		t.Fatalf("name fill = %v", got.Rows[0]["CustomerName"])
	}
	// Missing age filled with the median of 30 and 50.
	if got.Rows[1]["Age"] != 40.0 {
		t.Fatalf("age fill = %v, want 40", got.Rows[1]["Age"])
	}
}

func TestRunSkipsMissingFeeds(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "products_data.csv", "ProductID,ProductName\n1,Widget\n")

	loader := newFakeLoader()
	if err := Run(context.Background(), "test", dir, loader); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, ok := loader.rows["products"]; !ok {
		t.Fatalf("products feed not loaded")
	}
	if _, ok := loader.rows["sales"]; ok {
		t.Fatalf("missing sales feed should have been skipped")
	}
	if _, ok := loader.rows["customers"]; ok {
		t.Fatalf("missing customers feed should have been skipped")
	}
}
