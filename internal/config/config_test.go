package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleJob = `{
  "name": "smart_sales",
  "warehouse": { "kind": "sqlite", "dsn": "data/warehouse/smart_sales.db" },
  "output": { "path": "data/olap_cubing_outputs/multidimensional_olap_cube.csv" },
  "prep": { "raw_dir": "data/raw" },
  "metrics": { "backend": "pushgateway", "pushgateway_url": "http://localhost:9091" }
}`

func TestDecode(t *testing.T) {
	j, err := Decode(strings.NewReader(sampleJob))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if j.Name != "smart_sales" {
		t.Fatalf("name = %q", j.Name)
	}
	if j.Warehouse.Kind != "sqlite" || j.Warehouse.DSN != "data/warehouse/smart_sales.db" {
		t.Fatalf("warehouse = %+v", j.Warehouse)
	}
	if j.Output.Path != "data/olap_cubing_outputs/multidimensional_olap_cube.csv" {
		t.Fatalf("output = %+v", j.Output)
	}
	if j.Prep.RawDir != "data/raw" {
		t.Fatalf("prep = %+v", j.Prep)
	}
	if j.Metrics.Backend != "pushgateway" || j.Metrics.PushgatewayURL != "http://localhost:9091" {
		t.Fatalf("metrics = %+v", j.Metrics)
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	if _, err := Decode(strings.NewReader("{not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.json")
	if err := os.WriteFile(path, []byte(sampleJob), 0o644); err != nil {
		t.Fatalf("write job file: %v", err)
	}

	j, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if j.Name != "smart_sales" {
		t.Fatalf("name = %q", j.Name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
