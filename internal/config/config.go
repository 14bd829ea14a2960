// Package config defines the canonical, JSON-serializable configuration model
// for the cubing and data-prep binaries. It is intentionally small, explicit,
// and dependency-free so that a job can be loaded from disk and passed through
// the program without additional glue code; decoding is performed by the
// standard library.
//
// Example (trimmed):
//
//	{
//	  "name":      "smart_sales",
//	  "warehouse": { "kind": "sqlite", "dsn": "data/warehouse/smart_sales.db" },
//	  "output":    { "path": "data/olap_cubing_outputs/multidimensional_olap_cube.csv" },
//	  "prep":      { "raw_dir": "data/raw" },
//	  "metrics":   { "backend": "pushgateway", "pushgateway_url": "http://localhost:9091" }
//	}
package config

import (
	"encoding/json"
	"io"
	"os"
)

// Job is the top-level object decoded from a job file.
type Job struct {
	// Name identifies the run; it is used for metrics labeling.
	Name string `json:"name"`

	// Warehouse selects the consolidated warehouse store the cube reads
	// (and the prep jobs write, for backends with a write side).
	Warehouse Warehouse `json:"warehouse"`

	// Output configures cube persistence.
	Output Output `json:"output"`

	// Prep configures the data-preparation collaborator.
	Prep Prep `json:"prep"`

	// Metrics selects the metrics backend. Optional; flags can override.
	Metrics Metrics `json:"metrics"`
}

// Warehouse selects and configures the warehouse backend.
type Warehouse struct {
	// Kind selects the backend: "sqlite", "postgres", "mysql", or "mssql".
	Kind string `json:"kind"`

	// DSN is the backend connection string; for sqlite, the database file path.
	DSN string `json:"dsn"`
}

// Output configures where the final cube is written.
type Output struct {
	// Path is the cube CSV location, overwritten on each run. Empty disables
	// persistence.
	Path string `json:"path"`
}

// Prep configures the data-preparation jobs.
type Prep struct {
	// RawDir is the directory holding the raw CSV inputs
	// (sales_data.csv, products_data.csv, customers_data.csv).
	RawDir string `json:"raw_dir"`
}

// Metrics selects the metrics backend for a run.
type Metrics struct {
	// Backend is "pushgateway", "datadog", or "" / "none" to disable.
	Backend string `json:"backend"`

	// PushgatewayURL is the Prometheus Pushgateway base URL.
	PushgatewayURL string `json:"pushgateway_url"`

	// StatsdAddr is the DogStatsD address for the datadog backend.
	StatsdAddr string `json:"statsd_addr"`
}

// Load decodes a Job from the JSON file at path.
func Load(path string) (Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return Job{}, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode decodes a Job from r.
func Decode(r io.Reader) (Job, error) {
	var j Job
	if err := json.NewDecoder(r).Decode(&j); err != nil {
		return Job{}, err
	}
	return j, nil
}
