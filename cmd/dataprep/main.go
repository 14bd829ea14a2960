package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"salescube/internal/config"
	"salescube/internal/dataprep"
	"salescube/internal/warehouse/sqlite"
)

// main is the entry point for the data-prep binary. It reads the raw CSV
// feeds, runs each entity's cleaning chain, and rewrites the cleaned tables
// in the warehouse that the cubing binary reads from.
//
// Only backends with a write side can be prepared directly; that is the
// sqlite warehouse. Server-backed warehouses (postgres, mysql, mssql) are
// expected to be loaded by external tooling.
func main() {
	var (
		cfgPath   string
		rawDirFlg string
	)

	flag.StringVar(&cfgPath, "config", "configs/smart_sales.json", "job config JSON path")
	flag.StringVar(&rawDirFlg, "raw-dir", "", "directory with raw CSV feeds (overrides config)")

	flag.Parse()

	job, err := config.Load(cfgPath)
	if err != nil {
		fatalf("load config: %v", err)
	}

	issues := config.ValidateJob(job)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Printf("configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}

	if job.Warehouse.Kind != "sqlite" {
		fatalf("dataprep requires a sqlite warehouse; got kind %q", job.Warehouse.Kind)
	}

	rawDir := job.Prep.RawDir
	if rawDirFlg != "" {
		rawDir = rawDirFlg
	}
	if rawDir == "" {
		rawDir = "data/raw"
	}

	ctx := context.Background()
	start := time.Now()

	store, err := sqlite.Open(ctx, job.Warehouse.DSN)
	if err != nil {
		log.Fatalf("open warehouse: %v", err)
	}
	defer store.Close()

	if err := dataprep.Run(ctx, job.Name, rawDir, store); err != nil {
		log.Fatalf("%v", err)
	}

	log.Printf("dataprep: completed in %s", time.Since(start).Truncate(time.Millisecond))
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
