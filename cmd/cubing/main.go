package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"salescube/internal/config"
	"salescube/internal/cube"
	"salescube/internal/metrics"
	"salescube/internal/metrics/datadog"
	"salescube/internal/metrics/prompush"
	"salescube/internal/warehouse"

	// register all warehouse backends with the factory.
	_ "salescube/internal/warehouse/all"
)

// main is the entry point for the cubing binary. It loads the job config,
// optionally initializes a metrics backend, and builds the OLAP cube.
func main() {
	var (
		cfgPath           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		outputFlg         string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/smart_sales.json", "job config JSON path")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (pushgateway, datadog, none; overrides config)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides config and env PUSHGATEWAY_URL)")
	flag.StringVar(&outputFlg, "output", "", "cube output CSV path (overrides config)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

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
	if validate {
		log.Printf("configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	initMetrics(job, metricsBackendFlg, pushGatewayURLFlg, *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	outputPath := job.Output.Path
	if outputFlg != "" {
		outputPath = outputFlg
	}

	ctx := context.Background()
	start := time.Now()

	store, err := warehouse.New(ctx, warehouse.Config{Kind: job.Warehouse.Kind, DSN: job.Warehouse.DSN})
	if err != nil {
		log.Fatalf("open warehouse: %v", err)
	}

	if *verbose {
		log.Printf("job: name=%s warehouse=%s output=%s", job.Name, job.Warehouse.Kind, outputPath)
	}

	cubeTable, err := cube.Build(ctx, store, cube.Options{Job: job.Name, OutputPath: outputPath})
	if err != nil {
		log.Fatalf("%v", err)
	}

	log.Printf("cube: %d cells in %s", cubeTable.Len(), time.Since(start).Truncate(time.Millisecond))
}

// initMetrics decides the metrics backend: flag → config → env → disabled.
func initMetrics(job config.Job, backendFlg, gwURLFlg string, verbose bool) {
	backendName := backendFlg
	if backendName == "" {
		backendName = job.Metrics.Backend
	}
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}

	switch backendName {
	case "pushgateway":
		gwURL := gwURLFlg
		if gwURL == "" {
			gwURL = job.Metrics.PushgatewayURL
		}
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(job.Name, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=pushgateway url=%v job=%v", gwURL, job.Name)
		metrics.SetBackend(b)

	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:      job.Metrics.StatsdAddr,
			Namespace: "salescube.",
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=datadog addr=%v job=%v", job.Metrics.StatsdAddr, job.Name)
		metrics.SetBackend(b)

	case "", "none":
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
