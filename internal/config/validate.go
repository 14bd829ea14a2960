// This file adds a lightweight linter/validator for Job values. It performs
// static checks over a decoded Job and returns a list of issues (errors and
// warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Job.
//
// Path is a dotted path into the config (e.g. "warehouse.kind"); Message is
// human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// knownWarehouseKinds matches the backends registered by warehouse/all.
var knownWarehouseKinds = map[string]bool{
	"sqlite":   true,
	"postgres": true,
	"mysql":    true,
	"mssql":    true,
}

// knownMetricsBackends matches the backends the CLIs can wire.
var knownMetricsBackends = map[string]bool{
	"":            true,
	"none":        true,
	"pushgateway": true,
	"datadog":     true,
}

// ValidateJob performs static validation of a Job without mutating it.
// Callers decide whether to treat warnings as fatal.
func ValidateJob(j Job) []Issue {
	var issues []Issue

	if strings.TrimSpace(j.Name) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "name",
			Message:  "name must not be empty; it is used for metrics labeling and identifying runs",
		})
	}

	switch {
	case strings.TrimSpace(j.Warehouse.Kind) == "":
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "warehouse.kind",
			Message:  "warehouse kind is required (sqlite, postgres, mysql, mssql)",
		})
	case !knownWarehouseKinds[j.Warehouse.Kind]:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "warehouse.kind",
			Message:  fmt.Sprintf("unknown warehouse kind %q", j.Warehouse.Kind),
		})
	}

	if strings.TrimSpace(j.Warehouse.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "warehouse.dsn",
			Message:  "warehouse DSN is required (for sqlite, the database file path)",
		})
	}

	if strings.TrimSpace(j.Output.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "output.path",
			Message:  "output path is empty; the cube will be computed but not persisted",
		})
	}

	if !knownMetricsBackends[j.Metrics.Backend] {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q; metrics will be disabled", j.Metrics.Backend),
		})
	}
	if j.Metrics.Backend == "datadog" && strings.TrimSpace(j.Metrics.StatsdAddr) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.statsd_addr",
			Message:  "datadog backend requires a DogStatsD address",
		})
	}

	return issues
}
