package cube

import (
	"context"
	"log"
	"time"

	"salescube/internal/metrics"
	"salescube/internal/warehouse"
	"salescube/pkg/records"
)

// Options configures a cube build.
type Options struct {
	// Job names the run for metrics labeling.
	Job string

	// OutputPath is where the final cube CSV is written. Empty disables
	// persistence (useful for tests and dry runs).
	OutputPath string
}

// Build runs the full pipeline: ingest and merge the warehouse tables,
// resolve source columns, derive per-row metrics, aggregate the cube, and
// compute growth. The store connection is released as soon as ingestion
// finishes; everything after runs on in-memory rows in a single pass.
//
// The computed cube is returned even when persisting it fails; a write
// failure is logged and reported through metrics, never propagated. A merge
// that yields zero rows produces an empty cube with a warning and writes
// nothing. Only the missing-sales-table case (MissingSourceError) and store
// read errors abort the run.
func Build(ctx context.Context, store warehouse.Store, opts Options) (*records.Table, error) {
	start := time.Now()

	merged, err := step(opts.Job, "ingest", func() (*records.Table, error) {
		return Ingest(ctx, store)
	})
	store.Close()
	if err != nil {
		return nil, err
	}
	log.Printf("cube: ingested %d merged rows, %d columns", merged.Len(), len(merged.Columns))

	if merged.Len() == 0 {
		log.Printf("cube: no data available from warehouse to build OLAP cube")
		return emptyCube(), nil
	}

	cols := resolveColumns(merged)

	derived, stats := derive(merged, cols)
	metrics.RecordRow(opts.Job, "bad_dates", int64(stats.badDates))
	metrics.RecordRow(opts.Job, "dropped_missing_region", int64(stats.droppedRegion))

	cube := aggregate(derived)
	cube = computeGrowth(cube)
	metrics.RecordRow(opts.Job, "cube_cells", int64(cube.Len()))
	metrics.RecordStep(opts.Job, "build", nil, time.Since(start))

	if opts.OutputPath != "" {
		wstart := time.Now()
		werr := WriteCSV(opts.OutputPath, cube)
		metrics.RecordStep(opts.Job, "write", werr, time.Since(wstart))
		if werr != nil {
			log.Printf("cube: failed to write OLAP cube to %s: %v", opts.OutputPath, werr)
		} else {
			log.Printf("cube: OLAP cube written to %s rows=%d", opts.OutputPath, cube.Len())
		}
	}

	return cube, nil
}

// step wraps one pipeline stage with duration/status metrics.
func step(job, name string, fn func() (*records.Table, error)) (*records.Table, error) {
	start := time.Now()
	t, err := fn()
	metrics.RecordStep(job, name, err, time.Since(start))
	return t, err
}

// emptyCube returns a cube with the complete output schema and no rows.
func emptyCube() *records.Table {
	return records.NewTable(OutputColumns...)
}
