package dataprep

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"salescube/internal/metrics"
	"salescube/internal/warehouse"
)

// Run executes every entity pipeline against the raw directory and loads the
// cleaned tables into the warehouse. The three feeds are independent, so
// they read and clean concurrently; the Load calls are serialized behind a
// mutex because not every backend tolerates concurrent writers (sqlite
// returns SQLITE_BUSY rather than waiting).
//
// A missing raw file skips that entity with a warning rather than failing
// the run; feeds are delivered independently and the cube tolerates absent
// reference tables.
func Run(ctx context.Context, job, rawDir string, loader warehouse.Loader) error {
	g, ctx := errgroup.WithContext(ctx)
	var loadMu sync.Mutex

	for _, e := range Entities() {
		g.Go(func() error {
			start := time.Now()
			err := runEntity(ctx, rawDir, e, loader, &loadMu, job)
			metrics.RecordStep(job, "prep_"+e.Name, err, time.Since(start))
			return err
		})
	}
	return g.Wait()
}

func runEntity(ctx context.Context, rawDir string, e Entity, loader warehouse.Loader, loadMu *sync.Mutex, job string) error {
	path := filepath.Join(rawDir, e.File)
	raw, err := ReadCSV(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("dataprep: %s: raw file %s not found; skipping", e.Name, path)
			return nil
		}
		return err
	}
	log.Printf("dataprep: %s: read %d rows, %d columns from %s", e.Name, raw.Len(), len(raw.Columns), path)

	cleaned := e.Clean(raw)
	removed := raw.Len() - cleaned.Len()
	log.Printf("dataprep: %s: %d rows after cleaning (%d removed)", e.Name, cleaned.Len(), removed)
	metrics.RecordRow(job, "cleaned_"+e.Name, int64(cleaned.Len()))

	loadMu.Lock()
	n, err := Load(ctx, loader, e.Table, cleaned)
	loadMu.Unlock()
	if err != nil {
		return err
	}
	log.Printf("dataprep: %s: loaded %d rows into table %q", e.Name, n, e.Table)
	metrics.RecordRow(job, "loaded", n)
	return nil
}
