// Package ingest imports the offline pipeline's hand-off artifacts —
// the county boundary shapefile and the per-county median workbook —
// into the reference data store.
package ingest

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/housing-cli/internal/model"
	"github.com/sells-group/housing-cli/internal/refdata"
)

// Options configures a load run.
type Options struct {
	MediansPath   string // XLSX workbook of per-county medians (required)
	ShapefilePath string // county boundary shapefile (optional)
}

// Result summarizes a load run.
type Result struct {
	Counties       int
	WithBoundaries int
}

// Load parses both artifacts concurrently, joins boundaries onto the
// median rows by county name, and bulk-upserts into the store.
func Load(ctx context.Context, store refdata.Store, opts Options) (*Result, error) {
	if opts.MediansPath == "" {
		return nil, eris.New("ingest: medians path is required")
	}

	var counties []model.CountySummary
	var boundaries map[string][]byte

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counties, err = ParseMedians(opts.MediansPath)
		return err
	})
	if opts.ShapefilePath != "" {
		g.Go(func() error {
			var err error
			boundaries, err = ParseBoundaries(opts.ShapefilePath)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log := zap.L().With(zap.String("component", "ingest"))

	var withBoundaries int
	for i := range counties {
		geom, ok := boundaries[counties[i].Name]
		if !ok {
			continue
		}
		counties[i].Geometry = geom
		withBoundaries++
	}
	if len(boundaries) > 0 && withBoundaries < len(counties) {
		log.Warn("ingest: some counties have no boundary geometry",
			zap.Int("counties", len(counties)),
			zap.Int("with_boundaries", withBoundaries),
		)
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, err
	}
	n, err := store.BulkUpsertCounties(ctx, counties)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: upsert counties")
	}

	log.Info("ingest: load complete",
		zap.Int64("counties", n),
		zap.Int("with_boundaries", withBoundaries),
	)

	return &Result{Counties: int(n), WithBoundaries: withBoundaries}, nil
}
