// Package refdata provides the read-only county reference data store:
// per-county median statistics and boundary geometry produced by the
// offline preparation pipeline, loaded once at startup.
package refdata

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/housing-cli/internal/model"
)

// Lookup failure sentinels. Handlers translate these to user-facing
// responses; the assembler aborts before scoring on either.
var (
	ErrCountyNotFound  = eris.New("refdata: county not found")
	ErrAmbiguousCounty = eris.New("refdata: county name matches multiple rows")
)

// Store defines persistence for county summaries. Writes happen only
// during offline loading; the serving path reads through a Snapshot.
type Store interface {
	// UpsertCounty inserts or replaces a county summary by name.
	UpsertCounty(ctx context.Context, c *model.CountySummary) error

	// BulkUpsertCounties upserts many summaries, returning the count written.
	BulkUpsertCounties(ctx context.Context, counties []model.CountySummary) (int64, error)

	// GetCounty retrieves a county summary by exact name. Returns
	// ErrCountyNotFound for zero rows and ErrAmbiguousCounty if the
	// table holds duplicate names.
	GetCounty(ctx context.Context, name string) (*model.CountySummary, error)

	// ListCounties returns all county summaries ordered by name.
	ListCounties(ctx context.Context) ([]model.CountySummary, error)

	// CountyNames returns all county names ordered alphabetically.
	CountyNames(ctx context.Context) ([]string, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
