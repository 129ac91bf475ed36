package refdata

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/housing-cli/internal/model"
)

// Snapshot is an immutable in-memory view of the county table, loaded
// once at startup and shared read-only across requests. Duplicate names
// in the backing table are preserved so lookups can fail with
// ErrAmbiguousCounty instead of silently picking a row.
type Snapshot struct {
	byName map[string][]model.CountySummary
	names  []string
}

// LoadSnapshot reads every county from the store into memory.
func LoadSnapshot(ctx context.Context, store Store) (*Snapshot, error) {
	counties, err := store.ListCounties(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "refdata: load snapshot")
	}
	if len(counties) == 0 {
		return nil, eris.New("refdata: county table is empty; run the load command first")
	}

	snap := NewSnapshot(counties)

	zap.L().Info("refdata: snapshot loaded",
		zap.Int("counties", len(snap.names)),
	)
	return snap, nil
}

// NewSnapshot builds a snapshot from county rows; used directly by tests.
func NewSnapshot(counties []model.CountySummary) *Snapshot {
	byName := make(map[string][]model.CountySummary, len(counties))
	for _, c := range counties {
		byName[c.Name] = append(byName[c.Name], c)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Snapshot{byName: byName, names: names}
}

// Lookup returns the unique county summary for name. Zero matches fail
// with ErrCountyNotFound, multiple with ErrAmbiguousCounty.
func (s *Snapshot) Lookup(name string) (*model.CountySummary, error) {
	rows := s.byName[name]
	switch len(rows) {
	case 0:
		return nil, eris.Wrapf(ErrCountyNotFound, "refdata: county %q", name)
	case 1:
		c := rows[0]
		return &c, nil
	default:
		return nil, eris.Wrapf(ErrAmbiguousCounty, "refdata: county %q has %d rows", name, len(rows))
	}
}

// Names returns all county names in alphabetical order.
func (s *Snapshot) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of distinct county names.
func (s *Snapshot) Len() int {
	return len(s.names)
}
