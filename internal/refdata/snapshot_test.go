package refdata

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/housing-cli/internal/model"
)

func TestSnapshot_LookupAndNames(t *testing.T) {
	snap := NewSnapshot([]model.CountySummary{
		testCounty("Ventura"),
		testCounty("Alpine"),
	})

	assert.Equal(t, []string{"Alpine", "Ventura"}, snap.Names())
	assert.Equal(t, 2, snap.Len())

	got, err := snap.Lookup("Alpine")
	require.NoError(t, err)
	assert.Equal(t, "Alpine", got.Name)
}

func TestSnapshot_LookupMissing(t *testing.T) {
	snap := NewSnapshot([]model.CountySummary{testCounty("Ventura")})

	_, err := snap.Lookup("Shangri-La")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCountyNotFound))
}

func TestSnapshot_LookupAmbiguous(t *testing.T) {
	snap := NewSnapshot([]model.CountySummary{
		testCounty("Ventura"),
		testCounty("Ventura"),
	})

	_, err := snap.Lookup("Ventura")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAmbiguousCounty))
}

// Lookup returns a copy; mutating it must not leak into the snapshot.
func TestSnapshot_LookupReturnsCopy(t *testing.T) {
	snap := NewSnapshot([]model.CountySummary{testCounty("Ventura")})

	first, err := snap.Lookup("Ventura")
	require.NoError(t, err)
	first.Population = -1

	second, err := snap.Lookup("Ventura")
	require.NoError(t, err)
	assert.NotEqual(t, first.Population, second.Population)
}

func TestLoadSnapshot_EmptyStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	_, err = LoadSnapshot(context.Background(), st)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestLoadSnapshot_FromSQLite(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	c := testCounty("Placer")
	require.NoError(t, st.UpsertCounty(ctx, &c))

	snap, err := LoadSnapshot(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, []string{"Placer"}, snap.Names())
}
