package feature

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/housing-cli/internal/config"
	"github.com/sells-group/housing-cli/internal/model"
	"github.com/sells-group/housing-cli/internal/refdata"
)

func testForm() config.FormConfig {
	return config.FormConfig{
		AgeMin:      1,
		AgeMax:      50,
		IncomeMin:   5.0,
		IncomeMax:   100.0,
		IncomeScale: 10.0,
	}
}

func lakeview() model.CountySummary {
	return model.CountySummary{
		Name:                   "Lakeview",
		Longitude:              -120.5,
		Latitude:               38.2,
		TotalRooms:             2000,
		TotalBedrooms:          400,
		Population:             1000,
		Households:             350,
		OceanProximity:         "INLAND",
		RoomsPerHousehold:      5.7,
		BedroomsPerRooms:       0.2,
		PopulationPerHousehold: 2.9,
	}
}

func newTestAssembler(t *testing.T, counties ...model.CountySummary) *Assembler {
	t.Helper()
	return NewAssembler(refdata.NewSnapshot(counties), testForm())
}

func TestAssemble_CopiesCountyFieldsAndDerives(t *testing.T) {
	a := newTestAssembler(t, lakeview())

	rec, countyCtx, err := a.Assemble(Input{County: "Lakeview", HousingAge: 15, IncomeDisplay: 45.0})
	require.NoError(t, err)

	assert.Equal(t, 15, rec.HousingMedianAge)
	assert.InDelta(t, 4.5, rec.MedianIncome, 1e-12)
	assert.Equal(t, 4, rec.MedianIncomeCat)

	assert.InDelta(t, -120.5, rec.Longitude, 1e-12)
	assert.InDelta(t, 38.2, rec.Latitude, 1e-12)
	assert.InDelta(t, 2000, rec.TotalRooms, 1e-12)
	assert.InDelta(t, 400, rec.TotalBedrooms, 1e-12)
	assert.InDelta(t, 1000, rec.Population, 1e-12)
	assert.InDelta(t, 350, rec.Households, 1e-12)
	assert.Equal(t, "INLAND", rec.OceanProximity)
	assert.InDelta(t, 5.7, rec.RoomsPerHousehold, 1e-12)
	assert.InDelta(t, 0.2, rec.BedroomsPerRooms, 1e-12)
	assert.InDelta(t, 2.9, rec.PopulationPerHousehold, 1e-12)

	require.NotNil(t, countyCtx)
	assert.Equal(t, "Lakeview", countyCtx.Name)
	assert.InDelta(t, 38.2, countyCtx.ViewState.Latitude, 1e-12)
	assert.InDelta(t, -120.5, countyCtx.ViewState.Longitude, 1e-12)
	assert.Equal(t, 5, countyCtx.ViewState.Zoom)
}

func TestAssemble_Deterministic(t *testing.T) {
	a := newTestAssembler(t, lakeview())
	in := Input{County: "Lakeview", HousingAge: 22, IncomeDisplay: 37.5}

	rec1, _, err := a.Assemble(in)
	require.NoError(t, err)
	rec2, _, err := a.Assemble(in)
	require.NoError(t, err)

	assert.Equal(t, rec1, rec2)
}

func TestAssemble_CountyNotFound(t *testing.T) {
	a := newTestAssembler(t, lakeview())

	_, _, err := a.Assemble(Input{County: "Atlantis", HousingAge: 10, IncomeDisplay: 45.0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, refdata.ErrCountyNotFound))
}

func TestAssemble_AmbiguousCounty(t *testing.T) {
	// Duplicate injection: two rows share a name.
	a := newTestAssembler(t, lakeview(), lakeview())

	_, _, err := a.Assemble(Input{County: "Lakeview", HousingAge: 10, IncomeDisplay: 45.0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, refdata.ErrAmbiguousCounty))
}

func TestAssemble_AgeBounds(t *testing.T) {
	a := newTestAssembler(t, lakeview())

	for _, age := range []int{0, 51, -3} {
		_, _, err := a.Assemble(Input{County: "Lakeview", HousingAge: age, IncomeDisplay: 45.0})
		require.Error(t, err, "age=%d", age)
		assert.True(t, errors.Is(err, ErrInvalidInput), "age=%d", age)
	}

	for _, age := range []int{1, 50} {
		_, _, err := a.Assemble(Input{County: "Lakeview", HousingAge: age, IncomeDisplay: 45.0})
		require.NoError(t, err, "age=%d", age)
	}
}

func TestAssemble_IncomeBounds(t *testing.T) {
	a := newTestAssembler(t, lakeview())

	for _, inc := range []float64{0, -10, 4.99, 100.01} {
		_, _, err := a.Assemble(Input{County: "Lakeview", HousingAge: 10, IncomeDisplay: inc})
		require.Error(t, err, "income=%v", inc)
		assert.True(t, errors.Is(err, ErrInvalidInput), "income=%v", inc)
	}

	for _, inc := range []float64{5.0, 100.0} {
		_, _, err := a.Assemble(Input{County: "Lakeview", HousingAge: 10, IncomeDisplay: inc})
		require.NoError(t, err, "income=%v", inc)
	}
}

func TestAssemble_EmptyCounty(t *testing.T) {
	a := newTestAssembler(t, lakeview())

	_, _, err := a.Assemble(Input{County: "", HousingAge: 10, IncomeDisplay: 45.0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

// Input validation must run before the county lookup so a bad scalar
// never reports a lookup failure.
func TestAssemble_ValidationPrecedesLookup(t *testing.T) {
	a := newTestAssembler(t, lakeview())

	_, _, err := a.Assemble(Input{County: "Atlantis", HousingAge: 0, IncomeDisplay: 45.0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.False(t, errors.Is(err, refdata.ErrCountyNotFound))
}
