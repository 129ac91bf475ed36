// Package feature assembles prediction inputs: it turns the small set
// of user-facing form values plus a county selection into the complete,
// correctly-ordered record the trained regressor expects.
package feature

import (
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/housing-cli/internal/boundary"
	"github.com/sells-group/housing-cli/internal/config"
	"github.com/sells-group/housing-cli/internal/income"
	"github.com/sells-group/housing-cli/internal/model"
	"github.com/sells-group/housing-cli/internal/refdata"
)

// ErrInvalidInput marks a user-adjustable scalar outside its domain.
// The form clamps before submitting, so hitting this means a buggy or
// bypassed client; the request aborts either way.
var ErrInvalidInput = eris.New("feature: invalid input")

// Assembler builds feature records from an immutable county snapshot.
// It is pure over its inputs: identical arguments against the same
// snapshot always yield identical records.
type Assembler struct {
	snap *refdata.Snapshot
	form config.FormConfig
}

// NewAssembler creates an assembler over a loaded snapshot.
func NewAssembler(snap *refdata.Snapshot, form config.FormConfig) *Assembler {
	return &Assembler{snap: snap, form: form}
}

// Input holds the raw user-submitted values for one prediction.
type Input struct {
	County        string  `json:"county"`
	HousingAge    int     `json:"housing_age"`
	IncomeDisplay float64 `json:"median_income"`
}

// Assemble validates the input, resolves the county, derives the scaled
// income and its bracket, and returns the feature record together with
// the county's presentation context.
func (a *Assembler) Assemble(in Input) (*model.FeatureRecord, *model.CountyContext, error) {
	if err := a.validate(in); err != nil {
		return nil, nil, err
	}

	county, err := a.snap.Lookup(in.County)
	if err != nil {
		return nil, nil, err
	}

	scaled := in.IncomeDisplay / a.form.IncomeScale
	cat, err := income.Categorize(scaled)
	if err != nil {
		return nil, nil, eris.Wrap(err, "feature: categorize income")
	}

	rec := &model.FeatureRecord{
		Longitude:              county.Longitude,
		Latitude:               county.Latitude,
		HousingMedianAge:       in.HousingAge,
		TotalRooms:             county.TotalRooms,
		TotalBedrooms:          county.TotalBedrooms,
		Population:             county.Population,
		Households:             county.Households,
		MedianIncome:           scaled,
		OceanProximity:         county.OceanProximity,
		MedianIncomeCat:        cat,
		RoomsPerHousehold:      county.RoomsPerHousehold,
		BedroomsPerRooms:       county.BedroomsPerRooms,
		PopulationPerHousehold: county.PopulationPerHousehold,
	}

	bnd, err := boundary.Prepare(county)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "feature: prepare boundary for %s", county.Name)
	}

	ctxOut := &model.CountyContext{
		Name:      county.Name,
		Longitude: county.Longitude,
		Latitude:  county.Latitude,
		Boundary:  bnd,
		ViewState: model.DefaultViewState(county.Latitude, county.Longitude),
	}

	zap.L().Debug("feature: record assembled",
		zap.String("county", county.Name),
		zap.Int("housing_age", in.HousingAge),
		zap.Float64("median_income", scaled),
		zap.Int("income_cat", cat),
	)

	return rec, ctxOut, nil
}

// validate checks the user-adjustable scalars against the configured
// form domains. Income must be positive regardless of configuration.
func (a *Assembler) validate(in Input) error {
	if in.County == "" {
		return eris.Wrap(ErrInvalidInput, "feature: county is required")
	}
	if in.HousingAge < a.form.AgeMin || in.HousingAge > a.form.AgeMax {
		return eris.Wrapf(ErrInvalidInput, "feature: housing age %d outside [%d, %d]",
			in.HousingAge, a.form.AgeMin, a.form.AgeMax)
	}
	if in.IncomeDisplay <= 0 || math.IsNaN(in.IncomeDisplay) || math.IsInf(in.IncomeDisplay, 0) {
		return eris.Wrapf(ErrInvalidInput, "feature: income %v must be positive and finite", in.IncomeDisplay)
	}
	if in.IncomeDisplay < a.form.IncomeMin || in.IncomeDisplay > a.form.IncomeMax {
		return eris.Wrapf(ErrInvalidInput, "feature: income %v outside [%v, %v]",
			in.IncomeDisplay, a.form.IncomeMin, a.form.IncomeMax)
	}
	return nil
}
