// Package income classifies scaled median income into the ordinal
// brackets the regression model was trained with.
package income

import (
	"math"

	"github.com/rotisserie/eris"
)

// Bracket bounds. A value lands in bracket k when
// bounds[k-1] <= value < bounds[k]; everything at or above the last
// bound is bracket 5. This matches the binning used when the training
// data was prepared, so the boundary behavior here is load-bearing:
// 0 -> 1, 1.5 -> 2, 3 -> 3, 4.5 -> 4, 6 -> 5.
var bounds = []float64{0, 1.5, 3, 4.5, 6}

// NumBrackets is the highest bracket index.
const NumBrackets = 5

// ErrNegativeIncome is returned for inputs below zero; the bracket for
// negative income is undefined and must not be silently classified.
var ErrNegativeIncome = eris.New("income: negative value has no bracket")

// Categorize maps a scaled income value (model units, i.e. display
// value already divided by the income scale) to its bracket in 1..5.
func Categorize(scaled float64) (int, error) {
	if scaled < 0 || math.IsNaN(scaled) {
		return 0, eris.Wrapf(ErrNegativeIncome, "income: categorize %v", scaled)
	}

	for k := len(bounds) - 1; k >= 1; k-- {
		if scaled >= bounds[k] {
			return k + 1, nil
		}
	}
	return 1, nil
}
