// Package predictor wraps the external trained regressor behind a
// single-record scoring interface.
package predictor

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/housing-cli/internal/model"
)

// ErrSchemaMismatch indicates the estimator rejected the feature record
// (missing, extra, or mistyped field). That is a programming-time
// contract break between the assembler and the trained model, never a
// user error, and must surface loudly rather than being coerced.
var ErrSchemaMismatch = eris.New("predictor: feature schema rejected by model")

// Predictor scores exactly one feature record.
type Predictor interface {
	Predict(ctx context.Context, rec *model.FeatureRecord) (float64, error)
}
