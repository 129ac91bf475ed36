package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/housing-cli/internal/boundary"
	"github.com/sells-group/housing-cli/internal/feature"
	"github.com/sells-group/housing-cli/internal/model"
	"github.com/sells-group/housing-cli/internal/predictor"
	"github.com/sells-group/housing-cli/internal/refdata"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// countiesResponse carries the select options plus the form domains so
// the client renders sliders without hardcoding bounds.
type countiesResponse struct {
	Counties []string `json:"counties"`
	Form     formMeta `json:"form"`
}

type formMeta struct {
	AgeMin        int     `json:"age_min"`
	AgeMax        int     `json:"age_max"`
	AgeDefault    int     `json:"age_default"`
	IncomeMin     float64 `json:"income_min"`
	IncomeMax     float64 `json:"income_max"`
	IncomeDefault float64 `json:"income_default"`
	IncomeStep    float64 `json:"income_step"`
}

func (s *Server) handleCounties(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, countiesResponse{
		Counties: s.snap.Names(),
		Form: formMeta{
			AgeMin:        s.form.AgeMin,
			AgeMax:        s.form.AgeMax,
			AgeDefault:    s.form.AgeDefault,
			IncomeMin:     s.form.IncomeMin,
			IncomeMax:     s.form.IncomeMax,
			IncomeDefault: s.form.IncomeDefault,
			IncomeStep:    s.form.IncomeStep,
		},
	})
}

// handleBoundaries returns the base polygon layer: every county's
// oriented rings. Counties without geometry are omitted.
func (s *Server) handleBoundaries(w http.ResponseWriter, r *http.Request) {
	var boundaries []model.Boundary
	for _, name := range s.snap.Names() {
		county, err := s.snap.Lookup(name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if len(county.Geometry) == 0 {
			continue
		}
		b, err := boundary.Prepare(county)
		if err != nil {
			writeError(w, r, err)
			return
		}
		boundaries = append(boundaries, b)
	}
	writeJSON(w, http.StatusOK, map[string]any{"boundaries": boundaries})
}

type predictResponse struct {
	Price  float64              `json:"price"`
	Record *model.FeatureRecord `json:"record"`
	County *model.CountyContext `json:"county"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	log := zap.L().With(zap.String("request_id", requestID))

	var in feature.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	rec, countyCtx, err := s.assembler.Assemble(in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	price, err := s.pred.Predict(r.Context(), rec)
	if err != nil {
		log.Error("prediction failed",
			zap.String("county", in.County),
			zap.Error(err),
		)
		writeError(w, r, err)
		return
	}

	log.Info("prediction served",
		zap.String("county", in.County),
		zap.Int("housing_age", in.HousingAge),
		zap.Float64("median_income", rec.MedianIncome),
		zap.Float64("price", price),
	)

	writeJSON(w, http.StatusOK, predictResponse{
		Price:  price,
		Record: rec,
		County: countyCtx,
	})
}

// writeError maps the error taxonomy onto HTTP statuses. Schema and
// model-server failures are 502: the request was well-formed but the
// upstream collaborator failed.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, feature.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, refdata.ErrCountyNotFound):
		status = http.StatusNotFound
	case errors.Is(err, refdata.ErrAmbiguousCounty):
		status = http.StatusConflict
	case errors.Is(err, predictor.ErrSchemaMismatch):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		zap.L().Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
