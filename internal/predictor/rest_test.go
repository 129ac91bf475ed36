package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/housing-cli/internal/model"
)

func testRecord() *model.FeatureRecord {
	return &model.FeatureRecord{
		Longitude:              -120.5,
		Latitude:               38.2,
		HousingMedianAge:       15,
		TotalRooms:             2000,
		TotalBedrooms:          400,
		Population:             1000,
		Households:             350,
		MedianIncome:           4.5,
		OceanProximity:         "INLAND",
		MedianIncomeCat:        4,
		RoomsPerHousehold:      5.7,
		BedroomsPerRooms:       0.2,
		PopulationPerHousehold: 2.9,
	}
}

func newModelServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req predictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Records, 1)

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPredict_EnvelopeNestedArray(t *testing.T) {
	// The serialized estimator predicts batched targets, so a single
	// record still comes back nested.
	srv := newModelServer(t, http.StatusOK, `{"predictions": [[412500.0]]}`)

	c := NewRESTClient(srv.URL, 0)
	price, err := c.Predict(context.Background(), testRecord())
	require.NoError(t, err)
	assert.InDelta(t, 412500.0, price, 1e-9)
}

func TestPredict_EnvelopeFlatArray(t *testing.T) {
	srv := newModelServer(t, http.StatusOK, `{"predictions": [250000.5]}`)

	c := NewRESTClient(srv.URL, 0)
	price, err := c.Predict(context.Background(), testRecord())
	require.NoError(t, err)
	assert.InDelta(t, 250000.5, price, 1e-9)
}

func TestPredict_BareArray(t *testing.T) {
	srv := newModelServer(t, http.StatusOK, `[199000]`)

	c := NewRESTClient(srv.URL, 0)
	price, err := c.Predict(context.Background(), testRecord())
	require.NoError(t, err)
	assert.InDelta(t, 199000.0, price, 1e-9)
}

func TestPredict_SchemaRejection(t *testing.T) {
	srv := newModelServer(t, http.StatusUnprocessableEntity, `{"error":"unknown column total_rooms_x"}`)

	c := NewRESTClient(srv.URL, 0)
	_, err := c.Predict(context.Background(), testRecord())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaMismatch))
}

func TestPredict_ServerError(t *testing.T) {
	srv := newModelServer(t, http.StatusInternalServerError, `boom`)

	c := NewRESTClient(srv.URL, 0)
	_, err := c.Predict(context.Background(), testRecord())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSchemaMismatch))
}

func TestPredict_MultiplePredictionsRejected(t *testing.T) {
	srv := newModelServer(t, http.StatusOK, `{"predictions": [1.0, 2.0]}`)

	c := NewRESTClient(srv.URL, 0)
	_, err := c.Predict(context.Background(), testRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 1 prediction")
}

func TestPredict_GarbageResponse(t *testing.T) {
	srv := newModelServer(t, http.StatusOK, `"not a number shape"`)

	c := NewRESTClient(srv.URL, 0)
	_, err := c.Predict(context.Background(), testRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized response shape")
}

func TestExtractScalar_Shapes(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    float64
		wantErr bool
	}{
		{"scalar", `42.5`, 42.5, false},
		{"flat", `[42.5]`, 42.5, false},
		{"nested", `[[42.5]]`, 42.5, false},
		{"envelope scalar", `{"predictions": 42.5}`, 42.5, false},
		{"empty flat", `[]`, 0, true},
		{"nested two rows", `[[1],[2]]`, 0, true},
		{"nested empty row", `[[]]`, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractScalar([]byte(tc.payload))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}
