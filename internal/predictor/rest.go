package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/housing-cli/internal/model"
)

// RESTClient scores records against a model server over HTTP. The
// server wraps the serialized estimator produced by the offline
// training pipeline.
type RESTClient struct {
	endpoint string
	client   *http.Client
}

// NewRESTClient creates a client for the given scoring endpoint.
func NewRESTClient(endpoint string, timeout time.Duration) *RESTClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RESTClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type predictRequest struct {
	Records []model.FeatureRecord `json:"records"`
}

// Predict posts the single record and extracts the single scalar price.
// The estimator may answer with a flat or nested batched array; any
// shape that does not resolve to exactly one scalar is an error.
func (c *RESTClient) Predict(ctx context.Context, rec *model.FeatureRecord) (float64, error) {
	body, err := json.Marshal(predictRequest{Records: []model.FeatureRecord{*rec}})
	if err != nil {
		return 0, eris.Wrap(err, "predictor: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, eris.Wrap(err, "predictor: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, eris.Wrap(err, "predictor: model server request")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, eris.Wrap(err, "predictor: read response")
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		zap.L().Error("predictor: model server rejected record",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", payload),
		)
		return 0, eris.Wrapf(ErrSchemaMismatch, "predictor: model server status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, eris.Errorf("predictor: model server status %d", resp.StatusCode)
	}

	price, err := extractScalar(payload)
	if err != nil {
		return 0, err
	}
	return price, nil
}

// extractScalar resolves the one price from the model server response.
// Accepted shapes: {"predictions": X} where X is a number, [n] or
// [[n]]; or the bare X forms.
func extractScalar(payload []byte) (float64, error) {
	var envelope struct {
		Predictions json.RawMessage `json:"predictions"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil && len(envelope.Predictions) > 0 {
		payload = envelope.Predictions
	}

	var scalar float64
	if err := json.Unmarshal(payload, &scalar); err == nil {
		return scalar, nil
	}

	var flat []float64
	if err := json.Unmarshal(payload, &flat); err == nil {
		if len(flat) != 1 {
			return 0, eris.Errorf("predictor: expected 1 prediction, got %d", len(flat))
		}
		return flat[0], nil
	}

	var nested [][]float64
	if err := json.Unmarshal(payload, &nested); err == nil {
		if len(nested) != 1 || len(nested[0]) != 1 {
			return 0, eris.Errorf("predictor: expected a single nested prediction, got %d rows", len(nested))
		}
		return nested[0][0], nil
	}

	return 0, eris.Errorf("predictor: unrecognized response shape: %s", truncate(payload, 200))
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
