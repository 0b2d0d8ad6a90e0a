package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ForecastObservation is one day of historical demand sent to the
// forecasting sidecar.
type ForecastObservation struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Units int    `json:"units"`
}

// ForecastRequest is posted to the Python sidecar, which fits a demand
// model over the history and projects it forward.
type ForecastRequest struct {
	ProductID string                `json:"product_id"`
	Horizon   int                   `json:"horizon"` // days to project
	History   []ForecastObservation `json:"history"`
}

// ForecastPoint is one projected day returned by the sidecar.
type ForecastPoint struct {
	Date     string  `json:"date"`
	Forecast float64 `json:"forecast"`
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`
}

type ForecastResult struct {
	ProductID string          `json:"product_id"`
	Points    []ForecastPoint `json:"points"`
}

// ForecastClient is an HTTP client that delegates demand forecasting to
// the Python sidecar. The decoupling keeps model-fitting failures out of
// the core backend; callers wrap requests in a CircuitBreaker.
type ForecastClient struct {
	sidecarURL string
	httpClient *http.Client
}

func NewForecastClient(sidecarURL string) *ForecastClient {
	return &ForecastClient{
		sidecarURL: sidecarURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Predict sends a POST to the sidecar and returns the projected series.
func (c *ForecastClient) Predict(ctx context.Context, payload ForecastRequest) (*ForecastResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("forecast: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sidecarURL+"/forecast", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("forecast: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast: sidecar unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast: sidecar returned %d", resp.StatusCode)
	}

	var result ForecastResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("forecast: decode response: %w", err)
	}
	return &result, nil
}
