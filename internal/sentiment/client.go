package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrEmptyResponse is returned when the service answers with no predictions
var ErrEmptyResponse = errors.New("sentiment service returned no predictions")

// Client is an HTTP client for a remote sentiment classification service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClassifyRequest is the request body for classification
type ClassifyRequest struct {
	Text string `json:"text"`
}

// rawPrediction mirrors the service's label/score pairs
type rawPrediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// HealthResponse is the response from health check
type HealthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model,omitempty"`
}

// NewClient creates a new sentiment service client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Health checks if the classification service is running
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sentiment service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("health check failed (status %d): %s", resp.StatusCode, string(body))
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &health, nil
}

// Initialize verifies the service is reachable and healthy
func (c *Client) Initialize(ctx context.Context) error {
	health, err := c.Health(ctx)
	if err != nil {
		return err
	}
	if health.Status != "ok" {
		return fmt.Errorf("sentiment service at %s not ready: status %q", c.baseURL, health.Status)
	}
	return nil
}

// Classify sends text for classification and returns the top prediction
func (c *Client) Classify(ctx context.Context, text string) (Prediction, error) {
	body, err := json.Marshal(ClassifyRequest{Text: text})
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Prediction{}, fmt.Errorf("classification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return Prediction{}, fmt.Errorf("classification failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	var preds []rawPrediction
	if err := json.NewDecoder(resp.Body).Decode(&preds); err != nil {
		return Prediction{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(preds) == 0 {
		return Prediction{}, ErrEmptyResponse
	}

	// The service orders predictions by score; only the top one is used.
	top := preds[0]
	if top.Score < 0 || top.Score > 1 {
		return Prediction{}, fmt.Errorf("score %v out of range", top.Score)
	}

	return Prediction{Label: ParseLabel(top.Label), Score: top.Score}, nil
}
