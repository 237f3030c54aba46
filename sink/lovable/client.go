// Copyright 2025 RodeoAI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package lovable pushes accepted records to the Lovable RodeoAI edge
// functions over HTTP. Predictions go to /ingest-prediction and results to
// /ingest-result; events and riders ride along inside those payloads and
// have no endpoint of their own.
package lovable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rodeoai/chute/core"
	"github.com/rodeoai/chute/sink"
)

const (
	ingestPredictionPath = "/ingest-prediction"
	ingestResultPath     = "/ingest-result"

	apiKeyHeader = "x-gpu-api-key"

	defaultTimeout = 30 * time.Second
)

// Client is a sink.Sink over the Lovable ingest functions. It performs no
// retries; every record is attempted exactly once per Push and failures
// are reported in the per-record statuses.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ sink.Sink = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (used by tests and callers that
// need custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Default is 30s.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// NewClient creates a Client for the ingest functions under baseURL,
// authenticating every request with apiKey.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request payload shapes for the ingest functions.
type (
	eventPayload struct {
		Name      string `json:"name"`
		Location  string `json:"location,omitempty"`
		EventDate string `json:"event_date,omitempty"`
		EventType string `json:"event_type,omitempty"`
	}

	riderPayload struct {
		Name    string   `json:"name"`
		Rank    *int     `json:"rank,omitempty"`
		WinRate *float64 `json:"win_rate,omitempty"`
	}

	predictionPayload struct {
		Event      eventPayload `json:"event"`
		Rider      riderPayload `json:"rider"`
		Prediction struct {
			PredictionType string   `json:"prediction_type"`
			PredictedValue string   `json:"predicted_value"`
			Confidence     float64  `json:"confidence"`
			Odds           *float64 `json:"odds,omitempty"`
			ModelVersion   string   `json:"model_version,omitempty"`
			Analysis       string   `json:"analysis,omitempty"`
		} `json:"prediction"`
	}

	resultPayload struct {
		EventName   string   `json:"event_name"`
		RiderName   string   `json:"rider_name"`
		ActualValue string   `json:"actual_value"`
		Score       *float64 `json:"score,omitempty"`
		Placement   *int     `json:"placement,omitempty"`
	}
)

// Push sends the result's predictions and results to their endpoints and
// returns one status per pushed record, predictions first. A non-nil
// error is returned only when the context ends; HTTP failures show up in
// the statuses.
func (c *Client) Push(ctx context.Context, result *core.ExtractionResult) ([]core.RecordStatus, error) {
	if result == nil {
		return nil, nil
	}

	statuses := make([]core.RecordStatus, 0, len(result.Predictions)+len(result.Results))

	for _, p := range result.Predictions {
		status := core.RecordStatus{
			Kind:   "prediction",
			Key:    recordKey(p.EventName, p.RiderName),
			Status: "success",
		}
		if err := c.pushPrediction(ctx, p); err != nil {
			if ctx.Err() != nil {
				return statuses, ctx.Err()
			}
			status.Status = "error"
			status.Error = err.Error()
			c.logger.Error("prediction push failed", "key", status.Key, "error", err)
		}
		statuses = append(statuses, status)
	}

	for _, r := range result.Results {
		status := core.RecordStatus{
			Kind:   "result",
			Key:    recordKey(r.EventName, r.RiderName),
			Status: "success",
		}
		if err := c.pushResult(ctx, r); err != nil {
			if ctx.Err() != nil {
				return statuses, ctx.Err()
			}
			status.Status = "error"
			status.Error = err.Error()
			c.logger.Error("result push failed", "key", status.Key, "error", err)
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}

func (c *Client) pushPrediction(ctx context.Context, p core.Prediction) error {
	payload := predictionPayload{
		Event: eventPayload{Name: p.EventName},
		Rider: riderPayload{Name: p.RiderName},
	}
	payload.Prediction.PredictionType = p.PredictionType
	payload.Prediction.PredictedValue = p.PredictedValue
	payload.Prediction.Confidence = p.Confidence
	payload.Prediction.Odds = p.Odds
	payload.Prediction.ModelVersion = p.ModelVersion
	payload.Prediction.Analysis = p.Analysis

	return c.post(ctx, ingestPredictionPath, payload)
}

func (c *Client) pushResult(ctx context.Context, r core.Result) error {
	return c.post(ctx, ingestResultPath, resultPayload{
		EventName:   r.EventName,
		RiderName:   r.RiderName,
		ActualValue: r.ActualValue,
		Score:       r.Score,
		Placement:   r.Placement,
	})
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

func recordKey(eventName, riderName string) string {
	return eventName + " - " + riderName
}
