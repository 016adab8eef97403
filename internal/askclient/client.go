// Package askclient is the HTTP client for the incident answering service.
package askclient

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

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Client talks to the answering service. All methods issue exactly one
// request; callers decide whether and when to retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	meter      metric.Meter
}

// New creates a client for the answering service at baseURL.
func New(baseURL string, logger *slog.Logger, tracer trace.Tracer, meter metric.Meter) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
		tracer:     tracer,
		meter:      meter,
	}
}

// Query submits a natural-language question and returns the generated
// answer with its supporting source chunks.
func (c *Client) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	ctx, span := c.tracer.Start(ctx, "answering_service_query")
	defer span.End()

	start := time.Now()

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/query", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error: %s - %s", resp.Status, string(body))
	}

	var apiResp QueryResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	c.recordDuration(ctx, time.Since(start))
	c.logger.Info("query answered",
		"model", req.Model,
		"chunks", apiResp.NumChunksRetrieved,
		"processing_time_ms", apiResp.ProcessingTimeMS)

	return &apiResp, nil
}

// Models fetches the model names the answering service advertises.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	ctx, span := c.tracer.Start(ctx, "answering_service_models")
	defer span.End()

	var apiResp ModelsResponse
	if err := c.get(ctx, "/models", &apiResp); err != nil {
		return nil, err
	}
	return apiResp.Models, nil
}

// Stats fetches dataset statistics for the overview panel.
func (c *Client) Stats(ctx context.Context) (*StatsResponse, error) {
	ctx, span := c.tracer.Start(ctx, "answering_service_stats")
	defer span.End()

	var apiResp StatsResponse
	if err := c.get(ctx, "/stats", &apiResp); err != nil {
		return nil, err
	}
	return &apiResp, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error: %s - %s", resp.Status, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func (c *Client) recordDuration(ctx context.Context, d time.Duration) {
	histogram, err := c.meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
	)
	if err == nil {
		histogram.Record(ctx, float64(d.Milliseconds()))
	}
}
