package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jaideep-27/insightwiz/pkg/config"
	"github.com/sirupsen/logrus"
)

// ErrUnavailable signals that the ML backend could not be reached.
// Handlers map it to 503 rather than 500.
var ErrUnavailable = errors.New("ml service unavailable")

// Client proxies requests to the external data-processing service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient constructs an ML backend client.
func NewClient(cfg config.MLConfig, logger *logrus.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ProcessDataRequest is the payload for /process-data.
type ProcessDataRequest struct {
	Filename        string                 `json:"filename"`
	Content         string                 `json:"content"`
	MimeType        string                 `json:"mimetype"`
	DataType        string                 `json:"dataType"`
	AnalysisOptions map[string]interface{} `json:"analysisOptions"`
	UserID          string                 `json:"userId"`
}

// ProcessDataResult is the analysis returned for an uploaded file.
// Fallback marks results synthesized locally while the backend is down.
type ProcessDataResult struct {
	ProcessedData  map[string]interface{} `json:"processed_data"`
	Insights       map[string]interface{} `json:"insights"`
	ProcessingTime float64                `json:"processing_time"`
	Status         string                 `json:"status"`
	Fallback       bool                   `json:"-"`
}

// ProcessData sends an uploaded file for analysis. When the backend is
// unreachable it returns an offline fallback result instead of failing
// the upload.
func (c *Client) ProcessData(ctx context.Context, req ProcessDataRequest) (*ProcessDataResult, error) {
	raw, err := c.post(ctx, "/process-data", req)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			c.logger.WithField("filename", req.Filename).Warn("ML backend unreachable, using offline analysis")
			return offlineResult(req), nil
		}
		return nil, err
	}

	var result ProcessDataResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode ml response: %w", err)
	}
	return &result, nil
}

// offlineResult mirrors what the backend would return, with fixed
// quality scores and a status that marks it as locally produced.
func offlineResult(req ProcessDataRequest) *ProcessDataResult {
	format := "JSON"
	if req.MimeType == "text/csv" {
		format = "CSV"
	}
	dataType := req.DataType
	if dataType == "" {
		dataType = "unknown"
	}
	return &ProcessDataResult{
		ProcessedData: map[string]interface{}{
			"format":   format,
			"filename": req.Filename,
			"size":     len(req.Content),
			"dataType": dataType,
		},
		Insights: map[string]interface{}{
			"data_quality": 0.85,
			"completeness": 0.92,
			"recommendations": []string{
				"Data structure appears valid and well-formatted",
				"Consider adding more recent data points for better analysis",
				"ML service will provide detailed insights once available",
			},
		},
		ProcessingTime: 0.5,
		Status:         "processed_offline",
		Fallback:       true,
	}
}

// Predict proxies a performance prediction request.
func (c *Client) Predict(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	return c.post(ctx, "/predict", payload)
}

// Cluster proxies a clustering analysis request.
func (c *Client) Cluster(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	return c.post(ctx, "/cluster", payload)
}

// Sentiment proxies a sentiment analysis request.
func (c *Client) Sentiment(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	return c.post(ctx, "/sentiment", payload)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("path", path).Error("ML backend request failed")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ml backend returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}
