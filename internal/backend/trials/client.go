// Package trials is the HTTP client for the clinical trials search backend.
package trials

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

	"github.com/google/uuid"

	"trialsearch/internal/domain"
)

// Client posts queries to the search endpoint. It implements domain.Searcher.
type Client struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// Config configures the search client.
type Config struct {
	BaseURL  string
	Endpoint string
	Timeout  time.Duration
	Logger   *slog.Logger
}

// NewClient creates a new search client using the provided configuration.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:5000"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "/get_trials"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		url:    strings.TrimRight(cfg.BaseURL, "/") + "/" + strings.TrimLeft(cfg.Endpoint, "/"),
		client: &http.Client{Timeout: t},
		logger: logger,
	}
}

type requestBody struct {
	Data  string `json:"data"`
	Num   int    `json:"num"`
	Exact bool   `json:"exact"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Search sends one request and decodes the records. There are no retries.
func (c *Client) Search(ctx context.Context, params domain.QueryParameters) ([]domain.ResultRecord, error) {
	data, err := json.Marshal(requestBody{Data: params.Text, Num: params.ResultCount, Exact: params.ExactMatch})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("search backend error", "status", resp.StatusCode, "request_id", reqID)
		var eb errorBody
		_ = json.Unmarshal(payload, &eb)
		return nil, &domain.BackendError{Status: resp.StatusCode, Message: eb.Error}
	}

	records, err := DecodeRecords(payload)
	if err != nil {
		c.logger.Warn("undecodable search response", "request_id", reqID, "error", err)
		return nil, err
	}
	c.logger.Debug("search response", "request_id", reqID, "records", len(records))
	return records, nil
}

// DecodeRecords unwraps a success payload. The backend JSON-encodes the
// record array and then encodes that string again, so the body is a JSON
// string whose contents are the array. An object carrying "error" is
// reported as a domain.BackendError.
func DecodeRecords(payload []byte) ([]domain.ResultRecord, error) {
	var inner string
	if err := json.Unmarshal(payload, &inner); err != nil {
		var eb errorBody
		if json.Unmarshal(payload, &eb) == nil && eb.Error != "" {
			return nil, &domain.BackendError{Status: http.StatusOK, Message: eb.Error}
		}
		return nil, fmt.Errorf("%w: outer layer: %v", domain.ErrMalformedResponse, err)
	}
	return ParseRecords([]byte(inner))
}

// ParseRecords decodes a single-encoded JSON array of records.
func ParseRecords(data []byte) ([]domain.ResultRecord, error) {
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: record array: %v", domain.ErrMalformedResponse, err)
	}
	records := make([]domain.ResultRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.ResultRecord{
			Title: stringField(row, titleField),
			URL:   stringField(row, urlField),
		})
	}
	return records, nil
}

// Field names are fixed by the backend and matched exactly.
const (
	titleField = "Study Title"
	urlField   = "Study URL"
)

// stringField reads key from row; missing and null values read as "".
func stringField(row map[string]any, key string) string {
	switch v := row[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
