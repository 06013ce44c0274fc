package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPConfig configures the HTTP backend client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient talks to the analysis backend REST API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a client for the backend rooted at cfg.BaseURL (e.g. http://host/api).
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// Health implements HealthChecker via GET /health. Any 2xx is healthy unless
// the body is a JSON envelope reporting success=false.
func (c *HTTPClient) Health(ctx context.Context) error {
	return c.signal(ctx, http.MethodGet, "/health")
}

// Departments implements DepartmentClient via GET /departments.
func (c *HTTPClient) Departments(ctx context.Context) ([]string, error) {
	var resp departmentsResponse
	if err := c.do(ctx, http.MethodGet, "/departments", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, &APIError{Endpoint: "departments", Message: resp.Error}
	}
	return append([]string{}, resp.Departments...), nil
}

// Department implements DepartmentClient via GET /department/{name}.
func (c *HTTPClient) Department(ctx context.Context, name string) (DepartmentMetrics, error) {
	var resp departmentResponse
	if err := c.do(ctx, http.MethodGet, "/department/"+url.PathEscape(name), nil, &resp); err != nil {
		return DepartmentMetrics{}, err
	}
	if !resp.ok() {
		return DepartmentMetrics{}, &APIError{Endpoint: "department", Message: resp.Error}
	}
	return MetricsFromResults(name, resp.Results), nil
}

// FileAnalysis implements AnalysisClient via GET /file-analysis/{department}/{fileId}.
func (c *HTTPClient) FileAnalysis(ctx context.Context, department, fileID string) (FileAnalysis, error) {
	var payload map[string]any
	path := "/file-analysis/" + url.PathEscape(department) + "/" + url.PathEscape(fileID)
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	if success, _ := payload["success"].(bool); !success {
		message, _ := payload["error"].(string)
		return nil, &APIError{Endpoint: "file-analysis", Message: message}
	}
	delete(payload, "success")
	return FileAnalysis(payload), nil
}

// ClearAll implements DataManager via DELETE /data.
func (c *HTTPClient) ClearAll(ctx context.Context) error {
	return c.signal(ctx, http.MethodDelete, "/data")
}

// signal calls an endpoint whose body is only a success signal. Empty or
// non-JSON bodies are accepted as they are.
func (c *HTTPClient) signal(ctx context.Context, method, path string) error {
	var body bytes.Buffer
	if err := c.do(ctx, method, path, nil, &body); err != nil {
		return err
	}
	var resp envelope
	if json.Unmarshal(body.Bytes(), &resp) != nil {
		return nil
	}
	if resp.Success != nil && !*resp.Success {
		return &APIError{Endpoint: strings.TrimPrefix(path, "/"), Message: resp.Error}
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("backend: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("backend: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		var env envelope
		if json.Unmarshal(buf.Bytes(), &env) == nil && env.Error != "" {
			return &APIError{Endpoint: strings.TrimPrefix(path, "/"), Message: env.Error}
		}
		return fmt.Errorf("backend: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if target == nil {
		return nil
	}
	if buf, ok := target.(*bytes.Buffer); ok {
		if _, err := buf.ReadFrom(resp.Body); err != nil {
			return fmt.Errorf("backend: read response: %w", err)
		}
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("backend: decode response: %w", err)
	}
	return nil
}

type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error,omitempty"`
}

type departmentsResponse struct {
	Success     bool     `json:"success"`
	Departments []string `json:"departments"`
	Error       string   `json:"error,omitempty"`
}

func (r departmentsResponse) ok() bool { return r.Success }

type departmentResponse struct {
	Success bool           `json:"success"`
	Results map[string]any `json:"results"`
	Error   string         `json:"error,omitempty"`
}

func (r departmentResponse) ok() bool { return r.Success }

// MetricsFromResults extracts the known display metrics from a department payload.
// Both camelCase and snake_case field names are accepted.
func MetricsFromResults(name string, results map[string]any) DepartmentMetrics {
	return DepartmentMetrics{
		Name:           name,
		SalesTotal:     firstNumber(results, "salesTotal", "sales_total", "total_sales"),
		InventoryCount: int(firstNumber(results, "inventoryCount", "inventory_count", "total_inventory")),
		ReviewAverage:  firstNumber(results, "reviewAverage", "review_average", "average_rating"),
		ReviewCount:    int(firstNumber(results, "reviewCount", "review_count", "total_reviews")),
		Results:        results,
	}
}

func firstNumber(m map[string]any, keys ...string) float64 {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case int64:
			return float64(v)
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f
			}
		}
	}
	return 0
}
