package backend

import (
	"context"
	"sort"
	"sync"
)

// MockData seeds deterministic backend responses for tests or local demos.
type MockData struct {
	Departments map[string]DepartmentMetrics
	// Analyses is keyed by department then file id.
	Analyses map[string]map[string]FileAnalysis
	// HealthErr, when set, is returned by Health.
	HealthErr error
	// ClearErr, when set, is returned by ClearAll and nothing is dropped.
	ClearErr error
}

// MockClient implements Client using in-memory fixtures.
type MockClient struct {
	mu   sync.RWMutex
	data MockData
}

// NewMockClient builds a mock backend client from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	if data.Departments == nil {
		data.Departments = map[string]DepartmentMetrics{}
	}
	if data.Analyses == nil {
		data.Analyses = map[string]map[string]FileAnalysis{}
	}
	return &MockClient{data: data}
}

// Health returns the configured health error.
func (c *MockClient) Health(context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.HealthErr
}

// SetHealthErr swaps the health response.
func (c *MockClient) SetHealthErr(err error) {
	c.mu.Lock()
	c.data.HealthErr = err
	c.mu.Unlock()
}

// Departments returns the sorted fixture department names.
func (c *MockClient) Departments(context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.data.Departments))
	for name := range c.data.Departments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Department returns fixture metrics or an *APIError when unknown.
func (c *MockClient) Department(_ context.Context, name string) (DepartmentMetrics, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	metrics, ok := c.data.Departments[name]
	if !ok {
		return DepartmentMetrics{}, &APIError{Endpoint: "department", Message: "Department not found"}
	}
	metrics.Name = name
	return metrics, nil
}

// FileAnalysis returns the fixture analysis or an *APIError when unknown.
func (c *MockClient) FileAnalysis(_ context.Context, department, fileID string) (FileAnalysis, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	analysis, ok := c.data.Analyses[department][fileID]
	if !ok {
		return nil, &APIError{Endpoint: "file-analysis", Message: "File not found"}
	}
	out := make(FileAnalysis, len(analysis))
	for k, v := range analysis {
		out[k] = v
	}
	return out, nil
}

// AddAnalysis registers an analysis fixture, creating the department when needed.
func (c *MockClient) AddAnalysis(department, fileID string, analysis FileAnalysis) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data.Departments[department]; !ok {
		c.data.Departments[department] = DepartmentMetrics{Name: department}
	}
	if c.data.Analyses[department] == nil {
		c.data.Analyses[department] = map[string]FileAnalysis{}
	}
	c.data.Analyses[department][fileID] = analysis
}

// ClearAll drops every fixture.
func (c *MockClient) ClearAll(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data.ClearErr != nil {
		return c.data.ClearErr
	}
	c.data.Departments = map[string]DepartmentMetrics{}
	c.data.Analyses = map[string]map[string]FileAnalysis{}
	return nil
}
