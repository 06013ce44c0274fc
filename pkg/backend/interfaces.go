package backend

import (
	"context"
	"errors"
	"fmt"
)

// APIError carries the error text a backend response reported with success=false.
type APIError struct {
	Endpoint string
	Message  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: %s reported failure", e.Endpoint)
	}
	return fmt.Sprintf("backend: %s: %s", e.Endpoint, e.Message)
}

// Message returns the user-facing message for err: the backend text when
// present, otherwise fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// DepartmentMetrics are the display metrics of a department; Results keeps the raw payload.
type DepartmentMetrics struct {
	Name           string         `json:"name"`
	SalesTotal     float64        `json:"salesTotal"`
	InventoryCount int            `json:"inventoryCount"`
	ReviewAverage  float64        `json:"reviewAverage"`
	ReviewCount    int            `json:"reviewCount"`
	Results        map[string]any `json:"results"`
}

// FileAnalysis is the opaque analysis payload of an uploaded file.
type FileAnalysis map[string]any

// HealthChecker reports whether the backend is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// DepartmentClient lists departments and their metrics.
type DepartmentClient interface {
	Departments(ctx context.Context) ([]string, error)
	Department(ctx context.Context, name string) (DepartmentMetrics, error)
}

// AnalysisClient fetches file analyses.
type AnalysisClient interface {
	FileAnalysis(ctx context.Context, department, fileID string) (FileAnalysis, error)
}

// DataManager bulk-deletes all uploaded data.
type DataManager interface {
	ClearAll(ctx context.Context) error
}

// Client is a convenience union of every backend call.
type Client interface {
	HealthChecker
	DepartmentClient
	AnalysisClient
	DataManager
}
