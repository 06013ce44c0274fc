package views

import (
	"github.com/goliatone/go-deptboard/components/charts"
	"github.com/goliatone/go-deptboard/components/deptstate"
	"github.com/goliatone/go-deptboard/pkg/backend"
)

// AnalysisView is the view model of /analysis/:department/:fileId.
type AnalysisView struct {
	Decision   deptstate.Decision   `json:"decision"`
	Department string               `json:"department,omitempty"`
	FileID     string               `json:"fileId,omitempty"`
	Analysis   backend.FileAnalysis `json:"analysis,omitempty"`
	Columns    []string             `json:"columns,omitempty"`
	Error      string               `json:"error,omitempty"`
	RetryURL   string               `json:"retryUrl,omitempty"`
	UploadURL  string               `json:"uploadUrl,omitempty"`
}

// AnalyticsView is the view model of /analytics/:view.
type AnalyticsView struct {
	View     string             `json:"view"`
	Decision deptstate.Decision `json:"decision"`
}

// DashboardView is the view model of the root route.
type DashboardView struct {
	Decision    deptstate.Decision `json:"decision"`
	Departments DepartmentsView    `json:"departments"`
}

// DepartmentsView lists departments known to the backend.
type DepartmentsView struct {
	Connection  backend.ConnectionState                      `json:"connection"`
	Departments []string                                     `json:"departments"`
	Active      map[string]deptstate.DepartmentAnalysisState `json:"active"`
	Empty       bool                                         `json:"empty"`
	Error       string                                       `json:"error,omitempty"`
	RetryURL    string                                       `json:"retryUrl,omitempty"`
	UploadURL   string                                       `json:"uploadUrl,omitempty"`
}

// DepartmentView is the view model of /department/:id.
type DepartmentView struct {
	Department  string                             `json:"department"`
	Active      *deptstate.DepartmentAnalysisState `json:"active,omitempty"`
	AnalysisURL string                             `json:"analysisUrl,omitempty"`
	Metrics     *backend.DepartmentMetrics         `json:"metrics,omitempty"`
	Charts      []charts.Chart                     `json:"charts,omitempty"`
	Error       string                             `json:"error,omitempty"`
	RetryURL    string                             `json:"retryUrl,omitempty"`
	UploadURL   string                             `json:"uploadUrl,omitempty"`
}
