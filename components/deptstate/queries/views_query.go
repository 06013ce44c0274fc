package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-deptboard/components/deptstate/views"
)

// AnalysisInput addresses an explicit analysis view.
type AnalysisInput struct {
	Department string `json:"department"`
	FileID     string `json:"fileId"`
}

type analysisService interface {
	AnalysisView(ctx context.Context, department, fileID string) (views.AnalysisView, error)
}

// AnalysisQuery resolves and loads an analysis view.
type AnalysisQuery struct {
	service analysisService
}

// NewAnalysisQuery builds the query.
func NewAnalysisQuery(service analysisService) *AnalysisQuery {
	return &AnalysisQuery{service: service}
}

var _ gocommand.Querier[AnalysisInput, views.AnalysisView] = (*AnalysisQuery)(nil)

// Query resolves the analysis view.
func (q *AnalysisQuery) Query(ctx context.Context, msg AnalysisInput) (views.AnalysisView, error) {
	return q.service.AnalysisView(ctx, msg.Department, msg.FileID)
}

// DepartmentsInput is empty; the list comes from the backend.
type DepartmentsInput struct{}

type departmentsService interface {
	DepartmentsView(ctx context.Context) views.DepartmentsView
}

// DepartmentsQuery lists departments.
type DepartmentsQuery struct {
	service departmentsService
}

// NewDepartmentsQuery builds the query.
func NewDepartmentsQuery(service departmentsService) *DepartmentsQuery {
	return &DepartmentsQuery{service: service}
}

var _ gocommand.Querier[DepartmentsInput, views.DepartmentsView] = (*DepartmentsQuery)(nil)

// Query returns the departments view; it never fails.
func (q *DepartmentsQuery) Query(ctx context.Context, _ DepartmentsInput) (views.DepartmentsView, error) {
	return q.service.DepartmentsView(ctx), nil
}
