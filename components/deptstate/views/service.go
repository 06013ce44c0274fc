package views

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-deptboard/components/charts"
	"github.com/goliatone/go-deptboard/components/deptstate"
	"github.com/goliatone/go-deptboard/pkg/backend"
)

const (
	// GenericFetchError is shown when the backend failed without a message.
	GenericFetchError = "Failed to load analysis data. Please try again."
	// GenericListError is shown when the department list could not be loaded.
	GenericListError = "Could not load departments."
)

// Options configures a Service.
type Options struct {
	State   *deptstate.AppState
	Client  backend.Client
	Monitor *backend.Monitor
	Charts  *charts.Renderer
}

// Service composes the resolver, the navigator and the backend client into
// view models. Backend failures never escape as errors; they become the
// Error field of the returned view. The only error returned is
// deptstate.ErrStaleResult.
type Service struct {
	state    *deptstate.AppState
	resolver *deptstate.Resolver
	client   backend.Client
	monitor  *backend.Monitor
	charts   *charts.Renderer
}

// NewService builds a view service.
func NewService(opts Options) (*Service, error) {
	if opts.State == nil {
		return nil, errors.New("views: app state is required")
	}
	if opts.Client == nil {
		return nil, errors.New("views: backend client is required")
	}
	if opts.Monitor == nil {
		opts.Monitor = backend.NewMonitor(opts.Client, backend.MonitorOptions{})
	}
	if opts.Charts == nil {
		opts.Charts = charts.NewRenderer()
	}
	return &Service{
		state:    opts.State,
		resolver: deptstate.NewResolver(opts.State),
		client:   opts.Client,
		monitor:  opts.Monitor,
		charts:   opts.Charts,
	}, nil
}

// Resolver exposes the resolver used by the service.
func (s *Service) Resolver() *deptstate.Resolver { return s.resolver }

// Monitor exposes the backend connectivity monitor.
func (s *Service) Monitor() *backend.Monitor { return s.monitor }

// Charts exposes the chart renderer.
func (s *Service) Charts() *charts.Renderer { return s.charts }

// AnalysisView resolves /analysis/:department/:fileId and fetches the file analysis.
func (s *Service) AnalysisView(ctx context.Context, department, fileID string) (AnalysisView, error) {
	decision := s.resolver.ResolveAnalysis(ctx, department, fileID)
	view := AnalysisView{Decision: decision}
	if decision.Kind != deptstate.DecisionRender {
		return view, nil
	}
	view.Department = decision.Route.Department
	view.FileID = decision.Route.FileID

	analysis, err := deptstate.Fetch(ctx, s.state.Navigator(), decision.Ticket, func(ctx context.Context) (backend.FileAnalysis, error) {
		return s.client.FileAnalysis(ctx, view.Department, view.FileID)
	})
	if errors.Is(err, deptstate.ErrStaleResult) {
		return AnalysisView{}, err
	}
	if err != nil {
		view.Error = backend.Message(err, GenericFetchError)
		view.RetryURL = deptstate.AnalysisPath(view.Department, view.FileID)
		view.UploadURL = deptstate.PathUpload
		return view, nil
	}
	view.Analysis = analysis
	view.Columns = VisibleColumns(analysis)
	return view, nil
}

// AnalyticsView resolves /analytics/:view for a department without an explicit file id.
func (s *Service) AnalyticsView(ctx context.Context, name, department string) AnalyticsView {
	return AnalyticsView{
		View:     strings.TrimSpace(name),
		Decision: s.resolver.ResolveDepartmentEntry(ctx, department),
	}
}

// DashboardView resolves the root route.
func (s *Service) DashboardView(ctx context.Context, preserve bool) DashboardView {
	decision := s.resolver.ResolveRoot(ctx, preserve)
	view := DashboardView{Decision: decision}
	if decision.Kind != deptstate.DecisionRender {
		return view
	}
	view.Departments = s.DepartmentsView(ctx)
	return view
}

// DepartmentsView lists backend departments. It never fails: a disconnected
// backend or a failed list call yields an empty view carrying the error text.
func (s *Service) DepartmentsView(ctx context.Context) DepartmentsView {
	s.connected(ctx)
	conn := s.monitor.State()
	view := DepartmentsView{
		Connection: conn,
		Active:     s.state.Departments().Snapshot(),
	}
	if conn.Status != backend.StatusConnected {
		view.Error = conn.Error
		view.RetryURL = "/api/health"
		view.Empty = true
		return view
	}
	names, err := s.client.Departments(ctx)
	if err != nil {
		view.Error = backend.Message(err, GenericListError)
		view.RetryURL = "/api/health"
		view.Empty = true
		return view
	}
	view.Departments = names
	view.Empty = len(names) == 0
	if view.Empty {
		view.UploadURL = deptstate.PathUpload
	}
	return view
}

// DepartmentView loads the metrics and charts of one department addressed by
// name or sidebar slug.
func (s *Service) DepartmentView(ctx context.Context, id string) (DepartmentView, error) {
	name := s.ResolveDepartmentName(ctx, id)
	view := DepartmentView{Department: name}
	if name == "" {
		view.Error = "Department is required."
		view.UploadURL = deptstate.PathUpload
		return view, nil
	}
	if state, ok := s.state.Departments().GetDepartmentState(name); ok {
		view.Active = &state
		view.AnalysisURL = deptstate.AnalysisPath(name, state.FileID)
	}

	ticket := s.state.Navigator().Navigate(deptstate.Route{Name: deptstate.RouteDepartment, Department: name})
	metrics, err := deptstate.Fetch(ctx, s.state.Navigator(), ticket, func(ctx context.Context) (backend.DepartmentMetrics, error) {
		return s.client.Department(ctx, name)
	})
	if errors.Is(err, deptstate.ErrStaleResult) {
		return DepartmentView{}, err
	}
	if err != nil {
		view.Error = backend.Message(err, GenericFetchError)
		view.RetryURL = deptstate.DepartmentPath(name)
		view.UploadURL = deptstate.PathUpload
		return view, nil
	}
	view.Metrics = &metrics

	for _, render := range []func(backend.DepartmentMetrics) (charts.Chart, error){
		s.charts.DepartmentOverview,
		s.charts.ReviewGauge,
	} {
		chart, err := render(metrics)
		if err != nil {
			s.state.Telemetry().Record(ctx, "views.chart_error", map[string]any{
				"department": name,
				"error":      err.Error(),
			})
			continue
		}
		view.Charts = append(view.Charts, chart)
	}
	return view, nil
}

// ResolveDepartmentName maps a sidebar slug back to a department name.
// Active departments are matched first, then the backend list; an
// unmatched id is taken as the name.
func (s *Service) ResolveDepartmentName(ctx context.Context, id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	for _, name := range s.state.Departments().ListActiveDepartments() {
		if name == id || deptstate.Slug(name) == id {
			return name
		}
	}
	if s.connected(ctx) {
		if names, err := s.client.Departments(ctx); err == nil {
			for _, name := range names {
				if name == id || deptstate.Slug(name) == id {
					return name
				}
			}
		}
	}
	return id
}

// connected runs the first health check lazily and reports the result.
func (s *Service) connected(ctx context.Context) bool {
	if s.monitor.State().Status == backend.StatusConnecting {
		s.monitor.Check(ctx)
	}
	return s.monitor.Connected()
}
