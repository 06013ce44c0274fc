package deptstate

import (
	"context"
	"strings"
)

// DecisionKind tells the transport what to do with a resolved route.
type DecisionKind string

const (
	// DecisionRender renders the route with Decision.Route parameters.
	DecisionRender DecisionKind = "render"
	// DecisionRedirect sends the viewer to Decision.Location.
	DecisionRedirect DecisionKind = "redirect"
	// DecisionEmpty renders the onboarding/upload prompt; it is not an error.
	DecisionEmpty DecisionKind = "empty"
	// DecisionUpload redirects to the upload entry point instead of rendering a broken view.
	DecisionUpload DecisionKind = "upload"
)

// Decision is the outcome of resolving a route against stored state.
type Decision struct {
	Kind     DecisionKind `json:"kind"`
	Route    Route        `json:"route"`
	Location string       `json:"location,omitempty"`
	Ticket   Ticket       `json:"-"`
}

// Resolver decides which view a department route displays.
type Resolver struct {
	state *AppState
}

// NewResolver builds a resolver over the shared application state.
func NewResolver(state *AppState) *Resolver {
	return &Resolver{state: state}
}

// ResolveAnalysis handles the explicit /analysis/:department/:fileId route.
// Route identifiers are authoritative and the page store is only written, never read.
func (r *Resolver) ResolveAnalysis(ctx context.Context, department, fileID string) Decision {
	department = strings.TrimSpace(department)
	fileID = strings.TrimSpace(fileID)
	if department == "" || fileID == "" {
		if department != "" {
			_ = r.state.Pages().SetPageState(UploadHint{Department: department})
		}
		r.record(ctx, "deptstate.resolve.missing_params", department, fileID)
		return Decision{
			Kind:     DecisionUpload,
			Route:    Route{Name: RouteUpload, Department: department},
			Location: PathUpload,
		}
	}
	if err := r.state.Departments().SetDepartmentState(department, fileID); err != nil {
		return Decision{Kind: DecisionUpload, Route: Route{Name: RouteUpload}, Location: PathUpload}
	}
	_ = r.state.Pages().SetPageState(LastAnalysis{Department: department, FileID: fileID})
	route := Route{Name: RouteAnalysis, Department: department, FileID: fileID}
	ticket := r.state.Navigator().Navigate(route)
	r.record(ctx, "deptstate.resolve.analysis", department, fileID)
	return Decision{Kind: DecisionRender, Route: route, Ticket: ticket}
}

// ResolveDepartmentEntry handles the generic analytics entry point that carries
// a department but no file id.
func (r *Resolver) ResolveDepartmentEntry(ctx context.Context, department string) Decision {
	department = strings.TrimSpace(department)
	route := Route{Name: RouteAnalytics, Department: department}
	if department == "" {
		ticket := r.state.Navigator().Navigate(route)
		return Decision{Kind: DecisionEmpty, Route: route, Location: PathUpload, Ticket: ticket}
	}
	if state, ok := r.state.Departments().GetDepartmentState(department); ok {
		r.record(ctx, "deptstate.resolve.resume", department, state.FileID)
		return Decision{
			Kind:     DecisionRedirect,
			Route:    Route{Name: RouteAnalysis, Department: department, FileID: state.FileID},
			Location: AnalysisPath(department, state.FileID),
		}
	}
	_ = r.state.Pages().SetPageState(UploadHint{Department: department})
	ticket := r.state.Navigator().Navigate(route)
	r.record(ctx, "deptstate.resolve.empty", department, "")
	return Decision{Kind: DecisionEmpty, Route: route, Location: PathUpload, Ticket: ticket}
}

// ResolveRoot handles the dashboard root. With preserve set it resumes the last analysis.
func (r *Resolver) ResolveRoot(ctx context.Context, preserve bool) Decision {
	if preserve {
		if last, ok := r.state.Pages().LastAnalysis(); ok && last.Department != "" && last.FileID != "" {
			r.record(ctx, "deptstate.resolve.root_resume", last.Department, last.FileID)
			return Decision{
				Kind:     DecisionRedirect,
				Route:    Route{Name: RouteAnalysis, Department: last.Department, FileID: last.FileID},
				Location: AnalysisPath(last.Department, last.FileID),
			}
		}
	}
	route := Route{Name: RouteDashboard}
	ticket := r.state.Navigator().Navigate(route)
	return Decision{Kind: DecisionRender, Route: route, Ticket: ticket}
}

func (r *Resolver) record(ctx context.Context, event, department, fileID string) {
	r.state.Telemetry().Record(ctx, event, map[string]any{
		"department": department,
		"file_id":    fileID,
	})
}
