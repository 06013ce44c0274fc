package gorouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-deptboard/components/deptstate"
	"github.com/goliatone/go-deptboard/components/deptstate/commands"
	"github.com/goliatone/go-deptboard/components/deptstate/queries"
	"github.com/goliatone/go-deptboard/components/deptstate/views"
	"github.com/goliatone/go-deptboard/pkg/assistant"
	"github.com/goliatone/go-deptboard/pkg/backend"
)

// Response is a transport-neutral reply. A non-empty Location is sent as a
// header alongside the JSON body.
type Response struct {
	Status   int
	Body     any
	Location string
}

func redirect(location string) Response {
	return Response{
		Status:   http.StatusFound,
		Body:     map[string]string{"redirect": location},
		Location: location,
	}
}

func errorResponse(status int, message string) Response {
	return Response{Status: status, Body: map[string]any{"success": false, "error": message}}
}

// Pages answers dashboard routes. It holds no router state so it can be
// exercised without a running server.
type Pages struct {
	Views        *views.Service
	State        *deptstate.AppState
	Sidebar      gocommand.Querier[queries.SidebarInput, queries.SidebarResult]
	RecordUpload gocommand.Commander[commands.RecordUploadInput]
	ClearData    gocommand.Commander[commands.ClearDataInput]
	Chat         gocommand.Querier[queries.ChatInput, queries.ChatReply]
	// AnalysisQuery and DepartmentsQuery default to queriers over Views.
	AnalysisQuery    gocommand.Querier[queries.AnalysisInput, views.AnalysisView]
	DepartmentsQuery gocommand.Querier[queries.DepartmentsInput, views.DepartmentsView]
	// Resume makes the root route resume the last analysis by default.
	Resume bool
}

// Root answers "/".
func (p *Pages) Root(ctx context.Context, resume bool) Response {
	view := p.Views.DashboardView(ctx, resume || p.Resume)
	if view.Decision.Kind == deptstate.DecisionRedirect {
		return redirect(view.Decision.Location)
	}
	return Response{Status: http.StatusOK, Body: view}
}

// Department answers "/department/:id".
func (p *Pages) Department(ctx context.Context, id string) Response {
	view, err := p.Views.DepartmentView(ctx, id)
	if errors.Is(err, deptstate.ErrStaleResult) {
		return errorResponse(http.StatusConflict, err.Error())
	}
	return Response{Status: http.StatusOK, Body: view}
}

// Analytics answers "/analytics/:view?department=".
func (p *Pages) Analytics(ctx context.Context, name, department string) Response {
	view := p.Views.AnalyticsView(ctx, name, department)
	if view.Decision.Kind == deptstate.DecisionRedirect {
		return redirect(view.Decision.Location)
	}
	return Response{Status: http.StatusOK, Body: view}
}

// Analysis answers "/analysis/:department/:fileId".
func (p *Pages) Analysis(ctx context.Context, department, fileID string) Response {
	view, err := p.analysisQuery().Query(ctx, queries.AnalysisInput{Department: department, FileID: fileID})
	if errors.Is(err, deptstate.ErrStaleResult) {
		return errorResponse(http.StatusConflict, err.Error())
	}
	if view.Decision.Kind == deptstate.DecisionUpload {
		return redirect(view.Decision.Location)
	}
	return Response{Status: http.StatusOK, Body: view}
}

// UploadPage is the payload of "/upload".
type UploadPage struct {
	Department string   `json:"department,omitempty"`
	Known      []string `json:"known,omitempty"`
}

// Upload answers "/upload". The department preselection only comes from the
// upload hint left by the resolver, never from the URL.
func (p *Pages) Upload(ctx context.Context) Response {
	var page UploadPage
	if hint, ok := p.State.Pages().TakeUploadHint(); ok {
		page.Department = hint.Department
	}
	known, err := p.State.PersistedDepartments(ctx)
	if err == nil {
		page.Known = known
	}
	return Response{Status: http.StatusOK, Body: page}
}

// SidebarItems answers "/api/sidebar".
func (p *Pages) SidebarItems(ctx context.Context) Response {
	result, err := p.Sidebar.Query(ctx, queries.SidebarInput{})
	if err != nil {
		return errorResponse(http.StatusInternalServerError, err.Error())
	}
	return Response{Status: http.StatusOK, Body: result}
}

// ShellAction is posted to "/api/shell".
type ShellAction struct {
	Action string `json:"action"`
	Touch  bool   `json:"touch,omitempty"`
}

// Shell answers GET and POST "/api/shell". An empty action reads the state.
func (p *Pages) Shell(action ShellAction) Response {
	shell := p.State.Shell()
	var state deptstate.ShellState
	switch strings.ToLower(strings.TrimSpace(action.Action)) {
	case "":
		state = shell.State()
	case "enter":
		state = shell.PointerEnter()
	case "leave":
		state = shell.PointerLeave()
	case "toggle":
		state = shell.Toggle()
	case "touch":
		state = shell.SetTouch(action.Touch)
	default:
		return errorResponse(http.StatusBadRequest, "unknown shell action: "+action.Action)
	}
	return Response{Status: http.StatusOK, Body: map[string]any{
		"shell": state,
		"css":   shell.CSSVariables(),
	}}
}

// Health answers "/api/health"; retry re-runs the connectivity check.
func (p *Pages) Health(ctx context.Context, retry bool) Response {
	monitor := p.Views.Monitor()
	state := monitor.State()
	if retry || state.Status == backend.StatusConnecting {
		state = monitor.Retry(ctx)
	}
	return Response{Status: http.StatusOK, Body: state}
}

// Departments answers "/api/departments".
func (p *Pages) Departments(ctx context.Context) Response {
	view, err := p.departmentsQuery().Query(ctx, queries.DepartmentsInput{})
	if err != nil {
		return errorResponse(statusFor(err), err.Error())
	}
	return Response{Status: http.StatusOK, Body: view}
}

// Uploads answers POST "/api/uploads".
func (p *Pages) Uploads(ctx context.Context, body []byte) Response {
	var payload commands.RecordUploadInput
	if err := json.Unmarshal(body, &payload); err != nil {
		return errorResponse(http.StatusBadRequest, err.Error())
	}
	if err := p.RecordUpload.Execute(ctx, payload); err != nil {
		return errorResponse(statusFor(err), err.Error())
	}
	return Response{Status: http.StatusCreated, Body: map[string]string{
		"redirect": deptstate.AnalysisPath(strings.TrimSpace(payload.Department), strings.TrimSpace(payload.FileID)),
	}}
}

// Data answers DELETE "/api/data".
func (p *Pages) Data(ctx context.Context, actorID string) Response {
	if err := p.ClearData.Execute(ctx, commands.ClearDataInput{ActorID: actorID}); err != nil {
		return errorResponse(statusFor(err), backend.Message(err, "Failed to clear data."))
	}
	return Response{Status: http.StatusOK, Body: map[string]any{"success": true}}
}

// ChatMessage answers POST "/api/chat".
func (p *Pages) ChatMessage(ctx context.Context, body []byte) Response {
	var payload queries.ChatInput
	if err := json.Unmarshal(body, &payload); err != nil {
		return errorResponse(http.StatusBadRequest, err.Error())
	}
	reply, err := p.Chat.Query(ctx, payload)
	if err != nil {
		return errorResponse(statusFor(err), err.Error())
	}
	return Response{Status: http.StatusOK, Body: reply}
}

func (p *Pages) analysisQuery() gocommand.Querier[queries.AnalysisInput, views.AnalysisView] {
	if p.AnalysisQuery != nil {
		return p.AnalysisQuery
	}
	return queries.NewAnalysisQuery(p.Views)
}

func (p *Pages) departmentsQuery() gocommand.Querier[queries.DepartmentsInput, views.DepartmentsView] {
	if p.DepartmentsQuery != nil {
		return p.DepartmentsQuery
	}
	return queries.NewDepartmentsQuery(p.Views)
}

func statusFor(err error) int {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, deptstate.ErrMissingDepartment),
		errors.Is(err, deptstate.ErrMissingFileID),
		errors.Is(err, deptstate.ErrInvalidDepartment),
		errors.Is(err, assistant.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
