package gorouter

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-deptboard/components/charts"
	"github.com/goliatone/go-deptboard/components/deptstate"
	"github.com/goliatone/go-deptboard/components/deptstate/commands"
	"github.com/goliatone/go-deptboard/components/deptstate/queries"
	"github.com/goliatone/go-deptboard/components/deptstate/views"
	"github.com/goliatone/go-deptboard/pkg/assistant"
	"github.com/goliatone/go-deptboard/pkg/backend"
)

type fixture struct {
	pages  *Pages
	state  *deptstate.AppState
	client *backend.MockClient
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	state := deptstate.NewAppState(deptstate.Options{Storage: deptstate.NewMemoryStorage()})
	client := backend.NewMockClient(backend.MockData{
		Departments: map[string]backend.DepartmentMetrics{"Electronics": {SalesTotal: 100}},
	})
	client.AddAnalysis("Electronics", "abc123", backend.FileAnalysis{"summary": "ok"})
	renderer := charts.NewRenderer(charts.WithCache(charts.NewCache(0)))
	svc, err := views.NewService(views.Options{State: state, Client: client, Charts: renderer})
	require.NoError(t, err)
	return fixture{
		state:  state,
		client: client,
		pages: &Pages{
			Views:        svc,
			State:        state,
			Sidebar:      queries.NewSidebarQuery(deptstate.NewSidebar(state, nil), state.Shell()),
			RecordUpload: commands.NewRecordUploadCommand(state.Departments(), nil),
			ClearData:    commands.NewClearDataCommand(client, state, renderer.Cache(), nil),
			Chat:         queries.NewChatQuery(assistant.NewTemplateAssistant(nil)),
		},
	}
}

func TestRegisterValidatesConfig(t *testing.T) {
	require.Error(t, Register(Config[struct{}]{}))
}

func TestUploadThenAnalyticsRedirectScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp := f.pages.Uploads(ctx, []byte(`{"department":"Electronics","fileId":"abc123"}`))
	require.Equal(t, http.StatusCreated, resp.Status)

	sidebar := f.pages.SidebarItems(ctx)
	require.Equal(t, http.StatusOK, sidebar.Status)
	result := sidebar.Body.(queries.SidebarResult)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Electronics", result.Items[0].Label)

	resp = f.pages.Analytics(ctx, "sales", "Electronics")
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, "/analysis/Electronics/abc123", resp.Location)
}

func TestAnalysisRendersView(t *testing.T) {
	f := newFixture(t)
	resp := f.pages.Analysis(context.Background(), "Electronics", "abc123")
	require.Equal(t, http.StatusOK, resp.Status)
	view := resp.Body.(views.AnalysisView)
	assert.Equal(t, "ok", view.Analysis["summary"])
}

func TestAnalysisMissingFileRedirectsToUpload(t *testing.T) {
	f := newFixture(t)
	resp := f.pages.Analysis(context.Background(), "Electronics", "")
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, deptstate.PathUpload, resp.Location)

	upload := f.pages.Upload(context.Background())
	page := upload.Body.(UploadPage)
	assert.Equal(t, "Electronics", page.Department)
}

func TestAnalyticsWithoutStateShowsEmpty(t *testing.T) {
	f := newFixture(t)
	resp := f.pages.Analytics(context.Background(), "sales", "Books")
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Empty(t, resp.Location)
	view := resp.Body.(views.AnalyticsView)
	assert.Equal(t, deptstate.DecisionEmpty, view.Decision.Kind)
}

func TestRootResumesLastAnalysis(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.Equal(t, http.StatusOK, f.pages.Analysis(ctx, "Electronics", "abc123").Status)

	assert.Equal(t, http.StatusOK, f.pages.Root(ctx, false).Status)
	resp := f.pages.Root(ctx, true)
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, "/analysis/Electronics/abc123", resp.Location)
}

func TestUploadPageListsPersistedDepartments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.Equal(t, http.StatusCreated, f.pages.Uploads(ctx, []byte(`{"department":"Books","fileId":"f1"}`)).Status)

	page := f.pages.Upload(ctx).Body.(UploadPage)
	assert.Empty(t, page.Department)
	assert.Equal(t, []string{"Books"}, page.Known)
}

func TestUploadsValidation(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusBadRequest, f.pages.Uploads(context.Background(), []byte(`{"department":"Books"}`)).Status)
	assert.Equal(t, http.StatusBadRequest, f.pages.Uploads(context.Background(), []byte(`nope`)).Status)
}

func TestShellActions(t *testing.T) {
	f := newFixture(t)
	resp := f.pages.Shell(ShellAction{Action: "enter"})
	require.Equal(t, http.StatusOK, resp.Status)
	body := resp.Body.(map[string]any)
	assert.Equal(t, "240px", body["css"].(map[string]string)[deptstate.SidebarWidthVar])

	assert.Equal(t, http.StatusBadRequest, f.pages.Shell(ShellAction{Action: "spin"}).Status)
}

func TestHealthAndDepartments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	health := f.pages.Health(ctx, false).Body.(backend.ConnectionState)
	assert.Equal(t, backend.StatusConnected, health.Status)

	f.client.SetHealthErr(errors.New("down"))
	health = f.pages.Health(ctx, true).Body.(backend.ConnectionState)
	assert.Equal(t, backend.StatusDisconnected, health.Status)

	list := f.pages.Departments(ctx).Body.(views.DepartmentsView)
	assert.True(t, list.Empty)
	assert.Equal(t, "down", list.Error)
}

func TestDataWipesState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.Equal(t, http.StatusCreated, f.pages.Uploads(ctx, []byte(`{"department":"Electronics","fileId":"abc123"}`)).Status)

	resp := f.pages.Data(ctx, "u1")
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Empty(t, f.state.Departments().ListActiveDepartments())
}

func TestChatMessage(t *testing.T) {
	f := newFixture(t)
	resp := f.pages.ChatMessage(context.Background(), []byte(`{"message":"help","department":"Books"}`))
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, resp.Body.(queries.ChatReply).Reply, "Books")

	assert.Equal(t, http.StatusBadRequest, f.pages.ChatMessage(context.Background(), []byte(`{"message":" "}`)).Status)
}

func TestDepartmentPage(t *testing.T) {
	f := newFixture(t)
	resp := f.pages.Department(context.Background(), "electronics")
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "Electronics", resp.Body.(views.DepartmentView).Department)
}

func TestHelpers(t *testing.T) {
	assert.True(t, truthy("Yes"))
	assert.False(t, truthy(""))
	routes := defaultRouteConfig(RouteConfig{Chat: "/chat"})
	assert.Equal(t, "/chat", routes.Chat)
	assert.Equal(t, "/analysis/:department/:fileId", routes.Analysis)
	var action ShellAction
	require.NoError(t, decode(nil, &action))
	require.NoError(t, decode([]byte(`{"action":"toggle"}`), &action))
	assert.Equal(t, "toggle", action.Action)
}
