package deptboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/goliatone/go-deptboard/components/charts"
	"github.com/goliatone/go-deptboard/components/deptstate"
	"github.com/goliatone/go-deptboard/components/deptstate/commands"
	"github.com/goliatone/go-deptboard/components/deptstate/gorouter"
	"github.com/goliatone/go-deptboard/components/deptstate/httpapi"
	"github.com/goliatone/go-deptboard/components/deptstate/queries"
	"github.com/goliatone/go-deptboard/components/deptstate/views"
	"github.com/goliatone/go-deptboard/pkg/assistant"
	"github.com/goliatone/go-deptboard/pkg/backend"
)

// Options assembles an App. Client is required; everything else has a default.
type Options struct {
	Client         backend.Client
	Logger         *slog.Logger
	Storage        deptstate.Storage
	Assistant      assistant.Assistant
	IconManifest   string
	ConnectTimeout time.Duration
	ChartCacheTTL  time.Duration
	ChartTheme     string
	AssetsHost     string
	Resume         bool
}

// App owns the dashboard state and every collaborator built on top of it.
type App struct {
	logger  *slog.Logger
	state   *deptstate.AppState
	sidebar *deptstate.Sidebar
	views   *views.Service
	charts  *charts.Renderer
	pages   *gorouter.Pages
	api     *httpapi.Handlers
	closers []func() error
}

// New wires the application.
func New(opts Options) (*App, error) {
	if opts.Client == nil {
		return nil, errors.New("deptboard: backend client is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	telemetry := deptstate.NewSlogTelemetry(logger)

	state := deptstate.NewAppState(deptstate.Options{
		Telemetry: telemetry,
		Storage:   opts.Storage,
	})

	icons := deptstate.NewIconTable()
	if opts.IconManifest != "" {
		manifest, err := deptstate.ReadIconManifest(opts.IconManifest)
		if err != nil {
			return nil, err
		}
		manifest.Apply(icons)
	}
	sidebar := deptstate.NewSidebar(state, icons)

	renderer := charts.NewRenderer(
		charts.WithCache(charts.NewCache(opts.ChartCacheTTL)),
		charts.WithTheme(opts.ChartTheme),
		charts.WithAssetsHost(opts.AssetsHost),
	)
	monitor := backend.NewMonitor(opts.Client, backend.MonitorOptions{Timeout: opts.ConnectTimeout})
	svc, err := views.NewService(views.Options{
		State:   state,
		Client:  opts.Client,
		Monitor: monitor,
		Charts:  renderer,
	})
	if err != nil {
		return nil, err
	}

	chat := opts.Assistant
	if chat == nil {
		chat = assistant.NewTemplateAssistant(nil)
	}

	recordUpload := commands.NewRecordUploadCommand(state.Departments(), telemetry)
	clearData := commands.NewClearDataCommand(opts.Client, state, renderer.Cache(), telemetry)
	chatQuery := queries.NewChatQuery(chat)

	app := &App{
		logger:  logger,
		state:   state,
		sidebar: sidebar,
		views:   svc,
		charts:  renderer,
		pages: &gorouter.Pages{
			Views:        svc,
			State:        state,
			Sidebar:      queries.NewSidebarQuery(sidebar, state.Shell()),
			RecordUpload: recordUpload,
			ClearData:    clearData,
			Chat:         chatQuery,
			Resume:       opts.Resume,

			AnalysisQuery:    queries.NewAnalysisQuery(svc),
			DepartmentsQuery: queries.NewDepartmentsQuery(svc),
		},
		api: &httpapi.Handlers{
			RecordUpload: recordUpload,
			ClearData:    clearData,
			Chat:         chatQuery,
		},
	}
	if closer, ok := chat.(interface{ Close() error }); ok {
		app.closers = append(app.closers, closer.Close)
	}
	if closer, ok := opts.Storage.(interface{ Close() error }); ok {
		app.closers = append(app.closers, closer.Close)
	}
	return app, nil
}

// State exposes the shared application state.
func (a *App) State() *deptstate.AppState { return a.state }

// Sidebar exposes the sidebar registry.
func (a *App) Sidebar() *deptstate.Sidebar { return a.sidebar }

// Views exposes the view service.
func (a *App) Views() *views.Service { return a.views }

// Pages exposes the transport-neutral route handlers.
func (a *App) Pages() *gorouter.Pages { return a.pages }

// Start runs the bounded startup health check and logs the outcome.
func (a *App) Start(ctx context.Context) backend.ConnectionState {
	state := a.views.Monitor().Check(ctx)
	if state.Status == backend.StatusConnected {
		a.logger.Info("backend connected")
	} else {
		a.logger.Warn("backend unavailable", "error", state.Error)
	}
	if known, err := a.state.PersistedDepartments(ctx); err == nil && len(known) > 0 {
		a.logger.Info("departments from previous session", "departments", known)
	}
	return state
}

// HTTPHandler mounts the pages, the API and the live streams on a standard library mux.
func (a *App) HTTPHandler() http.Handler {
	mux := httpapi.NewServeMux(a.api, a.state.Broadcaster())
	httpapi.MountPages(mux, a.pages)
	return mux
}

// Close releases the assistant client and storage.
func (a *App) Close() error {
	var errs []error
	for _, fn := range a.closers {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("deptboard: close: %w", errors.Join(errs...))
	}
	return nil
}
