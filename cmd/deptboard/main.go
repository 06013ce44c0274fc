package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-deptboard/components/deptstate"
	"github.com/goliatone/go-deptboard/internal/config"
	"github.com/goliatone/go-deptboard/internal/logging"
	"github.com/goliatone/go-deptboard/pkg/assistant"
	"github.com/goliatone/go-deptboard/pkg/backend"
	"github.com/goliatone/go-deptboard/pkg/deptboard"
)

// Globals are shared by every command.
type Globals struct {
	Config   string   `short:"c" type:"path" help:"Path to a YAML or TOML config file."`
	EnvFile  []string `name:"env-file" help:"Dotenv files to load (defaults to .env when present)."`
	LogLevel string   `name:"log-level" help:"Override the configured log level."`
}

type cli struct {
	Globals

	Serve  serveCmd  `cmd:"" help:"Run the department dashboard server."`
	Health healthCmd `cmd:"" help:"Check analysis backend connectivity."`
	Icons  iconsCmd  `cmd:"" help:"Manage the sidebar icon manifest."`
}

func main() {
	var c cli
	ctx := kong.Parse(&c, options(context.Background())...)
	err := ctx.Run(&c.Globals)
	ctx.FatalIfErrorf(err)
}

// options binds ctx as the context.Context every command's Run receives.
func options(ctx context.Context) []kong.Option {
	return []kong.Option{
		kong.Name("deptboard"),
		kong.Description("Department analytics dashboard state tracker."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	}
}

func (g *Globals) load() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(g.Config, g.EnvFile...)
	if err != nil {
		return config.Config{}, nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	logger, err := logging.New(os.Stderr, logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return config.Config{}, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}

type serveCmd struct {
	Addr      string `help:"Listen address (overrides config)."`
	Transport string `help:"HTTP transport: fiber (go-router) or stdlib."`
	Mock      bool   `help:"Serve demo data from an in-memory backend."`
}

func (cmd *serveCmd) Run(ctx context.Context, g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	if cmd.Addr != "" {
		cfg.Server.Addr = cmd.Addr
	}
	if cmd.Transport != "" {
		cfg.Server.Transport = cmd.Transport
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if cmd.Mock {
		cfg.Backend.Mock = true
	}

	app, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	app.Start(ctx)

	logger.Info("deptboard listening", "addr", cfg.Server.Addr, "transport", cfg.Server.Transport)
	if cfg.Server.Transport == "stdlib" {
		return serveStdlib(ctx, cfg.Server.Addr, app.HTTPHandler())
	}
	server := router.NewFiberAdapter()
	if err := deptboard.Register[*fiber.App](app, server.Router(), cfg.Server.BasePath); err != nil {
		return fmt.Errorf("register routes: %w", err)
	}
	return server.Serve(cfg.Server.Addr)
}

func serveStdlib(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type healthCmd struct {
	Timeout time.Duration `help:"Health check timeout (overrides config)."`
}

func (cmd *healthCmd) Run(ctx context.Context, g *Globals) error {
	cfg, _, err := g.load()
	if err != nil {
		return err
	}
	client, err := buildClient(cfg)
	if err != nil {
		return err
	}
	timeout, _ := cfg.ConnectTimeout()
	if cmd.Timeout > 0 {
		timeout = cmd.Timeout
	}
	state := backend.NewMonitor(client, backend.MonitorOptions{Timeout: timeout}).Check(ctx)
	fmt.Fprintf(os.Stdout, "backend %s: %s\n", cfg.Backend.URL, state.Status)
	if state.Status != backend.StatusConnected {
		return fmt.Errorf("deptboard: backend %s", state.Error)
	}
	return nil
}

func buildApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*deptboard.App, error) {
	client, err := buildClient(cfg)
	if err != nil {
		return nil, err
	}
	var storage deptstate.Storage = deptstate.NewMemoryStorage()
	if cfg.Storage.Path != "" {
		sqlite, err := deptstate.OpenSQLiteStorage(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		storage = sqlite
	}
	chat, err := buildAssistant(ctx, cfg)
	if err != nil {
		return nil, err
	}
	timeout, _ := cfg.ConnectTimeout()
	ttl, _ := cfg.ChartCacheTTL()
	return deptboard.New(deptboard.Options{
		Client:         client,
		Logger:         logger,
		Storage:        storage,
		Assistant:      chat,
		IconManifest:   cfg.Sidebar.IconManifest,
		ConnectTimeout: timeout,
		ChartCacheTTL:  ttl,
		ChartTheme:     cfg.Charts.Theme,
		AssetsHost:     cfg.Charts.AssetsHost,
		Resume:         cfg.Server.Resume,
	})
}

func buildClient(cfg config.Config) (backend.Client, error) {
	if cfg.Backend.Mock {
		return demoClient(), nil
	}
	return backend.NewHTTPClient(backend.HTTPConfig{BaseURL: cfg.Backend.URL, APIKey: cfg.Backend.APIKey})
}

func buildAssistant(ctx context.Context, cfg config.Config) (assistant.Assistant, error) {
	if cfg.Assistant.Provider == "gemini" {
		return assistant.NewGeminiAssistant(ctx, assistant.GeminiConfig{APIKey: cfg.Assistant.APIKey, Model: cfg.Assistant.Model})
	}
	return assistant.NewTemplateAssistant(nil), nil
}

func demoClient() *backend.MockClient {
	client := backend.NewMockClient(backend.MockData{
		Departments: map[string]backend.DepartmentMetrics{
			"Electronics":   {SalesTotal: 125400, InventoryCount: 820, ReviewAverage: 4.3, ReviewCount: 1290},
			"Books":         {SalesTotal: 38200, InventoryCount: 4100, ReviewAverage: 4.6, ReviewCount: 2210},
			"Home & Garden": {SalesTotal: 57900, InventoryCount: 1330, ReviewAverage: 4.1, ReviewCount: 640},
		},
	})
	client.AddAnalysis("Electronics", "demo-electronics", backend.FileAnalysis{"rows": 1200, "summary": "Q3 sales export"})
	client.AddAnalysis("Books", "demo-books", backend.FileAnalysis{"rows": 480, "summary": "Inventory snapshot"})
	return client
}
