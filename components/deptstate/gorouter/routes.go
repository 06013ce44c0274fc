package gorouter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-deptboard/components/deptstate"
)

// Config wires go-router with the dashboard pages, APIs and live updates.
type Config[T any] struct {
	Router   router.Router[T]
	Pages    *Pages
	Sidebar  *deptstate.Sidebar
	BasePath string
	Routes   RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	Root            string
	Department      string
	Analytics       string
	Analysis        string
	AnalysisPartial string
	Upload          string
	Sidebar         string
	Shell           string
	Health          string
	Departments     string
	Uploads         string
	Chat            string
	Data            string
	WebSocket       string
}

// Register mounts dashboard routes (JSON pages, REST, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Pages == nil || cfg.Pages.Views == nil || cfg.Pages.State == nil {
		return errors.New("gorouter: pages with views and state are required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	pages := cfg.Pages

	var r router.Router[T] = cfg.Router
	if cfg.BasePath != "" && cfg.BasePath != "/" {
		r = cfg.Router.Group(cfg.BasePath)
	}

	r.Get(routes.Root, router.WrapHandler(func(ctx router.Context) error {
		return write(ctx, pages.Root(ctx.Context(), truthy(query(ctx, "resume"))))
	}))

	r.Get(routes.Department, router.WrapHandler(func(ctx router.Context) error {
		return write(ctx, pages.Department(ctx.Context(), param(ctx, "id")))
	}))

	r.Get(routes.Analytics, router.WrapHandler(func(ctx router.Context) error {
		return write(ctx, pages.Analytics(ctx.Context(), param(ctx, "view"), query(ctx, "department")))
	}))

	r.Get(routes.Analysis, router.WrapHandler(func(ctx router.Context) error {
		return write(ctx, pages.Analysis(ctx.Context(), param(ctx, "department"), param(ctx, "fileId")))
	}))

	r.Get(routes.AnalysisPartial, router.WrapHandler(func(ctx router.Context) error {
		return write(ctx, pages.Analysis(ctx.Context(), param(ctx, "department"), ""))
	}))

	r.Get(routes.Upload, router.WrapHandler(func(ctx router.Context) error {
		return write(ctx, pages.Upload(ctx.Context()))
	}))

	r.Get(routes.Shell, router.WrapHandler(func(ctx router.Context) error {
		return write(ctx, pages.Shell(ShellAction{}))
	}))

	r.Post(routes.Shell, router.WrapHandler(func(ctx router.Context) error {
		var action ShellAction
		if err := decode(ctx.Body(), &action); err != nil {
			return write(ctx, errorResponse(http.StatusBadRequest, err.Error()))
		}
		return write(ctx, pages.Shell(action))
	}))

	r.Get(routes.Health, router.WrapHandler(func(ctx router.Context) error {
		return write(ctx, pages.Health(ctx.Context(), truthy(query(ctx, "retry"))))
	}))

	r.Get(routes.Departments, router.WrapHandler(func(ctx router.Context) error {
		return write(ctx, pages.Departments(ctx.Context()))
	}))

	if pages.Sidebar != nil {
		r.Get(routes.Sidebar, router.WrapHandler(func(ctx router.Context) error {
			return write(ctx, pages.SidebarItems(ctx.Context()))
		}))
	}

	if pages.RecordUpload != nil {
		r.Post(routes.Uploads, router.WrapHandler(func(ctx router.Context) error {
			return write(ctx, pages.Uploads(ctx.Context(), ctx.Body()))
		}))
	}

	if pages.ClearData != nil {
		r.Delete(routes.Data, router.WrapHandler(func(ctx router.Context) error {
			return write(ctx, pages.Data(ctx.Context(), strings.Clone(ctx.Header("X-Actor-ID"))))
		}))
	}

	if pages.Chat != nil {
		r.Post(routes.Chat, router.WrapHandler(func(ctx router.Context) error {
			return write(ctx, pages.ChatMessage(ctx.Context(), ctx.Body()))
		}))
	}

	if cfg.Sidebar != nil {
		registerWebSocket(r, cfg.Sidebar, pages.State.Broadcaster(), routes.WebSocket)
	}

	return nil
}

// registerWebSocket streams the freshly derived sidebar on connect and after every state change.
func registerWebSocket[T any](r router.Router[T], sidebar *deptstate.Sidebar, broadcast *deptstate.Broadcaster, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := broadcast.Subscribe()
		defer cancel()
		if err := ws.WriteJSON(sidebarMessage(sidebar, nil)); err != nil {
			return err
		}
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(sidebarMessage(sidebar, &event)); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

// SidebarMessage is pushed over the WebSocket.
type SidebarMessage struct {
	Reason deptstate.StateEventReason `json:"reason,omitempty"`
	Items  []deptstate.SidebarItem    `json:"items"`
}

func sidebarMessage(sidebar *deptstate.Sidebar, event *deptstate.StateEvent) SidebarMessage {
	msg := SidebarMessage{Items: sidebar.Items()}
	if event != nil {
		msg.Reason = event.Reason
	}
	return msg
}

func write(ctx router.Context, resp Response) error {
	if resp.Location != "" {
		ctx.SetHeader("Location", resp.Location)
	}
	return ctx.JSON(resp.Status, resp.Body)
}

// param copies a route parameter. Adapters may hand out strings backed by a
// request buffer that is reused after the handler returns, and the value is
// already unescaped.
func param(ctx router.Context, name string) string {
	return strings.Clone(ctx.Param(name))
}

// query copies a query value for the same reason as param.
func query(ctx router.Context, name string) string {
	return strings.Clone(ctx.Query(name))
}

func decode(body []byte, v any) error {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Root == "" {
		routes.Root = deptstate.PathRoot
	}
	if routes.Department == "" {
		routes.Department = "/department/:id"
	}
	if routes.Analytics == "" {
		routes.Analytics = "/analytics/:view"
	}
	if routes.Analysis == "" {
		routes.Analysis = "/analysis/:department/:fileId"
	}
	if routes.AnalysisPartial == "" {
		routes.AnalysisPartial = "/analysis/:department"
	}
	if routes.Upload == "" {
		routes.Upload = deptstate.PathUpload
	}
	if routes.Sidebar == "" {
		routes.Sidebar = "/api/sidebar"
	}
	if routes.Shell == "" {
		routes.Shell = "/api/shell"
	}
	if routes.Health == "" {
		routes.Health = "/api/health"
	}
	if routes.Departments == "" {
		routes.Departments = "/api/departments"
	}
	if routes.Uploads == "" {
		routes.Uploads = "/api/uploads"
	}
	if routes.Chat == "" {
		routes.Chat = "/api/chat"
	}
	if routes.Data == "" {
		routes.Data = "/api/data"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}
