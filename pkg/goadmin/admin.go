package goadmin

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-deptboard/components/deptstate"
)

// MenuBuilder ensures dashboard entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures dashboard link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// SidebarSource yields the current department entries.
type SidebarSource interface {
	Items() []deptstate.SidebarItem
	Watch(ctx context.Context, fn func([]deptstate.SidebarItem))
}

// Config wires the department sidebar into an admin shell.
type Config struct {
	EnableDashboard bool
	MenuCode        string
	MenuBuilder     MenuBuilder
	Sidebar         SidebarSource
	DefaultMenuItem MenuItem
}

// Admin mirrors dashboard navigation into go-admin style menus.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed dashboard menus.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableDashboard && cfg.Sidebar == nil {
		return nil, errors.New("goadmin: sidebar is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.DefaultMenuItem.Label == "" {
		cfg.DefaultMenuItem.Label = "Dashboard"
	}
	if cfg.DefaultMenuItem.Route == "" {
		cfg.DefaultMenuItem.Route = deptstate.PathRoot
	}
	if cfg.DefaultMenuItem.Icon == "" {
		cfg.DefaultMenuItem.Icon = "home"
	}
	return &Admin{cfg: cfg}, nil
}

// Sidebar exposes the configured sidebar when enabled.
func (a *Admin) Sidebar() SidebarSource {
	if !a.cfg.EnableDashboard {
		return nil
	}
	return a.cfg.Sidebar
}

// Bootstrap seeds the dashboard entry and one entry per active department.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableDashboard || a.cfg.MenuBuilder == nil {
		return nil
	}
	if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, a.cfg.DefaultMenuItem); err != nil {
		return err
	}
	return a.Sync(ctx, a.cfg.Sidebar.Items())
}

// Sync ensures a menu entry exists for every sidebar item, positioned after the dashboard entry.
func (a *Admin) Sync(ctx context.Context, items []deptstate.SidebarItem) error {
	if !a.cfg.EnableDashboard || a.cfg.MenuBuilder == nil {
		return nil
	}
	for idx, item := range items {
		entry := MenuItem{
			Label:    item.Label,
			Route:    item.Route,
			Icon:     item.Icon,
			Position: a.cfg.DefaultMenuItem.Position + idx + 1,
		}
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, entry); err != nil {
			return fmt.Errorf("goadmin: ensure %s: %w", item.Department, err)
		}
	}
	return nil
}

// Watch keeps the menu in sync with the sidebar until ctx is done. Sync
// errors are passed to onError, which may be nil.
func (a *Admin) Watch(ctx context.Context, onError func(error)) {
	if !a.cfg.EnableDashboard || a.cfg.MenuBuilder == nil {
		return
	}
	a.cfg.Sidebar.Watch(ctx, func(items []deptstate.SidebarItem) {
		if err := a.Sync(ctx, items); err != nil && onError != nil {
			onError(err)
		}
	})
}
