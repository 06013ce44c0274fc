package deptstate

import (
	"context"
	"encoding/json"
	"fmt"
)

// Options configures an AppState. Every collaborator is optional.
type Options struct {
	Clock         Clock
	Telemetry     Telemetry
	Storage       Storage
	PageValidator *PageSchemaValidator
}

// AppState is the single owner of the department and page stores. Build
// one at the application root and pass it to every consumer.
type AppState struct {
	opts        Options
	departments *DepartmentStore
	pages       *PageStore
	broadcast   *Broadcaster
	navigator   *Navigator
	shell       *Shell
}

// NewAppState wires the stores with safe defaults.
func NewAppState(opts Options) *AppState {
	opts.Clock = normalizeClock(opts.Clock)
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.PageValidator == nil {
		opts.PageValidator = NewPageSchemaValidator()
	}
	s := &AppState{
		opts:      opts,
		broadcast: NewBroadcaster(),
		navigator: NewNavigator(),
		pages:     NewPageStore(opts.PageValidator),
		shell:     NewShell(false),
	}
	s.departments = NewDepartmentStore(opts.Clock, multiHook{
		StateHookFunc(s.persist),
		s.broadcast,
	})
	return s
}

// Departments exposes the department state store.
func (s *AppState) Departments() *DepartmentStore { return s.departments }

// Pages exposes the page state store.
func (s *AppState) Pages() *PageStore { return s.pages }

// Broadcaster exposes state change fan-out.
func (s *AppState) Broadcaster() *Broadcaster { return s.broadcast }

// Navigator exposes the navigation tracker.
func (s *AppState) Navigator() *Navigator { return s.navigator }

// Shell exposes the collapsible navigation shell state.
func (s *AppState) Shell() *Shell { return s.shell }

// Telemetry exposes the configured telemetry sink.
func (s *AppState) Telemetry() Telemetry { return s.opts.Telemetry }

// PersistedDepartments returns the active department list saved by a previous process.
func (s *AppState) PersistedDepartments(ctx context.Context) ([]string, error) {
	if s.opts.Storage == nil {
		return nil, nil
	}
	raw, ok, err := s.opts.Storage.Load(ctx, ActiveDepartmentsKey)
	if err != nil || !ok {
		return nil, err
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("deptstate: decode %s: %w", ActiveDepartmentsKey, err)
	}
	return out, nil
}

// Wipe clears both stores and the persisted list. Callers invoke it only
// after the backend confirmed a bulk data delete.
func (s *AppState) Wipe(ctx context.Context) error {
	s.pages.reset()
	s.departments.reset()
	s.navigator.Navigate(Route{Name: RouteDashboard})
	s.opts.Telemetry.Record(ctx, "deptstate.wipe", nil)
	if s.opts.Storage == nil {
		return nil
	}
	return s.opts.Storage.Delete(ctx, ActiveDepartmentsKey)
}

func (s *AppState) persist(event StateEvent) {
	ctx := context.Background()
	if event.Reason == ReasonSet {
		s.opts.Telemetry.Record(ctx, "deptstate.department.set", map[string]any{
			"department": event.Department,
			"file_id":    event.State.FileID,
		})
	}
	if s.opts.Storage == nil || event.Reason != ReasonSet {
		return
	}
	// Re-read so an out-of-order hook call never persists an older key set.
	data, err := json.Marshal(s.departments.ListActiveDepartments())
	if err != nil {
		return
	}
	if err := s.opts.Storage.Save(ctx, ActiveDepartmentsKey, data); err != nil {
		s.opts.Telemetry.Record(ctx, "deptstate.persist_error", map[string]any{"error": err.Error()})
	}
}
