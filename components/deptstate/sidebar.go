package deptstate

import (
	"context"
	"strings"
	"sync"
)

// DefaultIcon is used for departments without an entry in the icon table.
const DefaultIcon = "folder"

var defaultDepartmentIcons = map[string]string{
	"electronics":   "cpu",
	"clothing":      "shirt",
	"fashion":       "shirt",
	"home":          "home",
	"home & garden": "home",
	"furniture":     "sofa",
	"sports":        "activity",
	"books":         "book",
	"beauty":        "sparkles",
	"toys":          "gift",
	"grocery":       "shopping-cart",
	"food":          "shopping-cart",
	"automotive":    "truck",
	"health":        "heart",
	"jewelry":       "gem",
}

// IconTable maps department names to icon identifiers, case-insensitively.
type IconTable struct {
	mu    sync.RWMutex
	icons map[string]string
}

// NewIconTable builds a table seeded with the built-in icons.
func NewIconTable() *IconTable {
	icons := make(map[string]string, len(defaultDepartmentIcons))
	for k, v := range defaultDepartmentIcons {
		icons[k] = v
	}
	return &IconTable{icons: icons}
}

// Lookup returns the icon for department or DefaultIcon.
func (t *IconTable) Lookup(department string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if icon, ok := t.icons[iconKey(department)]; ok {
		return icon
	}
	return DefaultIcon
}

// Set overrides the icon for department.
func (t *IconTable) Set(department, icon string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.icons[iconKey(department)] = icon
}

func iconKey(department string) string {
	return strings.ToLower(strings.TrimSpace(department))
}

// SidebarItem is one navigation entry for an active department.
type SidebarItem struct {
	Department string `json:"department"`
	Label      string `json:"label"`
	Route      string `json:"route"`
	Icon       string `json:"icon"`
	FileID     string `json:"fileId"`
}

// Sidebar derives navigation entries from the department state store.
// It never caches: every call reflects the store at that moment.
type Sidebar struct {
	state *AppState
	icons *IconTable
}

// NewSidebar builds a sidebar registry. icons may be nil.
func NewSidebar(state *AppState, icons *IconTable) *Sidebar {
	if icons == nil {
		icons = NewIconTable()
	}
	return &Sidebar{state: state, icons: icons}
}

// Icons exposes the icon table so manifests can extend it.
func (s *Sidebar) Icons() *IconTable { return s.icons }

// Items returns one entry per active department.
func (s *Sidebar) Items() []SidebarItem {
	store := s.state.Departments()
	departments := store.ListActiveDepartments()
	items := make([]SidebarItem, 0, len(departments))
	for _, name := range departments {
		item := SidebarItem{
			Department: name,
			Label:      name,
			Route:      DepartmentPath(name),
			Icon:       s.icons.Lookup(name),
		}
		if state, ok := store.GetDepartmentState(name); ok {
			item.FileID = state.FileID
		}
		items = append(items, item)
	}
	return items
}

// Watch calls fn with the current items and again after every state change
// until ctx is done.
func (s *Sidebar) Watch(ctx context.Context, fn func([]SidebarItem)) {
	events, cancel := s.state.Broadcaster().Subscribe()
	defer cancel()
	fn(s.Items())
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			fn(s.Items())
		}
	}
}
