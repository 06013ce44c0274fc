package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-deptboard/components/deptstate"
)

// SidebarInput is empty; the sidebar is derived from shared state only.
type SidebarInput struct{}

// SidebarResult carries the navigation entries and shell layout.
type SidebarResult struct {
	Items []deptstate.SidebarItem `json:"items"`
	Shell deptstate.ShellState    `json:"shell"`
	CSS   map[string]string       `json:"css"`
}

type sidebarSource interface {
	Items() []deptstate.SidebarItem
}

type shellSource interface {
	State() deptstate.ShellState
	CSSVariables() map[string]string
}

// SidebarQuery resolves the sidebar for rendering.
type SidebarQuery struct {
	sidebar sidebarSource
	shell   shellSource
}

// NewSidebarQuery builds the query.
func NewSidebarQuery(sidebar sidebarSource, shell shellSource) *SidebarQuery {
	return &SidebarQuery{sidebar: sidebar, shell: shell}
}

var _ gocommand.Querier[SidebarInput, SidebarResult] = (*SidebarQuery)(nil)

// Query returns the freshly derived sidebar.
func (q *SidebarQuery) Query(context.Context, SidebarInput) (SidebarResult, error) {
	out := SidebarResult{Items: q.sidebar.Items()}
	if q.shell != nil {
		out.Shell = q.shell.State()
		out.CSS = q.shell.CSSVariables()
	}
	return out, nil
}
