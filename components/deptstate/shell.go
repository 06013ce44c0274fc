package deptstate

import "sync"

const (
	collapsedWidth = "64px"
	expandedWidth  = "240px"
	hiddenWidth    = "0px"

	// SidebarWidthVar is the CSS custom property the layout reads the shell width from.
	SidebarWidthVar = "--sidebar-width"
)

// ShellState is a snapshot of the navigation shell.
type ShellState struct {
	Collapsed bool   `json:"collapsed"`
	Touch     bool   `json:"touch"`
	Open      bool   `json:"open"`
	Width     string `json:"width"`
}

// Shell tracks the collapsible navigation shell. On pointer viewports it
// expands on hover; on touch viewports only Toggle opens it.
type Shell struct {
	mu        sync.Mutex
	collapsed bool
	touch     bool
	open      bool
}

// NewShell starts collapsed.
func NewShell(touch bool) *Shell {
	return &Shell{collapsed: true, touch: touch}
}

// SetTouch switches the viewport kind. Switching to touch hides the shell.
func (s *Shell) SetTouch(touch bool) ShellState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch = touch
	if touch {
		s.open = false
		s.collapsed = true
	}
	return s.stateLocked()
}

// PointerEnter expands the shell on pointer viewports.
func (s *Shell) PointerEnter() ShellState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.touch {
		s.collapsed = false
	}
	return s.stateLocked()
}

// PointerLeave collapses the shell on pointer viewports.
func (s *Shell) PointerLeave() ShellState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.touch {
		s.collapsed = true
	}
	return s.stateLocked()
}

// Toggle flips the shell explicitly.
func (s *Shell) Toggle() ShellState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.touch {
		s.open = !s.open
		s.collapsed = !s.open
	} else {
		s.collapsed = !s.collapsed
	}
	return s.stateLocked()
}

// State returns the current snapshot.
func (s *Shell) State() ShellState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// CSSVariables returns the custom properties the layout consumes.
func (s *Shell) CSSVariables() map[string]string {
	return map[string]string{SidebarWidthVar: s.State().Width}
}

func (s *Shell) stateLocked() ShellState {
	width := expandedWidth
	switch {
	case s.touch && !s.open:
		width = hiddenWidth
	case s.collapsed:
		width = collapsedWidth
	}
	return ShellState{
		Collapsed: s.collapsed,
		Touch:     s.touch,
		Open:      s.open,
		Width:     width,
	}
}
