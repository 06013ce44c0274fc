package deptstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShellPointerViewport(t *testing.T) {
	shell := NewShell(false)
	assert.Equal(t, "64px", shell.State().Width)

	assert.Equal(t, "240px", shell.PointerEnter().Width)
	assert.Equal(t, "64px", shell.PointerLeave().Width)

	state := shell.Toggle()
	assert.False(t, state.Collapsed)
	assert.Equal(t, map[string]string{SidebarWidthVar: "240px"}, shell.CSSVariables())
}

func TestShellTouchViewportIgnoresHover(t *testing.T) {
	shell := NewShell(true)
	assert.Equal(t, "0px", shell.State().Width)
	assert.Equal(t, "0px", shell.PointerEnter().Width)

	opened := shell.Toggle()
	assert.True(t, opened.Open)
	assert.Equal(t, "240px", opened.Width)

	assert.Equal(t, "240px", shell.PointerLeave().Width)
	assert.Equal(t, "0px", shell.Toggle().Width)
}

func TestShellSwitchToTouchHides(t *testing.T) {
	shell := NewShell(false)
	shell.PointerEnter()
	state := shell.SetTouch(true)
	assert.Equal(t, "0px", state.Width)
	assert.True(t, state.Collapsed)
}
