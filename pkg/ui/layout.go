package ui

import (
	"charm.land/lipgloss/v2"
)

const (
	minLeftWidth = 28
	maxLeftWidth = 48
)

// LayoutManager handles the overall UI layout
type LayoutManager struct {
	width  int
	height int
}

// NewLayoutManager creates a new layout manager
func NewLayoutManager() *LayoutManager {
	return &LayoutManager{
		width:  80,
		height: 24,
	}
}

// SetSize updates the layout dimensions
func (lm *LayoutManager) SetSize(width, height int) {
	lm.width = width
	lm.height = height
}

// BodyHeight returns the height between header and status bar.
func (lm *LayoutManager) BodyHeight() int {
	return max(lm.height-lm.HeaderHeight()-lm.StatusBarHeight(), 1)
}

// HeaderHeight returns the height for the header
func (lm *LayoutManager) HeaderHeight() int {
	return 1
}

// StatusBarHeight returns the height for status bar
func (lm *LayoutManager) StatusBarHeight() int {
	return 1
}

// LeftWidth is the Research Context column, a third of the screen within
// fixed bounds.
func (lm *LayoutManager) LeftWidth() int {
	w := min(max(lm.width/3, minLeftWidth), maxLeftWidth)
	// Leave the chat at least as wide as the context column.
	if lm.width-w < w {
		w = lm.width / 2
	}
	return max(w, 1)
}

// RightWidth is the chat column.
func (lm *LayoutManager) RightWidth() int {
	return max(lm.width-lm.LeftWidth(), 1)
}

// RenderLayout stacks header, the two columns and the status bar.
func (lm *LayoutManager) RenderLayout(header, left, right, statusBar string) string {
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		body,
		statusBar,
	)
}

// GetDimensions returns current width and height
func (lm *LayoutManager) GetDimensions() (width, height int) {
	return lm.width, lm.height
}
