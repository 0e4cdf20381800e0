package statusbar

import (
	"fmt"
	"strings"

	"researchmate/pkg/ui/styles"

	"github.com/charmbracelet/x/ansi"
)

// Backend connectivity as last reported by a ping.
type Connection int

const (
	ConnUnknown Connection = iota
	ConnOnline
	ConnOffline
)

func (c Connection) String() string {
	switch c {
	case ConnOnline:
		return "online"
	case ConnOffline:
		return "offline"
	default:
		return "checking"
	}
}

const prefix = "[researchmate]"

// StatusBarView renders the bottom bar: backend address or a transient
// message on the left, connectivity and hints on the right.
type StatusBarView struct {
	backend string
	message string
	conn    Connection
	width   int
}

// NewStatusBarView creates a new status bar view
func NewStatusBarView() *StatusBarView {
	return &StatusBarView{width: 80}
}

// SetBackend sets the backend base URL shown when no message is set.
func (s *StatusBarView) SetBackend(url string) {
	s.backend = strings.TrimSpace(url)
}

// SetMessage sets a temporary message; empty restores the backend URL.
func (s *StatusBarView) SetMessage(msg string) {
	s.message = msg
}

// Message returns the current transient message.
func (s *StatusBarView) Message() string {
	return s.message
}

// SetConnection updates the connectivity indicator.
func (s *StatusBarView) SetConnection(c Connection) {
	s.conn = c
}

// SetWidth updates the width for rendering
func (s *StatusBarView) SetWidth(width int) {
	s.width = width
}

// Render returns the styled status bar, exactly width cells wide.
func (s *StatusBarView) Render() string {
	const (
		minGap         = 2
		contentPadding = 2
	)

	right := fmt.Sprintf("[api]: %s", s.conn)
	if s.message == "" {
		right += " | tab focus · ctrl+c quit"
	}
	rightWidth := ansi.StringWidth(right)

	innerWidth := s.width - contentPadding
	if innerWidth < 0 {
		innerWidth = 0
	}

	inner := ""
	if rightWidth > innerWidth {
		inner = ansi.Truncate(right, innerWidth, "")
	} else {
		leftText := s.backend
		if s.message != "" {
			leftText = s.message
		}

		left := prefix
		leftAvailable := innerWidth - rightWidth - minGap
		prefixWidth := ansi.StringWidth(prefix)
		switch {
		case leftAvailable < prefixWidth:
			left = ansi.Truncate(prefix, max(leftAvailable, 0), "")
		case leftText != "" && leftAvailable > prefixWidth+1:
			left = prefix + " " + ansi.Truncate(leftText, leftAvailable-prefixWidth-1, "...")
		}

		gap := innerWidth - ansi.StringWidth(left) - rightWidth
		inner = left + strings.Repeat(" ", max(gap, 0)) + right
	}

	if w := ansi.StringWidth(inner); w < innerWidth {
		inner += strings.Repeat(" ", innerWidth-w)
	}

	rendered := styles.StatusBarStyle.Render(inner)
	if w := ansi.StringWidth(rendered); w < s.width {
		rendered += strings.Repeat(" ", s.width-w)
	}
	return rendered
}
