// Package viewport wraps the Bubble Tea viewport for the chat transcript.
package viewport

import (
	"strings"

	"researchmate/pkg/ui/components/utils"

	"charm.land/bubbles/v2/viewport"
)

// Transcript is a scrollable list of pre-rendered lines that sticks to the
// bottom until the user scrolls up.
type Transcript struct {
	Viewport viewport.Model
	lines    []string
	follow   bool
	ready    bool
}

// NewTranscript creates an empty transcript viewport.
func NewTranscript() Transcript {
	return Transcript{
		Viewport: viewport.New(),
		follow:   true,
	}
}

// SetSize updates the viewport dimensions
func (v *Transcript) SetSize(width, height int) {
	v.Viewport.SetWidth(max(width, 1))
	v.Viewport.SetHeight(max(height, 1))
	v.ready = true
	v.settle()
}

// SetLines replaces the content. The view stays at the bottom while
// following.
func (v *Transcript) SetLines(lines []string) {
	v.lines = lines
	v.Viewport.SetContentLines(append([]string(nil), lines...))
	v.settle()
}

// Follow re-attaches the view to the bottom.
func (v *Transcript) Follow() {
	v.follow = true
	v.Viewport.GotoBottom()
}

// Following reports whether new content scrolls into view.
func (v *Transcript) Following() bool {
	return v.follow
}

// Scroll applies a navigation key and reports whether it was one.
func (v *Transcript) Scroll(key string) bool {
	switch key {
	case "up":
		v.Viewport.ScrollUp(1)
	case "down":
		v.Viewport.ScrollDown(1)
	case "pgup":
		v.Viewport.PageUp()
	case "pgdown":
		v.Viewport.PageDown()
	case "home":
		v.Viewport.GotoTop()
	case "end":
		v.Viewport.GotoBottom()
	default:
		return false
	}
	v.follow = v.Viewport.AtBottom()
	return true
}

// View renders exactly the configured height of lines.
func (v *Transcript) View() string {
	width, height := v.Viewport.Width(), v.Viewport.Height()
	if !v.ready {
		return strings.Join(utils.FitLines([]string{"Loading..."}, width, height), "\n")
	}
	return strings.Join(utils.FitLines(strings.Split(v.Viewport.View(), "\n"), width, height), "\n")
}

// Stats returns viewport statistics
func (v *Transcript) Stats() (totalLines, visibleLines, scrollPercent int) {
	totalLines = len(v.lines)
	visibleLines = v.Viewport.Height()

	if totalLines <= visibleLines {
		scrollPercent = 100
	} else {
		scrollPercent = int(v.Viewport.ScrollPercent() * 100)
	}
	return
}

// settle clamps the offset after a content or size change.
func (v *Transcript) settle() {
	if v.follow {
		v.Viewport.GotoBottom()
		return
	}
	v.Viewport.SetYOffset(v.Viewport.YOffset())
}
