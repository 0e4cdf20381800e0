// Package uploadpanel is the file selector of the Research Context column:
// a path input plus the upload status line.
package uploadpanel

import (
	"os"
	"path/filepath"
	"strings"

	"researchmate/pkg/ui/components/utils"
	"researchmate/pkg/ui/styles"
	"researchmate/pkg/upload"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// Status line labels.
const (
	LabelIdle      = "Enter a PDF path to upload"
	LabelUploading = "Processing PDF..."
	LabelSuccess   = "Upload Complete"
	LabelError     = "Upload Failed"
)

// SelectMsg is emitted when the user confirms a file path.
type SelectMsg struct {
	Path string
}

// Panel holds the path input and mirrors the uploader status.
type Panel struct {
	width   int
	focused bool
	status  upload.Status
	detail  string

	input   textinput.Model
	spinner spinner.Model
}

// New creates an idle upload panel. accept is the advisory extension hint.
func New(accept string) *Panel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "path/to/paper" + accept
	return &Panel{
		input:   ti,
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}
}

// SetWidth sets the available content width.
func (p *Panel) SetWidth(width int) {
	p.width = width
	p.input.SetWidth(max(width-4, 1))
}

// SetStatus mirrors the uploader state. detail is the file path while
// uploading, a file name on success or a short reason on error.
func (p *Panel) SetStatus(status upload.Status, detail string) {
	p.status = status
	p.detail = detail
}

// Status returns the mirrored uploader state.
func (p *Panel) Status() upload.Status {
	return p.status
}

// Focus gives the path input keyboard focus.
func (p *Panel) Focus() tea.Cmd {
	p.focused = true
	return p.input.Focus()
}

// Blur removes keyboard focus.
func (p *Panel) Blur() {
	p.focused = false
	p.input.Blur()
}

// Focused reports whether the input has focus.
func (p *Panel) Focused() bool {
	return p.focused
}

// Value returns the typed path.
func (p *Panel) Value() string {
	return p.input.Value()
}

// SetValue replaces the typed path.
func (p *Panel) SetValue(s string) {
	p.input.SetValue(s)
}

// SpinnerTick starts the busy animation.
func (p *Panel) SpinnerTick() tea.Msg {
	return p.spinner.Tick()
}

// Update handles keys while focused and spinner ticks while uploading.
func (p *Panel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if p.status != upload.StatusUploading {
			return nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd

	case tea.PasteMsg:
		if !p.focused {
			return nil
		}
		p.input.SetValue(p.input.Value() + strings.TrimSpace(msg.Content))
		p.input.CursorEnd()
		return nil

	case tea.KeyPressMsg:
		if !p.focused {
			return nil
		}
		if msg.String() == "enter" {
			return p.submit()
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return cmd
	}
	return nil
}

func (p *Panel) submit() tea.Cmd {
	path := ExpandPath(p.input.Value())
	if path == "" || p.status == upload.StatusUploading {
		return nil
	}
	return func() tea.Msg {
		return SelectMsg{Path: path}
	}
}

// ExpandPath trims whitespace and surrounding quotes (as left by terminal
// drag and drop) and expands a leading ~.
func ExpandPath(raw string) string {
	path := strings.TrimSpace(raw)
	path = strings.Trim(path, `"'`)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// View renders the input and status lines, without a border.
func (p *Panel) View() string {
	width := max(p.width, 1)

	var status string
	switch p.status {
	case upload.StatusUploading:
		status = p.spinner.View() + " " + styles.TextMutedStyle.Render(LabelUploading)
	case upload.StatusSuccess:
		status = styles.SuccessStyle.Render("✔ " + LabelSuccess)
	case upload.StatusError:
		label := "✘ " + LabelError
		if p.detail != "" {
			label += ": " + p.detail
		}
		status = styles.ErrorStyle.Render(utils.TruncateToWidth(label, width))
	default:
		status = styles.TextMutedStyle.Render(utils.TruncateToWidth(LabelIdle, width))
	}

	hint := "enter to upload"
	switch {
	case p.status == upload.StatusUploading && p.detail != "":
		hint = utils.ShortenPath(utils.HomeRelative(p.detail), width)
	case !p.focused:
		hint = "tab to select a file"
	}

	lines := []string{
		p.input.View(),
		status,
		styles.FooterStyle.Render(utils.TruncateToWidth(hint, width)),
	}
	return strings.Join(utils.FitLines(lines, width, len(lines)), "\n")
}
