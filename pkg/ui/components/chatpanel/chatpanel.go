// Package chatpanel renders the conversation transcript with a text input
// below it.
package chatpanel

import (
	"fmt"
	"os"
	"strings"

	"researchmate/pkg/chat"
	"researchmate/pkg/ui/components/utils"
	"researchmate/pkg/ui/components/viewport"
	"researchmate/pkg/ui/markdown"
	"researchmate/pkg/ui/styles"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"github.com/charmbracelet/x/ansi"
)

const (
	borderSize     = 1
	paddingH       = 1
	textareaHeight = 3

	// Placeholder is shown in the empty input.
	Placeholder = "Ask about the paper, request code, or generate insights..."
	// ThinkingLabel is shown below the transcript while awaiting a reply.
	ThinkingLabel = "Thinking..."
)

// SubmitMsg is emitted when the user presses enter on non-blank input.
type SubmitMsg struct {
	Text string
}

// Panel displays the transcript and owns the chat input.
type Panel struct {
	width      int
	height     int
	focused    bool
	transcript viewport.Transcript

	messages []chat.Message
	awaiting bool

	textarea textarea.Model
	spinner  spinner.Model
}

// New creates a chat panel with an empty transcript.
func New() *Panel {
	ta := textarea.New()
	ta.Placeholder = Placeholder
	ta.ShowLineNumbers = false
	ta.SetHeight(textareaHeight)

	return &Panel{
		transcript: viewport.NewTranscript(),
		textarea:   ta,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// SetSize sets the outer dimensions, border included.
func (p *Panel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.textarea.SetWidth(p.contentWidth())
	p.transcript.SetSize(p.contentWidth(), p.transcriptHeight())
	p.reflow()
}

// SetMessages replaces the rendered transcript. New content scrolls into
// view unless the user has scrolled up.
func (p *Panel) SetMessages(messages []chat.Message, awaiting bool) {
	p.messages = messages
	p.awaiting = awaiting
	p.reflow()
}

// Awaiting reports whether the panel shows the thinking indicator.
func (p *Panel) Awaiting() bool {
	return p.awaiting
}

// Focus gives the input keyboard focus.
func (p *Panel) Focus() tea.Cmd {
	p.focused = true
	return p.textarea.Focus()
}

// Blur removes keyboard focus.
func (p *Panel) Blur() {
	p.focused = false
	p.textarea.Blur()
}

// Focused reports whether the input has focus.
func (p *Panel) Focused() bool {
	return p.focused
}

// Value returns the current input text.
func (p *Panel) Value() string {
	return p.textarea.Value()
}

// SetValue replaces the input text.
func (p *Panel) SetValue(s string) {
	p.textarea.SetValue(s)
}

// SpinnerTick starts the thinking animation.
func (p *Panel) SpinnerTick() tea.Msg {
	return p.spinner.Tick()
}

// Update handles keys while focused and spinner ticks while awaiting.
func (p *Panel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !p.awaiting {
			return nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd

	case tea.PasteMsg:
		if !p.focused {
			return nil
		}
		p.textarea.InsertString(msg.Content)
		return nil

	case tea.KeyPressMsg:
		if !p.focused {
			return nil
		}
		if msg.String() == "enter" {
			return p.submit()
		}
		if p.transcript.Scroll(msg.String()) {
			return nil
		}
		var cmd tea.Cmd
		p.textarea, cmd = p.textarea.Update(msg)
		return cmd
	}
	return nil
}

// submit keeps the input while a reply is outstanding so it can be sent
// once the panel is free again.
func (p *Panel) submit() tea.Cmd {
	if p.awaiting {
		return nil
	}
	text := p.textarea.Value()
	if strings.TrimSpace(text) == "" {
		return nil
	}
	p.textarea.Reset()
	p.transcript.Follow()
	return func() tea.Msg {
		return SubmitMsg{Text: text}
	}
}

// View renders the panel box.
func (p *Panel) View() string {
	width := p.contentWidth()

	lines := make([]string, 0, p.contentHeight())
	lines = append(lines, p.title(width))
	lines = append(lines, strings.Split(p.transcript.View(), "\n")...)

	status := ""
	if p.awaiting {
		status = p.spinner.View() + " " + styles.ThinkingStyle.Render(ThinkingLabel)
	}
	lines = append(lines, utils.PadStyled(status, width))
	lines = append(lines, styles.TextMutedStyle.Render(strings.Repeat("─", width)))

	p.textarea.SetWidth(width)
	inputLines := strings.Split(p.textarea.View(), "\n")
	lines = append(lines, utils.FitLines(inputLines, width, textareaHeight)...)

	box := styles.BoxStyle
	if p.focused {
		box = styles.BoxFocusedStyle
	}
	return box.Width(max(p.width, 1)).Padding(0, paddingH).Render(strings.Join(lines, "\n"))
}

// title shows how far up the transcript the reader is while not following.
func (p *Panel) title(width int) string {
	title := styles.TitleStyle.Render("Chat")
	if !p.transcript.Following() {
		total, visible, percent := p.transcript.Stats()
		if total > visible {
			title += styles.TextMutedStyle.Render(fmt.Sprintf(" ↑ %d%% · end to follow", percent))
		}
	}
	return utils.PadStyled(ansi.Truncate(title, width, ""), width)
}

// Copy writes text to the system clipboard through the terminal.
func Copy(text string) tea.Cmd {
	return func() tea.Msg {
		_, _ = fmt.Fprint(os.Stdout, osc52.New(text))
		return nil
	}
}

// RenderMessages renders the transcript as styled lines for width cells.
// Assistant turns carry the agent label in upper case when one is set.
func RenderMessages(messages []chat.Message, width int) []string {
	if len(messages) == 0 {
		return emptyState(width)
	}

	var out []string
	for i, msg := range messages {
		if i > 0 {
			out = append(out, "")
		}
		if msg.Role == chat.RoleUser {
			out = append(out, styles.UserLabelStyle.Render("You"))
		} else {
			label := styles.AssistantLabelStyle.Render("ResearchMate")
			if msg.Agent != "" {
				label += " " + styles.AgentBadgeStyle.Render("✦ "+strings.ToUpper(msg.Agent))
			}
			out = append(out, label)
		}
		out = append(out, markdown.Render(msg.Content, width)...)
	}
	return out
}

func emptyState(width int) []string {
	lines := []string{
		styles.HeadingStyle.Render(utils.TruncateToWidth("Welcome to ResearchMate AI", width)),
		"",
	}
	hint := "Upload a research paper on the left, then ask for summaries, insights, comparisons or Python code."
	return append(lines, markdown.Render(hint, width)...)
}

func (p *Panel) reflow() {
	width := p.contentWidth()
	p.transcript.SetLines(RenderMessages(p.messages, width))
}

func (p *Panel) contentWidth() int {
	return max(p.width-2*(borderSize+paddingH), 1)
}

func (p *Panel) contentHeight() int {
	return max(p.height-2*borderSize, 1)
}

// transcriptHeight is what remains after title, status, separator and input.
func (p *Panel) transcriptHeight() int {
	return max(p.contentHeight()-3-textareaHeight, 1)
}
