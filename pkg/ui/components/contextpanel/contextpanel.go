// Package contextpanel renders the left column: the Research Context box
// (upload widget plus active document card) and the Capabilities list.
package contextpanel

import (
	"fmt"
	"strings"

	"researchmate/pkg/agentapi"
	"researchmate/pkg/ui/components/utils"
	"researchmate/pkg/ui/styles"

	"charm.land/lipgloss/v2"
)

const (
	borderSize = 1
	paddingH   = 1
)

// Capabilities lists what the backend agents can do.
var Capabilities = []string{
	"Summarization & Extraction",
	"Insight Generation",
	"Comparison & Dashboards",
	"Python Code Generation",
}

// Panel composes the upload widget view with the active document.
type Panel struct {
	width   int
	height  int
	focused bool

	doc    agentapi.UploadResult
	hasDoc bool
}

// New creates an empty context panel.
func New() *Panel {
	return &Panel{}
}

// SetSize sets the outer dimensions of the whole column.
func (p *Panel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// ContentWidth is the width available inside the boxes.
func (p *Panel) ContentWidth() int {
	return max(p.width-2*(borderSize+paddingH), 1)
}

// SetFocused highlights the Research Context box.
func (p *Panel) SetFocused(focused bool) {
	p.focused = focused
}

// SetDocument shows doc in the active document card.
func (p *Panel) SetDocument(doc agentapi.UploadResult) {
	p.doc = doc
	p.hasDoc = true
}

// ClearDocument hides the active document card.
func (p *Panel) ClearDocument() {
	p.doc = agentapi.UploadResult{}
	p.hasDoc = false
}

// View renders the column. uploadView is the upload widget content.
func (p *Panel) View(uploadView string) string {
	width := p.ContentWidth()

	contextLines := []string{styles.TitleStyle.Render("Research Context"), ""}
	contextLines = append(contextLines, strings.Split(uploadView, "\n")...)
	if p.hasDoc {
		contextLines = append(contextLines, "")
		contextLines = append(contextLines, strings.Split(DocumentCard(p.doc, width), "\n")...)
	}

	box := styles.BoxStyle
	if p.focused {
		box = styles.BoxFocusedStyle
	}
	boxWidth := max(p.width, 1)
	contextBox := box.Width(boxWidth).Padding(0, paddingH).
		Render(strings.Join(fit(contextLines, width), "\n"))

	capLines := []string{styles.TitleStyle.Render("Capabilities"), ""}
	for _, c := range Capabilities {
		capLines = append(capLines, styles.TextStyle.Render(utils.TruncateToWidth("◆ "+c, width)))
	}
	capBox := styles.BoxStyle.Width(boxWidth).Padding(0, paddingH).
		Render(strings.Join(fit(capLines, width), "\n"))

	column := lipgloss.JoinVertical(lipgloss.Left, contextBox, capBox)
	if p.height > 0 {
		lines := strings.Split(column, "\n")
		if len(lines) > p.height {
			// Capabilities are dropped first on short terminals.
			column = contextBox
			lines = strings.Split(column, "\n")
		}
		column = strings.Join(utils.FitLines(lines, boxWidth, p.height), "\n")
	}
	return column
}

// DocumentCard renders the active document: name, character count and
// whether the backend indexed it.
func DocumentCard(doc agentapi.UploadResult, width int) string {
	inner := max(width-2*(borderSize+paddingH), 1)

	badge := styles.BadgeSuccessStyle.Render("Indexed")
	if !doc.Indexed() {
		badge = styles.BadgeWarningStyle.Render("Not indexed")
	}
	lines := []string{
		styles.TextBoldStyle.Render("Active Document"),
		styles.TextStyle.Render(utils.TruncateToWidth(doc.Filename, inner)),
	}
	if doc.FilePath != "" {
		lines = append(lines, styles.TextMutedStyle.Render(utils.ShortenPath(utils.HomeRelative(doc.FilePath), inner)))
	}
	lines = append(lines, styles.BadgeStyle.Render(fmt.Sprintf("%d chars", doc.TextLength))+badge)
	if warning := doc.WarningText(); warning != "" {
		lines = append(lines, styles.WarningStyle.Render(utils.TruncateToWidth(warning, inner)))
	}
	return styles.CardStyle.Width(max(width, 1)).Render(strings.Join(lines, "\n"))
}

func fit(lines []string, width int) []string {
	return utils.FitLines(lines, width, len(lines))
}
