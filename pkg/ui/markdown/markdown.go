// Package markdown renders the Markdown the research agents emit into
// width-limited terminal lines.
package markdown

import (
	"strings"
	"sync"

	"researchmate/pkg/ui/components/utils"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/x/ansi"
)

var (
	mu        sync.Mutex
	renderers = map[int]*glamour.TermRenderer{}
)

// renderer returns a cached dark-style renderer wrapping at width.
func renderer(width int) (*glamour.TermRenderer, error) {
	if r, ok := renderers[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.DarkStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	renderers[width] = r
	return r, nil
}

// Render returns content as lines no wider than width cells.
func Render(content string, width int) []string {
	if width <= 0 {
		return []string{""}
	}
	content = sanitize(strings.ReplaceAll(content, "\r\n", "\n"))
	if strings.TrimSpace(content) == "" {
		return []string{""}
	}

	var out string
	mu.Lock()
	r, err := renderer(width)
	if err == nil {
		out, err = r.Render(content)
	}
	mu.Unlock()
	if err != nil {
		return plainLines(content, width)
	}
	return fit(strings.Split(out, "\n"), width)
}

// fit drops the blank frame lines around the document and cuts anything
// wider than width.
func fit(lines []string, width int) []string {
	blank := func(s string) bool { return strings.TrimSpace(ansi.Strip(s)) == "" }
	for len(lines) > 0 && blank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && blank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return []string{""}
	}
	for i, line := range lines {
		if ansi.StringWidth(line) > width {
			lines[i] = ansi.Truncate(line, width, "")
		}
	}
	return lines
}

func plainLines(content string, width int) []string {
	var out []string
	for _, line := range strings.Split(Plain(content), "\n") {
		out = append(out, utils.SplitByWidth(line, width)...)
	}
	return out
}

// Plain strips markup and returns text suitable for a non-terminal writer.
func Plain(content string) string {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		out = append(out, strings.ReplaceAll(line, "**", ""))
	}
	return strings.Join(out, "\n")
}

func sanitize(content string) string {
	var sb strings.Builder
	sb.Grow(len(content))
	for _, r := range content {
		switch {
		case r == '\n' || r == '\t':
			sb.WriteRune(r)
		case r < 0x20 || r == 0x7f:
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
