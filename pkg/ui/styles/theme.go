// Package styles provides a centralized theme and style system for the
// ResearchMate terminal UI.
package styles

import (
	"charm.land/lipgloss/v2"
)

// Color palette - ANSI 256 colors used throughout the application
var (
	// Primary accent colors (blue to purple, like the web branding)
	ColorAccent       = lipgloss.Color("33")
	ColorAccentSecond = lipgloss.Color("135")

	// Text colors
	ColorText       = lipgloss.Color("252") // Primary text
	ColorTextMuted  = lipgloss.Color("245") // Secondary/muted text
	ColorTextBright = lipgloss.Color("15")  // Bright/highlighted text

	// Semantic colors
	ColorError   = lipgloss.Color("196")
	ColorWarning = lipgloss.Color("214")
	ColorSuccess = lipgloss.Color("42")

	// Code/syntax colors
	ColorCode        = lipgloss.Color("213")
	ColorCodeBg      = lipgloss.Color("235")
	ColorPlaceholder = lipgloss.Color("240")

	// Border colors
	ColorBorder      = lipgloss.Color("62")
	ColorBorderFocus = lipgloss.Color("33")
)

// Panel/Box styles
var (
	// BoxStyle is the default rounded panel.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	// BoxFocusedStyle marks the panel that receives key presses.
	BoxFocusedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorderFocus)

	// CardStyle is the active document card.
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 1)
)

// Text styles
var (
	// TitleStyle for panel/section titles
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// TextStyle for normal text
	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	// TextMutedStyle for secondary/helper text
	TextMutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	// TextBoldStyle for emphasized text
	TextBoldStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	// HeadingStyle for markdown headings
	HeadingStyle = lipgloss.NewStyle().
			Foreground(ColorAccentSecond).
			Bold(true)
)

// Chat styles
var (
	// UserLabelStyle prefixes user turns.
	UserLabelStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// AssistantLabelStyle prefixes assistant turns.
	AssistantLabelStyle = lipgloss.NewStyle().
				Foreground(ColorAccentSecond).
				Bold(true)

	// AgentBadgeStyle shows which backend agent replied.
	AgentBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorAccentSecond).
			Bold(true)

	// ThinkingStyle is the awaiting-response indicator.
	ThinkingStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)
)

// Badge styles
var (
	BadgeStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Padding(0, 1)

	BadgeSuccessStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess).
				Padding(0, 1)

	BadgeWarningStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Padding(0, 1)
)

// Feedback styles
var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// FooterStyle for footer/help text
	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	// PlaceholderStyle for placeholder text
	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(ColorPlaceholder).
				Italic(true)
)

// Code styles
var (
	// CodeStyle for code blocks
	CodeStyle = lipgloss.NewStyle().
		Foreground(ColorCode).
		Background(ColorCodeBg)
)

// Header and status bar styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2563EB")).
			Padding(0, 1).
			Bold(true)

	HeaderNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DBEAFE")).
			Background(lipgloss.Color("#2563EB"))

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)
)
