// Package ui holds the shared lipgloss styles and markdown rendering.
package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorRed     = lipgloss.Color("#FF5555")
	ColorGreen   = lipgloss.Color("#50FA7B")
	ColorYellow  = lipgloss.Color("#F1FA8C")
	ColorCyan    = lipgloss.Color("#8BE9FD")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
	ColorMagenta = lipgloss.Color("#FF79C6")
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	SectionHeadingStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorWhite)

	TopicTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	FieldLabelStyle = lipgloss.NewStyle().
			Bold(true)

	StatusBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorGreen)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	TabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan).
			Underline(true)

	UserLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorGreen)

	AssistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorMagenta)

	SourceStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta)
)
