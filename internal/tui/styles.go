package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/taskdeck/internal/domain"
)

// Colors defines the color palette for the TUI.
var Colors = struct {
	// Base colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color

	// Text
	TitleNormal lipgloss.Color

	// Status colors
	Pending    lipgloss.Color
	InProgress lipgloss.Color
	Completed  lipgloss.Color

	// Priority colors
	Low    lipgloss.Color
	Medium lipgloss.Color
	High   lipgloss.Color
}{
	Primary:   lipgloss.Color("#6C5CE7"), // Purple
	Secondary: lipgloss.Color("#A29BFE"), // Lavender
	Muted:     lipgloss.Color("#636E72"), // Gray
	Error:     lipgloss.Color("#D63031"), // Red
	Success:   lipgloss.Color("#00B894"), // Green
	Warning:   lipgloss.Color("#FDCB6E"), // Yellow

	TitleNormal: lipgloss.Color("#DFE6E9"), // Light gray

	Pending:    lipgloss.Color("#74B9FF"), // Light blue
	InProgress: lipgloss.Color("#FDCB6E"), // Yellow
	Completed:  lipgloss.Color("#00B894"), // Green

	Low:    lipgloss.Color("#74B9FF"), // Light blue
	Medium: lipgloss.Color("#FDCB6E"), // Yellow
	High:   lipgloss.Color("#D63031"), // Red
}

// Styles contains all the lipgloss styles for the TUI.
type Styles struct {
	// Header
	Header     lipgloss.Style
	HeaderText lipgloss.Style

	// Statistics cards
	Card      lipgloss.Style
	CardLabel lipgloss.Style
	CardValue lipgloss.Style
	Overdue   lipgloss.Style

	// Charts
	Section  lipgloss.Style
	BarLabel lipgloss.Style
	BarEmpty lipgloss.Style

	// Status badges
	StatusPending    lipgloss.Style
	StatusInProgress lipgloss.Style
	StatusCompleted  lipgloss.Style

	// Priority badges
	PriorityLow    lipgloss.Style
	PriorityMedium lipgloss.Style
	PriorityHigh   lipgloss.Style

	// Recent tasks
	TaskTitle lipgloss.Style
	TaskMeta  lipgloss.Style

	// Footer
	Footer   lipgloss.Style
	ErrorMsg lipgloss.Style
}

// DefaultStyles returns the default styles for the TUI.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			MarginBottom(1),
		HeaderText: lipgloss.NewStyle().
			Foreground(Colors.Primary).
			Bold(true),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Muted).
			Padding(0, 2).
			MarginRight(1),
		CardLabel: lipgloss.NewStyle().
			Foreground(Colors.Muted),
		CardValue: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal).
			Bold(true),
		Overdue: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),

		Section: lipgloss.NewStyle().
			Foreground(Colors.Secondary).
			Bold(true).
			MarginTop(1),
		BarLabel: lipgloss.NewStyle().
			Width(12),
		BarEmpty: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		StatusPending: lipgloss.NewStyle().
			Foreground(Colors.Pending),
		StatusInProgress: lipgloss.NewStyle().
			Foreground(Colors.InProgress),
		StatusCompleted: lipgloss.NewStyle().
			Foreground(Colors.Completed),

		PriorityLow: lipgloss.NewStyle().
			Foreground(Colors.Low),
		PriorityMedium: lipgloss.NewStyle().
			Foreground(Colors.Medium),
		PriorityHigh: lipgloss.NewStyle().
			Foreground(Colors.High).
			Bold(true),

		TaskTitle: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal),
		TaskMeta: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		Footer: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			MarginTop(1),
		ErrorMsg: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),
	}
}

// StatusStyle returns the style for a task status.
func (s Styles) StatusStyle(status domain.Status) lipgloss.Style {
	switch status {
	case domain.StatusPending:
		return s.StatusPending
	case domain.StatusInProgress:
		return s.StatusInProgress
	case domain.StatusCompleted:
		return s.StatusCompleted
	default:
		return lipgloss.NewStyle()
	}
}

// PriorityStyle returns the style for a task priority.
func (s Styles) PriorityStyle(p domain.Priority) lipgloss.Style {
	switch p {
	case domain.PriorityLow:
		return s.PriorityLow
	case domain.PriorityMedium:
		return s.PriorityMedium
	case domain.PriorityHigh:
		return s.PriorityHigh
	default:
		return lipgloss.NewStyle()
	}
}

// StatusIcon returns the icon for a task status.
func StatusIcon(status domain.Status) string {
	switch status {
	case domain.StatusPending:
		return "○"
	case domain.StatusInProgress:
		return "◐"
	case domain.StatusCompleted:
		return "●"
	default:
		return "?"
	}
}
