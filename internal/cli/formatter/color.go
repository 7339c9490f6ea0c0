package formatter

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bkoetsier/tenderplan/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// categoryPalette cycles through distinct styles for free-text categories.
var categoryPalette = []lipgloss.Style{
	StyleBlue, StyleGreen, StylePurple, StyleYellow, StyleHeader, StyleRed,
}

// CategoryStyle derives a stable style for a free-text category label so the
// same category renders in the same color across tabs and sessions.
func CategoryStyle(category string) lipgloss.Style {
	var sum int
	for _, r := range category {
		sum += int(r)
	}
	return categoryPalette[sum%len(categoryPalette)]
}

// TaskStatusStyle returns the style for a plan task status marker.
func TaskStatusStyle(s domain.TaskStatus) lipgloss.Style {
	switch s {
	case domain.TaskDone:
		return StyleGreen
	case domain.TaskActive:
		return StyleYellow
	default:
		return StyleDim
	}
}

// MilestoneStyle returns the style for a timeline entry: passed entries are
// dimmed, the next upcoming one is highlighted, deadlines are red.
func MilestoneStyle(isPassed, isNext, isDeadline bool) lipgloss.Style {
	switch {
	case isPassed:
		return StyleDim
	case isNext:
		return StyleHeader
	case isDeadline:
		return StyleRed
	default:
		return StyleFg
	}
}
