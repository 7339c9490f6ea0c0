package formatter

import (
	"time"

	"github.com/bkoetsier/tenderplan/internal/domain"
)

const displayDateLayout = "02-01-2006"

// FormatDate renders a date for display (dd-mm-yyyy). Nil renders as "—".
func FormatDate(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format(displayDateLayout)
}

// FormatDueDate renders a due date annotated relative to now: overdue dates
// are red, today is highlighted, everything else is plain.
func FormatDueDate(t *time.Time, now time.Time) string {
	if t == nil {
		return StyleDim.Render("—")
	}
	day := now.Truncate(24 * time.Hour)
	due := t.Truncate(24 * time.Hour)
	s := t.Format(displayDateLayout)
	switch {
	case due.Before(day):
		return StyleRed.Render(s + " (verlopen)")
	case due.Equal(day):
		return StyleYellow.Render(s + " (vandaag)")
	default:
		return StyleFg.Render(s)
	}
}

// TaskStatusLabel maps a plan task status to its display label.
func TaskStatusLabel(s domain.TaskStatus) string {
	switch s {
	case domain.TaskDone:
		return "afgerond"
	case domain.TaskActive:
		return "bezig"
	default:
		return "open"
	}
}

// ChecklistStatusLabel maps a checklist status to its display label.
func ChecklistStatusLabel(s domain.ChecklistStatus) string {
	if s == domain.ChecklistCompleted {
		return "compleet"
	}
	return "open"
}

// StatusMarker renders the checkbox marker for a boolean done state.
func StatusMarker(done bool) string {
	if done {
		return StyleGreen.Render("[✓]")
	}
	return StyleDim.Render("[ ]")
}
