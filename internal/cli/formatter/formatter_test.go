package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkoetsier/tenderplan/internal/domain"
)

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "—", FormatDate(nil))

	d := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "01-03-2026", FormatDate(&d))
}

func TestFormatDueDate(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	past := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Contains(t, FormatDueDate(&past, now), "verlopen")

	today := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	assert.Contains(t, FormatDueDate(&today, now), "vandaag")

	future := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	got := FormatDueDate(&future, now)
	assert.Contains(t, got, "01-03-2026")
	assert.NotContains(t, got, "verlopen")
	assert.NotContains(t, got, "vandaag")

	assert.Contains(t, FormatDueDate(nil, now), "—")
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "afgerond", TaskStatusLabel(domain.TaskDone))
	assert.Equal(t, "bezig", TaskStatusLabel(domain.TaskActive))
	assert.Equal(t, "open", TaskStatusLabel(domain.TaskTodo))

	assert.Equal(t, "compleet", ChecklistStatusLabel(domain.ChecklistCompleted))
	assert.Equal(t, "open", ChecklistStatusLabel(domain.ChecklistPending))
}

func TestStatusMarker(t *testing.T) {
	assert.Contains(t, StatusMarker(true), "✓")
	assert.NotContains(t, StatusMarker(false), "✓")
}

func TestRenderProgress(t *testing.T) {
	full := RenderProgress(1.0, 8)
	assert.Contains(t, full, "100%")
	assert.Contains(t, full, strings.Repeat(filledBlock, 8))

	empty := RenderProgress(0, 8)
	assert.Contains(t, empty, "0%")
	assert.Contains(t, empty, strings.Repeat(emptyBlock, 8))

	// Out-of-range inputs are clamped.
	assert.Contains(t, RenderProgress(1.5, 8), "100%")
	assert.Contains(t, RenderProgress(-0.5, 8), "0%")
}

func TestRenderRatio(t *testing.T) {
	got := RenderRatio(5, 8, 10)
	assert.Contains(t, got, "5/8")
	assert.Contains(t, got, "%")

	assert.Contains(t, RenderRatio(0, 0, 10), "0/0")
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(
		[]string{"Tender", "Planning"},
		[][]string{
			{"Renovatie gemeentehuis", "5/8"},
			{"Brugonderhoud", "2/2"},
		},
	)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Tender")
	assert.Contains(t, lines[1], "─")
	assert.Contains(t, lines[2], "Renovatie gemeentehuis")

	assert.Empty(t, RenderTable(nil, nil))
}

func TestCategoryStyle_Deterministic(t *testing.T) {
	a := CategoryStyle("Inkoop").Render("Inkoop")
	b := CategoryStyle("Inkoop").Render("Inkoop")
	assert.Equal(t, a, b)
}
