package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkoetsier/tenderplan/internal/domain"
	"github.com/bkoetsier/tenderplan/internal/planning"
	"github.com/bkoetsier/tenderplan/internal/roster"
	"github.com/bkoetsier/tenderplan/internal/testutil"
)

func runCommand(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func newTestApp(fake *testutil.FakeGateway) *App {
	return &App{
		Gateway:       fake,
		Roster:        roster.NewIndex(),
		IsInteractive: func() bool { return false },
	}
}

func TestCountsCmd(t *testing.T) {
	fake := testutil.NewFakeGateway()
	fake.Counts["tender-b"] = domain.TenderCounts{PlanningDone: 2, PlanningTotal: 9, ChecklistDone: 1, ChecklistTotal: 4}
	fake.Counts["tender-a"] = domain.TenderCounts{PlanningDone: 5, PlanningTotal: 8, ChecklistDone: 3, ChecklistTotal: 3}

	out, err := runCommand(t, newTestApp(fake), "counts")
	require.NoError(t, err)
	assert.Contains(t, out, "TENDER")
	assert.Contains(t, out, "5/8")
	assert.Contains(t, out, "2/9")

	// Output is sorted by tender id.
	assert.Less(t, indexOf(out, "tender-a"), indexOf(out, "tender-b"))
}

func indexOf(s, sub string) int {
	return bytes.Index([]byte(s), []byte(sub))
}

func TestTemplatesCmd_NamesOnly(t *testing.T) {
	fake := testutil.NewFakeGateway()
	fake.Names = []string{"Standaard", "Bouw"}

	out, err := runCommand(t, newTestApp(fake), "templates")
	require.NoError(t, err)
	assert.Contains(t, out, "Standaard")
	assert.Contains(t, out, "Bouw")
	assert.NotContains(t, out, "TEMPLATE")
}

func TestTemplatesCmd_Detailed(t *testing.T) {
	fake := testutil.NewFakeGateway()
	fake.Names = []string{"Standaard"}
	fake.TemplateTasks = []domain.TemplateTask{
		{TemplateName: "Standaard", Name: "kickoff"},
		{TemplateName: "Standaard", Name: "planning"},
	}
	fake.TemplateItems = []domain.TemplateChecklistItem{
		{TemplateName: "Standaard", Name: "uea"},
	}

	out, err := runCommand(t, newTestApp(fake), "templates", "--detailed")
	require.NoError(t, err)
	assert.Contains(t, out, "TEMPLATE")
	assert.Contains(t, out, "Standaard")
	assert.Contains(t, out, "2")
	assert.Contains(t, out, "1")
}

func TestPopulateCmd_RequiresTemplateWhenNotInteractive(t *testing.T) {
	fake := testutil.NewFakeGateway()
	tender := testutil.NewTestTender("Renovatie")
	fake.Tenders[tender.ID] = tender

	_, err := runCommand(t, newTestApp(fake), "populate", tender.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--template")
}

func TestPopulateCmd_CreatesFromTemplate(t *testing.T) {
	fake := testutil.NewFakeGateway()
	tender := testutil.NewTestTender("Renovatie")
	fake.Tenders[tender.ID] = tender
	fake.TemplateTasks = []domain.TemplateTask{
		{TemplateName: "Standaard", Name: "kickoff"},
	}
	fake.TemplateItems = []domain.TemplateChecklistItem{
		{TemplateName: "Standaard", Name: "uea"},
	}

	out, err := runCommand(t, newTestApp(fake), "populate", tender.ID, "--template", "Standaard")
	require.NoError(t, err)
	assert.Contains(t, out, "Created 1 plan tasks and 1 checklist items")
	assert.Len(t, fake.Tasks[tender.ID], 1)
}

func TestPopulateCmd_SkipsNonEmptyTender(t *testing.T) {
	fake := testutil.NewFakeGateway()
	tender := testutil.NewTestTender("Renovatie")
	fake.Tenders[tender.ID] = tender
	fake.Tasks[tender.ID] = []domain.PlanTask{testutil.NewTestTask(tender.ID, "bestaand")}

	out, err := runCommand(t, newTestApp(fake), "populate", tender.ID, "--template", "Standaard")
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped")
	require.Len(t, fake.Tasks[tender.ID], 1)
	assert.Equal(t, "bestaand", fake.Tasks[tender.ID][0].Name)
}

func TestPopulateCmd_OverwriteNeedsYesWhenNotInteractive(t *testing.T) {
	fake := testutil.NewFakeGateway()
	tender := testutil.NewTestTender("Renovatie")
	fake.Tenders[tender.ID] = tender
	fake.Tasks[tender.ID] = []domain.PlanTask{testutil.NewTestTask(tender.ID, "bestaand")}

	_, err := runCommand(t, newTestApp(fake), "populate", tender.ID, "--overwrite", "--template", "Standaard")
	assert.ErrorIs(t, err, planning.ErrConfirmationRequired)

	out, err := runCommand(t, newTestApp(fake), "populate", tender.ID, "--overwrite", "--template", "Standaard", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Created")
}

func TestPopulateCmd_UnknownTender(t *testing.T) {
	fake := testutil.NewFakeGateway()
	_, err := runCommand(t, newTestApp(fake), "populate", "geen-tender", "--template", "Standaard")
	require.Error(t, err)
}

func TestPlanCmd_RefusesNonInteractive(t *testing.T) {
	fake := testutil.NewFakeGateway()
	tender := testutil.NewTestTender("Renovatie")
	fake.Tenders[tender.ID] = tender

	_, err := runCommand(t, newTestApp(fake), "plan", tender.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive")
}
