package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bkoetsier/tenderplan/internal/cli/formatter"
	"github.com/bkoetsier/tenderplan/internal/domain"
	"github.com/bkoetsier/tenderplan/internal/planning"
)

// viewMode is the interaction sub-state of the planning dialog.
type viewMode int

const (
	modeList viewMode = iota
	modeAddName
	modeAddCategory
	modeRename
	modeDate
	modeAssign
	modeConfirmDelete
	modeTemplate
	modeConfirmOverwrite
)

// openedMsg signals that Controller.Open finished.
type openedMsg struct{ err error }

// mutationMsg signals that a handler call finished; the view re-renders from
// the controller's in-memory state either way.
type mutationMsg struct{ err error }

// reloadedMsg signals that a full reload finished.
type reloadedMsg struct{ err error }

// templatesMsg carries the template catalog for the in-dialog menu.
type templatesMsg struct {
	names []string
	err   error
}

// populateMsg signals that a template populate (and its reload) finished.
type populateMsg struct {
	result *domain.PopulateResult
	err    error
}

// planView is the bubbletea model for one open planning dialog.
type planView struct {
	ctrl   *planning.Controller
	tender domain.Tender

	spin    spinner.Model
	input   textinput.Model
	mode    viewMode
	cursor  int
	width   int
	height  int
	loading bool
	errMsg  string
	status  string

	// pendingName carries the name between the two add-item steps.
	pendingName string
	// pendingItemID is the target of the rename/date/assign/delete modes.
	pendingItemID string
	// templateNames is the catalog shown in the template menu.
	templateNames []string
	// pendingTemplate is the selection awaiting the overwrite confirmation.
	pendingTemplate string

	quitting bool
	// fatal is set when Open itself failed; the dialog cannot render.
	fatal error
}

func newPlanView(ctrl *planning.Controller, tender domain.Tender) *planView {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(formatter.ColorHeader)

	in := textinput.New()
	in.CharLimit = 120

	return &planView{
		ctrl:    ctrl,
		tender:  tender,
		spin:    sp,
		input:   in,
		loading: true,
	}
}

func (v *planView) Init() tea.Cmd {
	ctrl, tender := v.ctrl, v.tender
	return tea.Batch(
		v.spin.Tick,
		func() tea.Msg {
			return openedMsg{err: ctrl.Open(context.Background(), tender)}
		},
	)
}

func (v *planView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return v, cmd

	case openedMsg:
		v.loading = false
		if msg.err != nil {
			v.fatal = msg.err
			v.quitting = true
			return v, tea.Quit
		}
		return v, nil

	case mutationMsg:
		if msg.err != nil {
			v.errMsg = msg.err.Error()
		} else {
			v.errMsg = ""
			v.status = ""
		}
		v.clampCursor()
		return v, nil

	case templatesMsg:
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			return v, nil
		}
		if len(msg.names) == 0 {
			v.errMsg = "geen sjablonen beschikbaar voor dit bureau"
			return v, nil
		}
		v.templateNames = msg.names
		v.mode = modeTemplate
		return v, nil

	case populateMsg:
		if msg.err != nil {
			v.errMsg = msg.err.Error()
		} else if msg.result.Skipped {
			v.status = msg.result.Message
		} else {
			v.errMsg = ""
			v.status = fmt.Sprintf("%d taken en %d checklist items aangemaakt",
				msg.result.PlanningTasksCreated, msg.result.ChecklistItemsCreated)
		}
		v.clampCursor()
		return v, nil

	case reloadedMsg:
		v.loading = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
		}
		v.clampCursor()
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *planView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.mode != modeList {
		return v.handleModalKey(msg)
	}

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		v.ctrl.Close()
		v.quitting = true
		return v, tea.Quit

	case "tab":
		v.cycleTab()
		return v, nil
	case "1":
		v.switchTab(planning.TabPlanning)
		return v, nil
	case "2":
		v.switchTab(planning.TabTender)
		return v, nil
	case "3":
		v.switchTab(planning.TabChecklist)
		return v, nil

	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil
	case "down", "j":
		if v.cursor < v.itemCount()-1 {
			v.cursor++
		}
		return v, nil

	case " ":
		return v.toggleSelected()

	case "a":
		if v.onItemTab() {
			v.pendingName = ""
			v.enterInput(modeAddName, "Naam", "")
		}
		return v, nil

	case "e":
		if id, name, ok := v.selectedItem(); ok {
			v.pendingItemID = id
			v.enterInput(modeRename, "Nieuwe naam", name)
		}
		return v, nil

	case "d":
		if id, _, ok := v.selectedItem(); ok {
			v.pendingItemID = id
			v.enterInput(modeDate, "Datum (YYYY-MM-DD, leeg wist)", "")
		}
		return v, nil

	case "t":
		if id, _, ok := v.selectedItem(); ok && v.ctrl.HasRoster() {
			v.pendingItemID = id
			v.mode = modeAssign
		}
		return v, nil

	case "x":
		if id, _, ok := v.selectedItem(); ok {
			v.pendingItemID = id
			v.mode = modeConfirmDelete
		}
		return v, nil

	case "m":
		ctrl := v.ctrl
		return v, func() tea.Msg {
			names, err := ctrl.TemplateNames(context.Background())
			return templatesMsg{names: names, err: err}
		}

	case "r":
		v.loading = true
		ctrl := v.ctrl
		return v, tea.Batch(v.spin.Tick, func() tea.Msg {
			return reloadedMsg{err: ctrl.Reload(context.Background())}
		})
	}
	return v, nil
}

func (v *planView) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch v.mode {
	case modeConfirmDelete:
		switch msg.String() {
		case "y", "Y":
			v.mode = modeList
			return v, v.deletePending()
		case "n", "N", "esc":
			v.mode = modeList
		}
		return v, nil

	case modeTemplate:
		if msg.String() == "esc" {
			v.mode = modeList
			return v, nil
		}
		r := msg.String()
		if len(r) == 1 && r[0] >= '1' && r[0] <= '9' {
			n := int(r[0] - '1')
			if n < len(v.templateNames) {
				v.pendingTemplate = v.templateNames[n]
				if len(v.ctrl.Tasks()) > 0 || len(v.ctrl.ChecklistItems()) > 0 {
					v.mode = modeConfirmOverwrite
					return v, nil
				}
				v.mode = modeList
				return v, v.populateCmd(false, false)
			}
		}
		return v, nil

	case modeConfirmOverwrite:
		switch msg.String() {
		case "y", "Y":
			v.mode = modeList
			return v, v.populateCmd(true, true)
		case "n", "N", "esc":
			v.mode = modeList
		}
		return v, nil

	case modeAssign:
		if msg.String() == "esc" {
			v.mode = modeList
			return v, nil
		}
		members := v.ctrl.Roster().Members()
		r := msg.String()
		if len(r) == 1 && r[0] >= '1' && r[0] <= '9' {
			n := int(r[0] - '1')
			if n < len(members) {
				return v, v.assignPending(members[n].ID)
			}
		}
		return v, nil
	}

	// Text-input modes.
	switch msg.String() {
	case "esc":
		v.mode = modeList
		v.input.Blur()
		return v, nil
	case "enter":
		return v.submitInput()
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *planView) enterInput(mode viewMode, prompt, value string) {
	v.mode = mode
	v.input.Prompt = prompt + ": "
	v.input.SetValue(value)
	v.input.CursorEnd()
	v.input.Focus()
}

func (v *planView) submitInput() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(v.input.Value())
	ctrl := v.ctrl
	tab := v.ctrl.ActiveTab()

	switch v.mode {
	case modeAddName:
		if value == "" {
			v.errMsg = "naam mag niet leeg zijn"
			return v, nil
		}
		v.pendingName = value
		label := "Categorie"
		if tab == planning.TabChecklist {
			label = "Sectie"
		}
		v.enterInput(modeAddCategory, label+" (leeg = "+domain.DefaultCategory+")", "")
		return v, nil

	case modeAddCategory:
		v.mode = modeList
		v.input.Blur()
		name, category := v.pendingName, value
		if tab == planning.TabChecklist {
			return v, func() tea.Msg {
				return mutationMsg{err: ctrl.AddChecklistItem(context.Background(), name, category, false)}
			}
		}
		return v, func() tea.Msg {
			return mutationMsg{err: ctrl.AddTask(context.Background(), name, category)}
		}

	case modeRename:
		v.mode = modeList
		v.input.Blur()
		id := v.pendingItemID
		if tab == planning.TabChecklist {
			return v, func() tea.Msg {
				return mutationMsg{err: ctrl.RenameChecklistItem(context.Background(), id, value)}
			}
		}
		return v, func() tea.Msg {
			return mutationMsg{err: ctrl.RenameTask(context.Background(), id, value)}
		}

	case modeDate:
		v.mode = modeList
		v.input.Blur()
		var date *time.Time
		if value != "" {
			parsed, err := time.Parse(domain.DateLayout, value)
			if err != nil {
				v.errMsg = "ongeldige datum, gebruik YYYY-MM-DD"
				return v, nil
			}
			date = &parsed
		}
		id := v.pendingItemID
		if tab == planning.TabChecklist {
			return v, func() tea.Msg {
				return mutationMsg{err: ctrl.SetChecklistDeadline(context.Background(), id, date)}
			}
		}
		return v, func() tea.Msg {
			return mutationMsg{err: ctrl.SetTaskDueDate(context.Background(), id, date)}
		}
	}
	v.mode = modeList
	return v, nil
}

func (v *planView) toggleSelected() (tea.Model, tea.Cmd) {
	id, _, ok := v.selectedItem()
	if !ok {
		return v, nil
	}
	ctrl := v.ctrl
	if v.ctrl.ActiveTab() == planning.TabChecklist {
		return v, func() tea.Msg {
			return mutationMsg{err: ctrl.ToggleChecklistItem(context.Background(), id)}
		}
	}
	return v, func() tea.Msg {
		return mutationMsg{err: ctrl.ToggleTask(context.Background(), id)}
	}
}

func (v *planView) assignPending(userID string) tea.Cmd {
	ctrl, id := v.ctrl, v.pendingItemID
	if v.ctrl.ActiveTab() == planning.TabChecklist {
		return func() tea.Msg {
			return mutationMsg{err: ctrl.AssignChecklistItem(context.Background(), id, userID)}
		}
	}
	return func() tea.Msg {
		return mutationMsg{err: ctrl.ToggleTaskAssignee(context.Background(), id, userID)}
	}
}

func (v *planView) populateCmd(overwrite, confirmed bool) tea.Cmd {
	ctrl, name := v.ctrl, v.pendingTemplate
	return func() tea.Msg {
		result, err := ctrl.LoadTemplate(context.Background(), name, overwrite, confirmed)
		return populateMsg{result: result, err: err}
	}
}

func (v *planView) deletePending() tea.Cmd {
	ctrl, id := v.ctrl, v.pendingItemID
	if v.ctrl.ActiveTab() == planning.TabChecklist {
		return func() tea.Msg {
			return mutationMsg{err: ctrl.DeleteChecklistItem(context.Background(), id)}
		}
	}
	return func() tea.Msg {
		return mutationMsg{err: ctrl.DeleteTask(context.Background(), id)}
	}
}

// ── selection helpers ────────────────────────────────────────────────────────

func (v *planView) onItemTab() bool {
	return v.ctrl.ActiveTab() != planning.TabTender
}

func (v *planView) itemCount() int {
	switch v.ctrl.ActiveTab() {
	case planning.TabChecklist:
		return len(v.ctrl.ChecklistItems())
	case planning.TabPlanning:
		return len(v.ctrl.Tasks())
	default:
		return 0
	}
}

func (v *planView) clampCursor() {
	if n := v.itemCount(); v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// selectedItem resolves the cursor to an item id and name in grouped
// display order.
func (v *planView) selectedItem() (id, name string, ok bool) {
	i := 0
	switch v.ctrl.ActiveTab() {
	case planning.TabPlanning:
		for _, g := range v.ctrl.TaskGroups() {
			for _, t := range g.Tasks {
				if i == v.cursor {
					return t.ID, t.Name, true
				}
				i++
			}
		}
	case planning.TabChecklist:
		for _, g := range v.ctrl.ChecklistGroups() {
			for _, it := range g.Items {
				if i == v.cursor {
					return it.ID, it.Name, true
				}
				i++
			}
		}
	}
	return "", "", false
}

func (v *planView) cycleTab() {
	switch v.ctrl.ActiveTab() {
	case planning.TabPlanning:
		v.switchTab(planning.TabTender)
	case planning.TabTender:
		v.switchTab(planning.TabChecklist)
	default:
		v.switchTab(planning.TabPlanning)
	}
}

func (v *planView) switchTab(tab planning.Tab) {
	if err := v.ctrl.SwitchTab(tab); err == nil {
		v.cursor = 0
		v.errMsg = ""
	}
}

// ── rendering ────────────────────────────────────────────────────────────────

func (v *planView) View() string {
	if v.quitting {
		return ""
	}
	if v.loading {
		return fmt.Sprintf("\n %s planning laden voor %s...\n", v.spin.View(), v.tender.Name)
	}

	var b strings.Builder
	b.WriteString(v.renderTabs())
	b.WriteString("\n\n")

	switch v.ctrl.ActiveTab() {
	case planning.TabTender:
		b.WriteString(v.renderTimeline())
	case planning.TabChecklist:
		b.WriteString(v.renderChecklist())
	default:
		b.WriteString(v.renderTasks())
	}

	b.WriteString("\n")
	b.WriteString(v.renderFooter())
	return b.String()
}

func (v *planView) renderTabs() string {
	tp := v.ctrl.TaskProgress()
	cp := v.ctrl.ChecklistProgress()
	labels := []struct {
		tab   planning.Tab
		label string
	}{
		{planning.TabPlanning, fmt.Sprintf("1 Planning %d/%d", tp.Done, tp.Total)},
		{planning.TabTender, "2 Tender"},
		{planning.TabChecklist, fmt.Sprintf("3 Checklist %d/%d", cp.Done, cp.Total)},
	}
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		if l.tab == v.ctrl.ActiveTab() {
			parts = append(parts, formatter.StyleHeader.Render("["+l.label+"]"))
		} else {
			parts = append(parts, formatter.StyleDim.Render(" "+l.label+" "))
		}
	}
	title := formatter.StyleBold.Render(v.tender.Name)
	return title + "  " + strings.Join(parts, " ")
}

func (v *planView) renderTasks() string {
	groups := v.ctrl.TaskGroups()
	if len(groups) == 0 {
		return formatter.StyleDim.Render("  geen taken — druk a om toe te voegen of m om een sjabloon te laden") + "\n"
	}

	var b strings.Builder
	p := v.ctrl.TaskProgress()
	b.WriteString("  " + formatter.RenderRatio(p.Done, p.Total, 20) + "\n\n")

	i := 0
	now := time.Now()
	for _, g := range groups {
		b.WriteString("  " + formatter.CategoryStyle(g.Category).Render(g.Category) + "\n")
		for _, t := range g.Tasks {
			cursor := "  "
			if i == v.cursor {
				cursor = formatter.StyleHeader.Render("> ")
			}
			name := t.Name
			if t.IsMilestone {
				name = "◆ " + name
			}
			line := fmt.Sprintf("%s%s %s  %s  %s",
				cursor,
				formatter.StatusMarker(t.Status == domain.TaskDone),
				formatter.TaskStatusStyle(t.Status).Render(name),
				formatter.FormatDueDate(t.DueDate, now),
				v.renderAssignees(t.AssignedTo))
			b.WriteString(line + "\n")
			i++
		}
	}
	return b.String()
}

func (v *planView) renderChecklist() string {
	groups := v.ctrl.ChecklistGroups()
	if len(groups) == 0 {
		return formatter.StyleDim.Render("  checklist is leeg — druk a om toe te voegen") + "\n"
	}

	var b strings.Builder
	p := v.ctrl.ChecklistProgress()
	b.WriteString("  " + formatter.RenderRatio(p.Done, p.Total, 20) + "\n\n")

	i := 0
	now := time.Now()
	for _, g := range groups {
		b.WriteString("  " + formatter.CategoryStyle(g.Section).Render(g.Section) + "\n")
		for _, it := range g.Items {
			cursor := "  "
			if i == v.cursor {
				cursor = formatter.StyleHeader.Render("> ")
			}
			name := it.Name
			if it.IsMandatory {
				name += formatter.StyleRed.Render(" *")
			}
			line := fmt.Sprintf("%s%s %s  %s  %s",
				cursor,
				formatter.StatusMarker(it.Status == domain.ChecklistCompleted),
				name,
				formatter.FormatDueDate(it.Deadline, now),
				v.renderAssignees(it.AssignedTo))
			b.WriteString(line + "\n")
			i++
		}
	}
	return b.String()
}

func (v *planView) renderTimeline() string {
	milestones := v.ctrl.Milestones()
	if len(milestones) == 0 {
		return formatter.StyleDim.Render("  geen mijlpalen bekend voor deze tender") + "\n"
	}

	var b strings.Builder
	for _, m := range milestones {
		marker := "  "
		if m.IsNext {
			marker = formatter.StyleHeader.Render("▶ ")
		}
		style := formatter.MilestoneStyle(m.IsPassed, m.IsNext, m.IsDeadline)
		date := m.Date
		line := fmt.Sprintf("  %s%s  %s — %s",
			marker,
			formatter.FormatDate(&date),
			style.Render(m.Label),
			formatter.StyleDim.Render(m.SubLabel))
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (v *planView) renderAssignees(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	badges := make([]string, 0, len(ids))
	for _, id := range ids {
		m, _ := v.ctrl.Roster().Resolve(id)
		badges = append(badges, lipgloss.NewStyle().Foreground(lipgloss.Color(m.Color)).Render(m.Initials))
	}
	return strings.Join(badges, " ")
}

func (v *planView) renderFooter() string {
	switch v.mode {
	case modeAddName, modeAddCategory, modeRename, modeDate:
		return "  " + v.input.View() + "\n"
	case modeConfirmDelete:
		return "  " + formatter.StyleRed.Render("verwijderen? (y/n)") + "\n"
	case modeTemplate:
		parts := make([]string, 0, len(v.templateNames))
		for i, n := range v.templateNames {
			if i >= 9 {
				break
			}
			parts = append(parts, fmt.Sprintf("%d %s", i+1, n))
		}
		return "  " + formatter.StyleDim.Render("sjabloon laden: "+strings.Join(parts, " · ")+" (esc sluit)") + "\n"
	case modeConfirmOverwrite:
		return "  " + formatter.StyleRed.Render("bestaande items vervangen door sjabloon "+v.pendingTemplate+"? (y/n)") + "\n"
	case modeAssign:
		members := v.ctrl.Roster().Members()
		parts := make([]string, 0, len(members))
		for i, m := range members {
			if i >= 9 {
				break
			}
			parts = append(parts, fmt.Sprintf("%d %s", i+1, m.Name))
		}
		return "  " + formatter.StyleDim.Render("toewijzen: "+strings.Join(parts, " · ")+" (esc sluit)") + "\n"
	}

	help := "space toggle · a add · e edit · d datum · t toewijzen · x delete · m sjabloon · r reload · tab wissel · q sluit"
	out := "  " + formatter.StyleDim.Render(help) + "\n"
	if v.errMsg != "" {
		out = "  " + formatter.StyleRed.Render(v.errMsg) + "\n" + out
	}
	if v.status != "" {
		out = "  " + formatter.StyleGreen.Render(v.status) + "\n" + out
	}
	if !v.ctrl.HasRoster() {
		out = "  " + formatter.StyleDim.Render("teamlijst niet geladen; toewijzen uitgeschakeld") + "\n" + out
	}
	return out
}
