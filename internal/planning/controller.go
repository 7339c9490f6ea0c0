package planning

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bkoetsier/tenderplan/internal/domain"
	"github.com/bkoetsier/tenderplan/internal/gateway"
	"github.com/bkoetsier/tenderplan/internal/roster"
	"github.com/bkoetsier/tenderplan/internal/timeline"
)

// State is the lifecycle phase of the planning session.
type State string

const (
	StateClosed  State = "closed"
	StateLoading State = "loading"
	StateReady   State = "ready"
)

// Tab identifies the active pane of the planning dialog.
type Tab string

const (
	TabPlanning  Tab = "planning"
	TabTender    Tab = "tender"
	TabChecklist Tab = "checklist"
)

// Controller orchestrates one open planning dialog: it owns the in-memory
// item lists, the active tab and the derived timeline, and coordinates
// reloads and mutation side effects against the gateway. All dependencies
// arrive through the constructor; there are no ambient singletons.
type Controller struct {
	gw     gateway.Gateway
	roster *roster.Index
	logger gateway.Logger
	now    func() time.Time

	mu         sync.Mutex
	state      State
	tab        Tab
	generation int

	tender     domain.Tender
	tasks      []domain.PlanTask
	checklist  []domain.ChecklistItem
	milestones []timeline.Milestone
	hasRoster  bool
}

// NewController creates a Controller in the Closed state.
func NewController(gw gateway.Gateway, ix *roster.Index, logger gateway.Logger) *Controller {
	if logger == nil {
		logger = gateway.NoopLogger{}
	}
	return &Controller{
		gw:     gw,
		roster: ix,
		logger: logger,
		now:    time.Now,
		state:  StateClosed,
		tab:    TabPlanning,
	}
}

// Open loads the planning dialog for a tender: plan tasks and checklist
// items are fetched concurrently, the milestone timeline is derived
// synchronously, and the team roster is fetched best-effort in the
// background. Read failures degrade to empty lists with a logged warning; a
// missing session is fatal and leaves the controller Closed. Open always
// lands on the planning tab.
func (c *Controller) Open(ctx context.Context, tender domain.Tender) error {
	c.mu.Lock()
	c.state = StateLoading
	c.tender = tender
	c.tasks = nil
	c.checklist = nil
	c.generation++
	gen := c.generation
	c.hasRoster = false
	c.mu.Unlock()

	var (
		wg       sync.WaitGroup
		tasks    []domain.PlanTask
		items    []domain.ChecklistItem
		taskErr  error
		itemsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		tasks, taskErr = c.gw.ListPlanTasks(ctx, tender.ID)
	}()
	go func() {
		defer wg.Done()
		items, itemsErr = c.gw.ListChecklistItems(ctx, tender.ID)
	}()
	wg.Wait()

	if errors.Is(taskErr, gateway.ErrNotAuthenticated) || errors.Is(itemsErr, gateway.ErrNotAuthenticated) {
		c.mu.Lock()
		c.state = StateClosed
		c.mu.Unlock()
		return gateway.ErrNotAuthenticated
	}
	if taskErr != nil {
		c.logger.Warnf("loading plan tasks for tender %s failed, showing empty list: %v", tender.ID, taskErr)
		tasks = nil
	}
	if itemsErr != nil {
		c.logger.Warnf("loading checklist for tender %s failed, showing empty list: %v", tender.ID, itemsErr)
		items = nil
	}

	milestones := timeline.Build(tender, c.now())

	c.mu.Lock()
	if c.generation != gen {
		// The dialog was closed (or reopened) while we were loading.
		c.mu.Unlock()
		return nil
	}
	c.tasks = tasks
	c.checklist = items
	c.milestones = milestones
	c.state = StateReady
	c.tab = TabPlanning
	c.mu.Unlock()

	go c.fetchRoster(ctx, gen)
	return nil
}

// fetchRoster loads the team roster best-effort. A failure degrades the
// assignment UI to "no roster"; a response arriving after Close is dropped.
func (c *Controller) fetchRoster(ctx context.Context, gen int) {
	members, err := c.gw.TeamMembers(ctx)
	if err != nil {
		c.logger.Warnf("loading team roster failed, assignment picker disabled: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen || c.state != StateReady {
		return
	}
	c.roster.Rebuild(members)
	c.hasRoster = true
}

// SwitchTab activates another pane. Pure UI transition: no refetch.
func (c *Controller) SwitchTab(tab Tab) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady {
		return ErrNotOpen
	}
	switch tab {
	case TabPlanning, TabTender, TabChecklist:
		c.tab = tab
		return nil
	default:
		return ErrUnknownItem
	}
}

// Close discards the in-memory session state. In-flight gateway responses
// for the closed session are ignored via the generation counter.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.state = StateClosed
	c.tasks = nil
	c.checklist = nil
	c.milestones = nil
	c.hasRoster = false
}

// Reload refetches both item lists and rebuilds the timeline, resynchronizing
// the in-memory state with the store after a failed mutation.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotOpen
	}
	tender := c.tender
	gen := c.generation
	c.mu.Unlock()

	tasks, taskErr := c.gw.ListPlanTasks(ctx, tender.ID)
	items, itemsErr := c.gw.ListChecklistItems(ctx, tender.ID)
	if taskErr != nil {
		return taskErr
	}
	if itemsErr != nil {
		return itemsErr
	}
	milestones := timeline.Build(tender, c.now())

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return nil
	}
	c.tasks = tasks
	c.checklist = items
	c.milestones = milestones
	return nil
}

// ── read accessors ───────────────────────────────────────────────────────────

// State reports the current lifecycle phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ActiveTab reports the selected pane.
func (c *Controller) ActiveTab() Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tab
}

// Tender returns the tender record the session was opened on.
func (c *Controller) Tender() domain.Tender {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tender
}

// Tasks returns a copy of the current plan task list.
func (c *Controller) Tasks() []domain.PlanTask {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.PlanTask, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// ChecklistItems returns a copy of the current checklist.
func (c *Controller) ChecklistItems() []domain.ChecklistItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.ChecklistItem, len(c.checklist))
	copy(out, c.checklist)
	return out
}

// Milestones returns the derived timeline for the open tender.
func (c *Controller) Milestones() []timeline.Milestone {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]timeline.Milestone, len(c.milestones))
	copy(out, c.milestones)
	return out
}

// HasRoster reports whether the background roster fetch has completed.
func (c *Controller) HasRoster() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasRoster
}

// Roster exposes the resolution index for assignment display.
func (c *Controller) Roster() *roster.Index {
	return c.roster
}

// TemplateNames lists the bureau's standard templates for the dialog's
// template menu.
func (c *Controller) TemplateNames(ctx context.Context) ([]string, error) {
	return c.gw.TemplateNames(ctx)
}

// TaskProgress derives the plan tab's progress ratio from the in-memory list.
func (c *Controller) TaskProgress() Progress {
	return TaskProgress(c.Tasks())
}

// ChecklistProgress derives the checklist tab's progress ratio.
func (c *Controller) ChecklistProgress() Progress {
	return ChecklistProgress(c.ChecklistItems())
}

// TaskGroups derives the category grouping for the planning tab.
func (c *Controller) TaskGroups() []TaskGroup {
	return GroupTasks(c.Tasks())
}

// ChecklistGroups derives the section grouping for the checklist tab.
func (c *Controller) ChecklistGroups() []ChecklistGroup {
	return GroupChecklist(c.ChecklistItems())
}
