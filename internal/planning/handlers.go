package planning

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bkoetsier/tenderplan/internal/domain"
	"github.com/bkoetsier/tenderplan/internal/gateway"
)

// Every mutating handler follows the same two-phase pattern: apply an
// optimistic mutation to the in-memory list, call the gateway, then either
// reconcile with the server's entity or roll the local mutation back.
// Status toggles are the exception: a failed toggle stays in place because a
// re-click reverses it, which beats snapping the row back under the cursor.

func (c *Controller) taskIndex(id string) int {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) checklistIndex(id string) int {
	for i := range c.checklist {
		if c.checklist[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneTask(t domain.PlanTask) domain.PlanTask {
	out := t
	out.AssignedTo = append([]string(nil), t.AssignedTo...)
	return out
}

func cloneChecklistItem(i domain.ChecklistItem) domain.ChecklistItem {
	out := i
	out.AssignedTo = append([]string(nil), i.AssignedTo...)
	return out
}

// reconcileTask replaces the local entity (matched by oldID, which may be a
// temporary id) with the server's version, stamping a fresh last-modified
// time when the server omitted one. Stale reconciles from a closed session
// are dropped.
func (c *Controller) reconcileTask(gen int, oldID string, entity domain.PlanTask) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return
	}
	if entity.UpdatedAt.IsZero() {
		entity.UpdatedAt = c.now()
	}
	if idx := c.taskIndex(oldID); idx >= 0 {
		c.tasks[idx] = entity
	}
}

func (c *Controller) reconcileChecklistItem(gen int, oldID string, entity domain.ChecklistItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return
	}
	if entity.UpdatedAt.IsZero() {
		entity.UpdatedAt = c.now()
	}
	if idx := c.checklistIndex(oldID); idx >= 0 {
		c.checklist[idx] = entity
	}
}

func (c *Controller) rollbackTask(gen int, id string, before domain.PlanTask) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return
	}
	if idx := c.taskIndex(id); idx >= 0 {
		c.tasks[idx] = before
	}
}

func (c *Controller) rollbackChecklistItem(gen int, id string, before domain.ChecklistItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return
	}
	if idx := c.checklistIndex(id); idx >= 0 {
		c.checklist[idx] = before
	}
}

// ── toggles ──────────────────────────────────────────────────────────────────

// ToggleTask flips a plan task between todo and done with a single gateway
// update. On failure the optimistic flip stays; the error is surfaced and a
// re-click retries.
func (c *Controller) ToggleTask(ctx context.Context, taskID string) error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotOpen
	}
	gen := c.generation
	idx := c.taskIndex(taskID)
	if idx < 0 {
		c.mu.Unlock()
		return ErrUnknownItem
	}
	before := cloneTask(c.tasks[idx])
	if c.tasks[idx].Status == domain.TaskDone {
		c.tasks[idx].Status = domain.TaskTodo
	} else {
		c.tasks[idx].Status = domain.TaskDone
	}
	c.mu.Unlock()

	updated, err := c.gw.TogglePlanTaskStatus(ctx, &before)
	if err != nil {
		return err
	}
	c.reconcileTask(gen, taskID, *updated)
	return nil
}

// ToggleChecklistItem flips a checklist item between pending and completed.
func (c *Controller) ToggleChecklistItem(ctx context.Context, itemID string) error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotOpen
	}
	gen := c.generation
	idx := c.checklistIndex(itemID)
	if idx < 0 {
		c.mu.Unlock()
		return ErrUnknownItem
	}
	before := cloneChecklistItem(c.checklist[idx])
	if c.checklist[idx].Status == domain.ChecklistCompleted {
		c.checklist[idx].Status = domain.ChecklistPending
	} else {
		c.checklist[idx].Status = domain.ChecklistCompleted
	}
	c.mu.Unlock()

	updated, err := c.gw.ToggleChecklistStatus(ctx, &before)
	if err != nil {
		return err
	}
	c.reconcileChecklistItem(gen, itemID, *updated)
	return nil
}

// ── assignment ───────────────────────────────────────────────────────────────

// ToggleTaskAssignee adds the user to the task's assignment set, or removes
// them when already assigned. Plan tasks support multiple assignees; each
// toggle is persisted immediately.
func (c *Controller) ToggleTaskAssignee(ctx context.Context, taskID, userID string) error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotOpen
	}
	gen := c.generation
	idx := c.taskIndex(taskID)
	if idx < 0 {
		c.mu.Unlock()
		return ErrUnknownItem
	}
	before := cloneTask(c.tasks[idx])

	var next []string
	if before.HasAssignee(userID) {
		next = make([]string, 0, len(before.AssignedTo))
		for _, id := range before.AssignedTo {
			if id != userID {
				next = append(next, id)
			}
		}
	} else {
		next = append(append(make([]string, 0, len(before.AssignedTo)+1), before.AssignedTo...), userID)
	}
	c.tasks[idx].AssignedTo = next
	c.mu.Unlock()

	updated, err := c.gw.UpdatePlanTask(ctx, taskID, gateway.PlanTaskPatch{AssignedTo: &next})
	if err != nil {
		c.rollbackTask(gen, taskID, before)
		return err
	}
	c.reconcileTask(gen, taskID, *updated)
	return nil
}

// AssignChecklistItem sets the single responsible party for a checklist
// item: a new user replaces the current one, selecting the current one
// clears the assignment.
func (c *Controller) AssignChecklistItem(ctx context.Context, itemID, userID string) error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotOpen
	}
	gen := c.generation
	idx := c.checklistIndex(itemID)
	if idx < 0 {
		c.mu.Unlock()
		return ErrUnknownItem
	}
	before := cloneChecklistItem(c.checklist[idx])

	next := []string{userID}
	if len(before.AssignedTo) == 1 && before.AssignedTo[0] == userID {
		next = []string{}
	}
	c.checklist[idx].AssignedTo = next
	c.mu.Unlock()

	updated, err := c.gw.UpdateChecklistItem(ctx, itemID, gateway.ChecklistItemPatch{AssignedTo: &next})
	if err != nil {
		c.rollbackChecklistItem(gen, itemID, before)
		return err
	}
	c.reconcileChecklistItem(gen, itemID, *updated)
	return nil
}

// ── dates ────────────────────────────────────────────────────────────────────

// SetTaskDueDate sets or clears a plan task's due date. A nil date clears
// the field (an explicit null on the wire), not a no-op.
func (c *Controller) SetTaskDueDate(ctx context.Context, taskID string, date *time.Time) error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotOpen
	}
	gen := c.generation
	idx := c.taskIndex(taskID)
	if idx < 0 {
		c.mu.Unlock()
		return ErrUnknownItem
	}
	before := cloneTask(c.tasks[idx])
	c.tasks[idx].DueDate = date
	c.mu.Unlock()

	patch := gateway.PlanTaskPatch{}
	if date == nil {
		patch.ClearDueDate = true
	} else {
		patch.DueDate = date
	}
	updated, err := c.gw.UpdatePlanTask(ctx, taskID, patch)
	if err != nil {
		c.rollbackTask(gen, taskID, before)
		return err
	}
	c.reconcileTask(gen, taskID, *updated)
	return nil
}

// SetChecklistDeadline sets or clears a checklist item's deadline.
func (c *Controller) SetChecklistDeadline(ctx context.Context, itemID string, date *time.Time) error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotOpen
	}
	gen := c.generation
	idx := c.checklistIndex(itemID)
	if idx < 0 {
		c.mu.Unlock()
		return ErrUnknownItem
	}
	before := cloneChecklistItem(c.checklist[idx])
	c.checklist[idx].Deadline = date
	c.mu.Unlock()

	patch := gateway.ChecklistItemPatch{}
	if date == nil {
		patch.ClearDeadline = true
	} else {
		patch.Deadline = date
	}
	updated, err := c.gw.UpdateChecklistItem(ctx, itemID, patch)
	if err != nil {
		c.rollbackChecklistItem(gen, itemID, before)
		return err
	}
	c.reconcileChecklistItem(gen, itemID, *updated)
	return nil
}

// ── add / rename / delete ────────────────────────────────────────────────────

// AddTask appends a new plan task at the end of the list. The name is
// mandatory; an empty category falls back to the default grouping label. The
// optimistic row carries a temporary id until the server's entity arrives.
func (c *Controller) AddTask(ctx context.Context, name, category string) error {
	if strings.TrimSpace(name) == "" {
		return &gateway.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if category == "" {
		category = domain.DefaultCategory
	}

	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotOpen
	}
	gen := c.generation
	tempID := "tmp-" + uuid.NewString()
	order := len(c.tasks)
	c.tasks = append(c.tasks, domain.PlanTask{
		ID:        tempID,
		TenderID:  c.tender.ID,
		Name:      name,
		Category:  category,
		Status:    domain.TaskTodo,
		SortOrder: order,
		UpdatedAt: c.now(),
	})
	tenderID := c.tender.ID
	c.mu.Unlock()

	created, err := c.gw.CreatePlanTask(ctx, tenderID, gateway.CreatePlanTask{
		Name:      name,
		Category:  category,
		Status:    string(domain.TaskTodo),
		SortOrder: order,
	})
	if err != nil {
		c.removeTaskLocally(gen, tempID)
		return err
	}
	c.reconcileTask(gen, tempID, *created)
	return nil
}

// AddChecklistItem appends a new checklist item, mirroring AddTask.
func (c *Controller) AddChecklistItem(ctx context.Context, name, section string, mandatory bool) error {
	if strings.TrimSpace(name) == "" {
		return &gateway.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if section == "" {
		section = domain.DefaultCategory
	}

	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotOpen
	}
	gen := c.generation
	tempID := "tmp-" + uuid.NewString()
	order := len(c.checklist)
	c.checklist = append(c.checklist, domain.ChecklistItem{
		ID:          tempID,
		TenderID:    c.tender.ID,
		Name:        name,
		Section:     section,
		Status:      domain.ChecklistPending,
		IsMandatory: mandatory,
		SortOrder:   order,
		UpdatedAt:   c.now(),
	})
	tenderID := c.tender.ID
	c.mu.Unlock()

	created, err := c.gw.CreateChecklistItem(ctx, tenderID, gateway.CreateChecklistItem{
		Name:        name,
		Section:     section,
		Status:      string(domain.ChecklistPending),
		IsMandatory: mandatory,
		SortOrder:   order,
	})
	if err != nil {
		c.removeChecklistItemLocally(gen, tempID)
		return err
	}
	c.reconcileChecklistItem(gen, tempID, *created)
	return nil
}

// RenameTask changes only the task's display name.
func (c *Controller) RenameTask(ctx context.Context, taskID, name string) error {
	if strings.TrimSpace(name) == "" {
		return &gateway.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotOpen
	}
	gen := c.generation
	idx := c.taskIndex(taskID)
	if idx < 0 {
		c.mu.Unlock()
		return ErrUnknownItem
	}
	before := cloneTask(c.tasks[idx])
	c.tasks[idx].Name = name
	c.mu.Unlock()

	updated, err := c.gw.UpdatePlanTask(ctx, taskID, gateway.PlanTaskPatch{Name: &name})
	if err != nil {
		c.rollbackTask(gen, taskID, before)
		return err
	}
	c.reconcileTask(gen, taskID, *updated)
	return nil
}

// RenameChecklistItem changes only the item's display name.
func (c *Controller) RenameChecklistItem(ctx context.Context, itemID, name string) error {
	if strings.TrimSpace(name) == "" {
		return &gateway.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotOpen
	}
	gen := c.generation
	idx := c.checklistIndex(itemID)
	if idx < 0 {
		c.mu.Unlock()
		return ErrUnknownItem
	}
	before := cloneChecklistItem(c.checklist[idx])
	c.checklist[idx].Name = name
	c.mu.Unlock()

	updated, err := c.gw.UpdateChecklistItem(ctx, itemID, gateway.ChecklistItemPatch{Name: &name})
	if err != nil {
		c.rollbackChecklistItem(gen, itemID, before)
		return err
	}
	c.reconcileChecklistItem(gen, itemID, *updated)
	return nil
}

// DeleteTask removes a plan task. Deletion is not optimistic: the local row
// disappears only after the gateway confirms, so a failed delete never hides
// a row that still exists in the store. Confirmation is the caller's job.
func (c *Controller) DeleteTask(ctx context.Context, taskID string) error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotOpen
	}
	gen := c.generation
	if c.taskIndex(taskID) < 0 {
		c.mu.Unlock()
		return ErrUnknownItem
	}
	c.mu.Unlock()

	if err := c.gw.DeletePlanTask(ctx, taskID); err != nil {
		return err
	}
	c.removeTaskLocally(gen, taskID)
	return nil
}

// DeleteChecklistItem removes a checklist item, mirroring DeleteTask.
func (c *Controller) DeleteChecklistItem(ctx context.Context, itemID string) error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotOpen
	}
	gen := c.generation
	if c.checklistIndex(itemID) < 0 {
		c.mu.Unlock()
		return ErrUnknownItem
	}
	c.mu.Unlock()

	if err := c.gw.DeleteChecklistItem(ctx, itemID); err != nil {
		return err
	}
	c.removeChecklistItemLocally(gen, itemID)
	return nil
}

func (c *Controller) removeTaskLocally(gen int, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return
	}
	if idx := c.taskIndex(id); idx >= 0 {
		c.tasks = append(c.tasks[:idx], c.tasks[idx+1:]...)
	}
}

func (c *Controller) removeChecklistItemLocally(gen int, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return
	}
	if idx := c.checklistIndex(id); idx >= 0 {
		c.checklist = append(c.checklist[:idx], c.checklist[idx+1:]...)
	}
}

// ── template population ──────────────────────────────────────────────────────

// LoadTemplate copies a named bureau template into the open tender. When
// overwrite would replace existing items the caller must pass confirmed=true;
// this operation never runs destructively without an explicit go-ahead. A
// non-skipped result triggers a full reload to pick up the created items.
func (c *Controller) LoadTemplate(ctx context.Context, templateName string, overwrite, confirmed bool) (*domain.PopulateResult, error) {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return nil, ErrNotOpen
	}
	hasExisting := len(c.tasks) > 0 || len(c.checklist) > 0
	tenderID := c.tender.ID
	c.mu.Unlock()

	if overwrite && hasExisting && !confirmed {
		return nil, ErrConfirmationRequired
	}

	result, err := c.gw.PopulateFromTemplate(ctx, tenderID, templateName, overwrite)
	if err != nil {
		return nil, err
	}
	if !result.Skipped {
		if err := c.Reload(ctx); err != nil {
			return result, err
		}
	}
	return result, nil
}
