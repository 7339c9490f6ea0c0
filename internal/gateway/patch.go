package gateway

import (
	"time"

	"github.com/bkoetsier/tenderplan/internal/domain"
)

// PlanTaskPatch is a partial update for a plan task. Nil fields are left
// untouched by the server. ClearDueDate sends an explicit null so that
// clearing a date is distinguishable from not mentioning it.
type PlanTaskPatch struct {
	Name         *string
	Category     *string
	Status       *domain.TaskStatus
	DueDate      *time.Time
	ClearDueDate bool
	SortOrder    *int
	IsMilestone  *bool
	AssignedTo   *[]string
}

func (p PlanTaskPatch) payload() map[string]any {
	body := map[string]any{}
	if p.Name != nil {
		body["name"] = *p.Name
	}
	if p.Category != nil {
		body["category"] = *p.Category
	}
	if p.Status != nil {
		body["status"] = string(*p.Status)
	}
	if p.ClearDueDate {
		body["due_date"] = nil
	} else if p.DueDate != nil {
		body["due_date"] = p.DueDate.Format(domain.DateLayout)
	}
	if p.SortOrder != nil {
		body["sort_order"] = *p.SortOrder
	}
	if p.IsMilestone != nil {
		body["is_milestone"] = *p.IsMilestone
	}
	if p.AssignedTo != nil {
		body["assigned_to"] = *p.AssignedTo
	}
	return body
}

// ChecklistItemPatch is a partial update for a checklist item.
type ChecklistItemPatch struct {
	Name          *string
	Section       *string
	Status        *domain.ChecklistStatus
	IsMandatory   *bool
	Deadline      *time.Time
	ClearDeadline bool
	SortOrder     *int
	AssignedTo    *[]string
}

func (p ChecklistItemPatch) payload() map[string]any {
	body := map[string]any{}
	if p.Name != nil {
		body["name"] = *p.Name
	}
	if p.Section != nil {
		body["section"] = *p.Section
	}
	if p.Status != nil {
		body["status"] = string(*p.Status)
	}
	if p.IsMandatory != nil {
		body["is_mandatory"] = *p.IsMandatory
	}
	if p.ClearDeadline {
		body["deadline"] = nil
	} else if p.Deadline != nil {
		body["deadline"] = p.Deadline.Format(domain.DateLayout)
	}
	if p.SortOrder != nil {
		body["sort_order"] = *p.SortOrder
	}
	if p.AssignedTo != nil {
		body["assigned_to"] = *p.AssignedTo
	}
	return body
}
