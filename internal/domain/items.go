package domain

import "time"

// PlanTask is an internal work item in a tender's project plan.
type PlanTask struct {
	ID          string
	TenderID    string
	Name        string
	Category    string
	Status      TaskStatus
	DueDate     *time.Time
	SortOrder   int
	IsMilestone bool
	AssignedTo  []string
	UpdatedAt   time.Time
}

// ChecklistItem is a submission-compliance item on a tender's checklist.
// AssignedTo is modeled as a list for forward compatibility but holds at
// most one entry: a checklist item has a single responsible party.
type ChecklistItem struct {
	ID          string
	TenderID    string
	Name        string
	Section     string
	Status      ChecklistStatus
	IsMandatory bool
	Deadline    *time.Time
	SortOrder   int
	AssignedTo  []string
	UpdatedAt   time.Time
}

// TeamMember is a read-only roster entry sourced from the bureau.
type TeamMember struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Initials string `json:"initials"`
	Color    string `json:"color"`
	Role     string `json:"role"`
}

// TenderCounts holds the done/total aggregates for one tender.
type TenderCounts struct {
	PlanningDone   int `json:"planning_done"`
	PlanningTotal  int `json:"planning_total"`
	ChecklistDone  int `json:"checklist_done"`
	ChecklistTotal int `json:"checklist_total"`
}

// PopulateResult is the outcome of copying a template into a tender.
type PopulateResult struct {
	PlanningTasksCreated  int    `json:"planning_tasks_created"`
	ChecklistItemsCreated int    `json:"checklist_items_created"`
	Skipped               bool   `json:"skipped"`
	Message               string `json:"message"`
}

// TemplateTask is a catalog row from the bureau-level planning templates.
type TemplateTask struct {
	TemplateName string `json:"template_name"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	SortOrder    int    `json:"sort_order"`
	IsMilestone  bool   `json:"is_milestone"`
}

// TemplateChecklistItem is a catalog row from the bureau-level checklist templates.
type TemplateChecklistItem struct {
	TemplateName string `json:"template_name"`
	Name         string `json:"name"`
	Section      string `json:"section"`
	SortOrder    int    `json:"sort_order"`
	IsMandatory  bool   `json:"is_mandatory"`
}

// HasAssignee reports whether the given user id is in the task's assignment set.
func (t *PlanTask) HasAssignee(userID string) bool {
	for _, id := range t.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}
