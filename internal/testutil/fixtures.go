package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/bkoetsier/tenderplan/internal/domain"
)

// Task options
type TaskOption func(*domain.PlanTask)

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.PlanTask) { t.Status = s }
}

func WithTaskCategory(c string) TaskOption {
	return func(t *domain.PlanTask) { t.Category = c }
}

func WithTaskDueDate(d time.Time) TaskOption {
	return func(t *domain.PlanTask) { t.DueDate = &d }
}

func WithTaskOrder(n int) TaskOption {
	return func(t *domain.PlanTask) { t.SortOrder = n }
}

func WithAssignees(ids ...string) TaskOption {
	return func(t *domain.PlanTask) { t.AssignedTo = ids }
}

// NewTestTask builds a plan task with sensible defaults.
func NewTestTask(tenderID, name string, opts ...TaskOption) domain.PlanTask {
	t := domain.PlanTask{
		ID:        uuid.New().String(),
		TenderID:  tenderID,
		Name:      name,
		Category:  domain.DefaultCategory,
		Status:    domain.TaskTodo,
		UpdatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Checklist options
type ChecklistOption func(*domain.ChecklistItem)

func WithChecklistStatus(s domain.ChecklistStatus) ChecklistOption {
	return func(i *domain.ChecklistItem) { i.Status = s }
}

func WithSection(s string) ChecklistOption {
	return func(i *domain.ChecklistItem) { i.Section = s }
}

func WithMandatory() ChecklistOption {
	return func(i *domain.ChecklistItem) { i.IsMandatory = true }
}

func WithResponsible(id string) ChecklistOption {
	return func(i *domain.ChecklistItem) { i.AssignedTo = []string{id} }
}

// NewTestChecklistItem builds a checklist item with sensible defaults.
func NewTestChecklistItem(tenderID, name string, opts ...ChecklistOption) domain.ChecklistItem {
	i := domain.ChecklistItem{
		ID:        uuid.New().String(),
		TenderID:  tenderID,
		Name:      name,
		Section:   domain.DefaultCategory,
		Status:    domain.ChecklistPending,
		UpdatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(&i)
	}
	return i
}

// NewTestTender builds a tender with the submission deadline a month out and
// the publication date a week back.
func NewTestTender(name string) domain.Tender {
	now := time.Now()
	return domain.Tender{
		ID:                "tender-" + uuid.New().String()[:8],
		BureauID:          "bureau-1",
		Name:              name,
		Status:            "open",
		PublicatieDatum:   now.AddDate(0, 0, -7).Format(domain.DateLayout),
		DeadlineIndiening: now.AddDate(0, 1, 0).Format(domain.DateLayout),
	}
}

// NewTestMember builds a roster entry.
func NewTestMember(id, name string) domain.TeamMember {
	return domain.TeamMember{ID: id, Name: name}
}
