package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bkoetsier/tenderplan/internal/domain"
	"github.com/bkoetsier/tenderplan/internal/gateway"
)

// FakeGateway is an in-memory gateway.Gateway for controller and handler
// tests. It records call counts and an operation log, and supports error
// injection per operation family.
type FakeGateway struct {
	mu sync.Mutex

	Tenders   map[string]domain.Tender
	Tasks     map[string][]domain.PlanTask
	Checklist map[string][]domain.ChecklistItem
	Members   []domain.TeamMember
	Counts    map[string]domain.TenderCounts

	Names         []string
	TemplateTasks []domain.TemplateTask
	TemplateItems []domain.TemplateChecklistItem

	// Error injection; nil means the operation succeeds.
	ListTasksErr     error
	ListChecklistErr error
	CreateErr        error
	UpdateErr        error
	DeleteErr        error
	RosterErr        error
	CountsErr        error
	PopulateErr      error

	// RosterDelay blocks TeamMembers until released, for late-response tests.
	RosterDelay chan struct{}

	// Ops logs operation names in call order.
	Ops []string

	UpdateCalls    int
	CreateCalls    int
	DeleteCalls    int
	ListTaskCalls  int
	ListCheckCalls int
	CountsCalls    int
	PopulateCalls  int
	Invalidations  int
}

var _ gateway.Gateway = (*FakeGateway)(nil)

// NewFakeGateway returns an empty fake with initialized maps.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		Tenders:   make(map[string]domain.Tender),
		Tasks:     make(map[string][]domain.PlanTask),
		Checklist: make(map[string][]domain.ChecklistItem),
		Counts:    make(map[string]domain.TenderCounts),
	}
}

func (f *FakeGateway) log(op string) {
	f.Ops = append(f.Ops, op)
}

func (f *FakeGateway) GetTender(ctx context.Context, tenderID string) (*domain.Tender, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.Tenders[tenderID]
	if !ok {
		return nil, &gateway.RequestError{Status: 404, Message: "tender not found"}
	}
	return &t, nil
}

func (f *FakeGateway) ListPlanTasks(ctx context.Context, tenderID string) ([]domain.PlanTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListTaskCalls++
	f.log("list-tasks")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return append([]domain.PlanTask(nil), f.Tasks[tenderID]...), nil
}

func (f *FakeGateway) ListChecklistItems(ctx context.Context, tenderID string) ([]domain.ChecklistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCheckCalls++
	f.log("list-checklist")
	if f.ListChecklistErr != nil {
		return nil, f.ListChecklistErr
	}
	return append([]domain.ChecklistItem(nil), f.Checklist[tenderID]...), nil
}

func (f *FakeGateway) CreatePlanTask(ctx context.Context, tenderID string, fields gateway.CreatePlanTask) (*domain.PlanTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	f.log("create-task")
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	task := domain.PlanTask{
		ID:          uuid.New().String(),
		TenderID:    tenderID,
		Name:        fields.Name,
		Category:    fields.Category,
		Status:      domain.TaskStatus(fields.Status),
		DueDate:     domain.ParseDate(fields.DueDate),
		SortOrder:   fields.SortOrder,
		IsMilestone: fields.IsMilestone,
		AssignedTo:  fields.AssignedTo,
		UpdatedAt:   time.Now(),
	}
	f.Tasks[tenderID] = append(f.Tasks[tenderID], task)
	f.Invalidations++
	return &task, nil
}

func (f *FakeGateway) CreateChecklistItem(ctx context.Context, tenderID string, fields gateway.CreateChecklistItem) (*domain.ChecklistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	f.log("create-checklist")
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	item := domain.ChecklistItem{
		ID:          uuid.New().String(),
		TenderID:    tenderID,
		Name:        fields.Name,
		Section:     fields.Section,
		Status:      domain.ChecklistStatus(fields.Status),
		IsMandatory: fields.IsMandatory,
		Deadline:    domain.ParseDate(fields.Deadline),
		SortOrder:   fields.SortOrder,
		AssignedTo:  fields.AssignedTo,
		UpdatedAt:   time.Now(),
	}
	f.Checklist[tenderID] = append(f.Checklist[tenderID], item)
	f.Invalidations++
	return &item, nil
}

func (f *FakeGateway) UpdatePlanTask(ctx context.Context, id string, patch gateway.PlanTaskPatch) (*domain.PlanTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	f.log("update-task")
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	for tenderID, tasks := range f.Tasks {
		for i := range tasks {
			if tasks[i].ID != id {
				continue
			}
			t := &f.Tasks[tenderID][i]
			if patch.Name != nil {
				t.Name = *patch.Name
			}
			if patch.Category != nil {
				t.Category = *patch.Category
			}
			if patch.Status != nil {
				t.Status = *patch.Status
			}
			if patch.ClearDueDate {
				t.DueDate = nil
			} else if patch.DueDate != nil {
				t.DueDate = patch.DueDate
			}
			if patch.SortOrder != nil {
				t.SortOrder = *patch.SortOrder
			}
			if patch.IsMilestone != nil {
				t.IsMilestone = *patch.IsMilestone
			}
			if patch.AssignedTo != nil {
				t.AssignedTo = append([]string(nil), (*patch.AssignedTo)...)
			}
			t.UpdatedAt = time.Now()
			f.Invalidations++
			out := *t
			return &out, nil
		}
	}
	return nil, &gateway.RequestError{Status: 404, Message: "plan task not found"}
}

func (f *FakeGateway) UpdateChecklistItem(ctx context.Context, id string, patch gateway.ChecklistItemPatch) (*domain.ChecklistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	f.log("update-checklist")
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	for tenderID, items := range f.Checklist {
		for i := range items {
			if items[i].ID != id {
				continue
			}
			it := &f.Checklist[tenderID][i]
			if patch.Name != nil {
				it.Name = *patch.Name
			}
			if patch.Section != nil {
				it.Section = *patch.Section
			}
			if patch.Status != nil {
				it.Status = *patch.Status
			}
			if patch.IsMandatory != nil {
				it.IsMandatory = *patch.IsMandatory
			}
			if patch.ClearDeadline {
				it.Deadline = nil
			} else if patch.Deadline != nil {
				it.Deadline = patch.Deadline
			}
			if patch.SortOrder != nil {
				it.SortOrder = *patch.SortOrder
			}
			if patch.AssignedTo != nil {
				it.AssignedTo = append([]string(nil), (*patch.AssignedTo)...)
			}
			it.UpdatedAt = time.Now()
			f.Invalidations++
			out := *it
			return &out, nil
		}
	}
	return nil, &gateway.RequestError{Status: 404, Message: "checklist item not found"}
}

func (f *FakeGateway) DeletePlanTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	f.log("delete-task")
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for tenderID, tasks := range f.Tasks {
		for i := range tasks {
			if tasks[i].ID == id {
				f.Tasks[tenderID] = append(tasks[:i], tasks[i+1:]...)
				f.Invalidations++
				return nil
			}
		}
	}
	return &gateway.RequestError{Status: 404, Message: "plan task not found"}
}

func (f *FakeGateway) DeleteChecklistItem(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	f.log("delete-checklist")
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for tenderID, items := range f.Checklist {
		for i := range items {
			if items[i].ID == id {
				f.Checklist[tenderID] = append(items[:i], items[i+1:]...)
				f.Invalidations++
				return nil
			}
		}
	}
	return &gateway.RequestError{Status: 404, Message: "checklist item not found"}
}

func (f *FakeGateway) TogglePlanTaskStatus(ctx context.Context, task *domain.PlanTask) (*domain.PlanTask, error) {
	next := domain.TaskDone
	if task.Status == domain.TaskDone {
		next = domain.TaskTodo
	}
	return f.UpdatePlanTask(ctx, task.ID, gateway.PlanTaskPatch{Status: &next})
}

func (f *FakeGateway) ToggleChecklistStatus(ctx context.Context, item *domain.ChecklistItem) (*domain.ChecklistItem, error) {
	next := domain.ChecklistCompleted
	if item.Status == domain.ChecklistCompleted {
		next = domain.ChecklistPending
	}
	return f.UpdateChecklistItem(ctx, item.ID, gateway.ChecklistItemPatch{Status: &next})
}

func (f *FakeGateway) AggregateCounts(ctx context.Context) (map[string]domain.TenderCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CountsCalls++
	f.log("counts")
	if f.CountsErr != nil {
		return nil, f.CountsErr
	}
	out := make(map[string]domain.TenderCounts, len(f.Counts))
	for k, v := range f.Counts {
		out[k] = v
	}
	return out, nil
}

func (f *FakeGateway) InvalidateCounts() {
	f.mu.Lock()
	f.Invalidations++
	f.mu.Unlock()
}

func (f *FakeGateway) PopulateFromTemplate(ctx context.Context, tenderID, templateName string, overwrite bool) (*domain.PopulateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PopulateCalls++
	f.log("populate")
	if f.PopulateErr != nil {
		return nil, f.PopulateErr
	}

	hasExisting := len(f.Tasks[tenderID]) > 0 || len(f.Checklist[tenderID]) > 0
	if hasExisting && !overwrite {
		return &domain.PopulateResult{Skipped: true, Message: "tender already has items"}, nil
	}
	f.Tasks[tenderID] = nil
	f.Checklist[tenderID] = nil

	result := &domain.PopulateResult{}
	for _, tt := range f.TemplateTasks {
		if tt.TemplateName != templateName {
			continue
		}
		f.Tasks[tenderID] = append(f.Tasks[tenderID], domain.PlanTask{
			ID:          uuid.New().String(),
			TenderID:    tenderID,
			Name:        tt.Name,
			Category:    tt.Category,
			Status:      domain.TaskTodo,
			SortOrder:   tt.SortOrder,
			IsMilestone: tt.IsMilestone,
			UpdatedAt:   time.Now(),
		})
		result.PlanningTasksCreated++
	}
	for _, ti := range f.TemplateItems {
		if ti.TemplateName != templateName {
			continue
		}
		f.Checklist[tenderID] = append(f.Checklist[tenderID], domain.ChecklistItem{
			ID:          uuid.New().String(),
			TenderID:    tenderID,
			Name:        ti.Name,
			Section:     ti.Section,
			Status:      domain.ChecklistPending,
			IsMandatory: ti.IsMandatory,
			SortOrder:   ti.SortOrder,
			UpdatedAt:   time.Now(),
		})
		result.ChecklistItemsCreated++
	}
	f.Invalidations++
	return result, nil
}

func (f *FakeGateway) TemplateNames(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Names...), nil
}

func (f *FakeGateway) PlanningTemplates(ctx context.Context) ([]domain.TemplateTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.TemplateTask(nil), f.TemplateTasks...), nil
}

func (f *FakeGateway) ChecklistTemplates(ctx context.Context) ([]domain.TemplateChecklistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.TemplateChecklistItem(nil), f.TemplateItems...), nil
}

func (f *FakeGateway) TeamMembers(ctx context.Context) ([]domain.TeamMember, error) {
	if f.RosterDelay != nil {
		<-f.RosterDelay
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log("team-members")
	if f.RosterErr != nil {
		return nil, f.RosterErr
	}
	return append([]domain.TeamMember(nil), f.Members...), nil
}
