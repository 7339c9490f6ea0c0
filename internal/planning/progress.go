package planning

import (
	"math"
	"sort"

	"github.com/bkoetsier/tenderplan/internal/domain"
)

// Progress holds a done/total ratio with a rounded percentage.
type Progress struct {
	Done       int
	Total      int
	Percentage int
}

// CalculateProgress computes the rounded percentage for done out of total.
// An empty list yields 0%.
func CalculateProgress(done, total int) Progress {
	p := Progress{Done: done, Total: total}
	if total > 0 {
		p.Percentage = int(math.Round(float64(done) / float64(total) * 100))
	}
	return p
}

// TaskProgress computes progress over plan tasks, counting "done" statuses.
func TaskProgress(tasks []domain.PlanTask) Progress {
	done := 0
	for _, t := range tasks {
		if t.Status == domain.TaskDone {
			done++
		}
	}
	return CalculateProgress(done, len(tasks))
}

// ChecklistProgress computes progress over checklist items, counting
// "completed" statuses.
func ChecklistProgress(items []domain.ChecklistItem) Progress {
	done := 0
	for _, i := range items {
		if i.Status == domain.ChecklistCompleted {
			done++
		}
	}
	return CalculateProgress(done, len(items))
}

// TaskGroup is one category bucket of plan tasks.
type TaskGroup struct {
	Category string
	Tasks    []domain.PlanTask
}

// GroupTasks buckets plan tasks by category. Categories keep their
// first-seen order; tasks inside a group are ordered by sort index.
func GroupTasks(tasks []domain.PlanTask) []TaskGroup {
	index := make(map[string]int)
	groups := make([]TaskGroup, 0)
	for _, t := range tasks {
		cat := t.Category
		if cat == "" {
			cat = domain.DefaultCategory
		}
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, TaskGroup{Category: cat})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	for i := range groups {
		sort.SliceStable(groups[i].Tasks, func(a, b int) bool {
			return groups[i].Tasks[a].SortOrder < groups[i].Tasks[b].SortOrder
		})
	}
	return groups
}

// ChecklistGroup is one section bucket of checklist items.
type ChecklistGroup struct {
	Section string
	Items   []domain.ChecklistItem
}

// GroupChecklist buckets checklist items by section, mirroring GroupTasks.
func GroupChecklist(items []domain.ChecklistItem) []ChecklistGroup {
	index := make(map[string]int)
	groups := make([]ChecklistGroup, 0)
	for _, it := range items {
		sec := it.Section
		if sec == "" {
			sec = domain.DefaultCategory
		}
		i, ok := index[sec]
		if !ok {
			i = len(groups)
			index[sec] = i
			groups = append(groups, ChecklistGroup{Section: sec})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	for i := range groups {
		sort.SliceStable(groups[i].Items, func(a, b int) bool {
			return groups[i].Items[a].SortOrder < groups[i].Items[b].SortOrder
		})
	}
	return groups
}
