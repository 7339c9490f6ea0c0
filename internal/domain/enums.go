package domain

type TaskStatus string

const (
	TaskTodo   TaskStatus = "todo"
	TaskActive TaskStatus = "active"
	TaskDone   TaskStatus = "done"
)

type ChecklistStatus string

const (
	ChecklistPending   ChecklistStatus = "pending"
	ChecklistCompleted ChecklistStatus = "completed"
)

type MilestoneCategory string

const (
	CategoryPublication MilestoneCategory = "publication"
	CategoryVisit       MilestoneCategory = "visit"
	CategoryQuestions   MilestoneCategory = "questions"
	CategorySubmission  MilestoneCategory = "submission"
	CategoryAward       MilestoneCategory = "award"
	CategoryContract    MilestoneCategory = "contract"
)

// ValidTaskStatuses is the canonical set of accepted plan task status strings.
var ValidTaskStatuses = map[string]bool{
	"todo": true, "active": true, "done": true,
}

// ValidChecklistStatuses is the canonical set of accepted checklist status strings.
var ValidChecklistStatuses = map[string]bool{
	"pending": true, "completed": true,
}

// DefaultCategory is the fallback grouping label for items added without one.
const DefaultCategory = "Algemeen"
