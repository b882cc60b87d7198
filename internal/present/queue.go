package present

import (
	"github.com/Iron-Ham/triage/internal/task"
)

// EmptyQueue is shown for a queue without tasks.
const EmptyQueue = "Your task queue is empty"

// QueueEntry is the display form of one queued task.
type QueueEntry struct {
	Position     int      `json:"position"`
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Due          string   `json:"due"`
	Hours        float64  `json:"estimated_hours"`
	Importance   int      `json:"importance"`
	Dependencies []string `json:"dependencies"`
	// Unknown lists dependencies that reference no queued task.
	Unknown []string `json:"unknown_dependencies,omitempty"`
	// Blocks counts queued tasks that depend on this one.
	Blocks  int  `json:"blocks,omitempty"`
	InCycle bool `json:"in_cycle,omitempty"`
}

// QueueView is the display form of the task queue.
type QueueView struct {
	Count       int          `json:"count"`
	Entries     []QueueEntry `json:"tasks"`
	Placeholder string       `json:"placeholder,omitempty"`
}

// QueueDeps holds dependency facts about a queue. The zero value reports
// nothing.
type QueueDeps struct {
	// Dangling maps task ids to dependency ids that are not in the queue.
	Dangling   map[string][]string
	Dependents map[string]int
	Cyclic     []string
}

// DependencySource is implemented by *taskqueue.TaskQueue.
type DependencySource interface {
	DanglingDependencies() map[string][]string
	DependentCounts() map[string]int
	CyclicTasks() []string
}

// DepsOf collects the dependency facts of src.
func DepsOf(src DependencySource) QueueDeps {
	return QueueDeps{
		Dangling:   src.DanglingDependencies(),
		Dependents: src.DependentCounts(),
		Cyclic:     src.CyclicTasks(),
	}
}

// BuildQueue computes the view of tasks in queue order.
func BuildQueue(tasks []task.Task, deps QueueDeps, today task.Date) QueueView {
	cyclic := make(map[string]bool, len(deps.Cyclic))
	for _, id := range deps.Cyclic {
		cyclic[id] = true
	}

	v := QueueView{Count: len(tasks), Entries: make([]QueueEntry, len(tasks))}
	if len(tasks) == 0 {
		v.Placeholder = EmptyQueue
	}
	for i, t := range tasks {
		taskDeps := t.Dependencies
		if taskDeps == nil {
			taskDeps = []string{}
		}
		v.Entries[i] = QueueEntry{
			Position:     i + 1,
			ID:           t.ID,
			Title:        t.Title,
			Due:          FormatDue(t.DueDate, today),
			Hours:        t.EstimatedHours,
			Importance:   t.Importance,
			Dependencies: taskDeps,
			Unknown:      deps.Dangling[t.ID],
			Blocks:       deps.Dependents[t.ID],
			InCycle:      cyclic[t.ID],
		}
	}
	return v
}
