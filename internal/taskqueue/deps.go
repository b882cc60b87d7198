package taskqueue

import (
	"sort"

	"github.com/Iron-Ham/triage/internal/task"
)

// DanglingDependencies maps task ids to the dependency ids they reference
// that are not in the queue. Dangling references are allowed and sent to the
// scoring service unchanged; this is informational only.
func (q *TaskQueue) DanglingDependencies() map[string][]string {
	q.mu.Lock()
	defer q.mu.Unlock()

	dangling := make(map[string][]string)
	for _, t := range q.tasks {
		for _, dep := range t.Dependencies {
			if _, ok := q.ids[dep]; !ok {
				dangling[t.ID] = append(dangling[t.ID], dep)
			}
		}
	}
	return dangling
}

// DependentCounts returns, for each queued task id, how many queued tasks
// list it as a dependency.
func (q *TaskQueue) DependentCounts() map[string]int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return dependentCounts(q.tasks)
}

func dependentCounts(tasks []task.Task) map[string]int {
	counts := make(map[string]int, len(tasks))
	for _, t := range tasks {
		counts[t.ID] += 0
	}
	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			if _, ok := counts[dep]; ok && dep != t.ID {
				counts[dep]++
			}
		}
	}
	return counts
}

// CyclicTasks returns the sorted ids of queued tasks that take part in, or
// depend on, a dependency cycle. The scoring service reports cycles as
// warnings; this lets the queue show them before analysis.
func (q *TaskQueue) CyclicTasks() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return cyclicTasks(q.tasks)
}

// cyclicTasks runs Kahn's algorithm over the in-queue edges. Whatever cannot
// be ordered is part of, or downstream of, a cycle.
func cyclicTasks(tasks []task.Task) []string {
	if len(tasks) == 0 {
		return nil
	}

	inQueue := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		inQueue[t.ID] = true
	}

	inDegree := make(map[string]int, len(tasks))
	dependents := make(map[string][]string, len(tasks))
	for _, t := range tasks {
		inDegree[t.ID] += 0
		for _, dep := range t.Dependencies {
			if !inQueue[dep] {
				continue
			}
			inDegree[t.ID]++
			dependents[dep] = append(dependents[dep], t.ID)
		}
	}

	var ready []string
	for id, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}

	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		for _, dep := range dependents[id] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
		delete(inDegree, id)
	}

	if len(inDegree) == 0 {
		return nil
	}
	cyclic := make([]string, 0, len(inDegree))
	for id := range inDegree {
		cyclic = append(cyclic, id)
	}
	sort.Strings(cyclic)
	return cyclic
}
