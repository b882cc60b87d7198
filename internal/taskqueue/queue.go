package taskqueue

import (
	"strconv"
	"strings"
	"sync"

	"github.com/Iron-Ham/triage/internal/errors"
	"github.com/Iron-Ham/triage/internal/task"
)

// TaskQueue is an insertion-ordered list of tasks awaiting analysis.
// All methods are safe for concurrent use via an internal mutex.
type TaskQueue struct {
	mu     sync.Mutex
	tasks  []task.Task
	ids    map[string]struct{}
	nextID int // next candidate for a sequential id, starts at 1
}

// New creates an empty TaskQueue.
func New() *TaskQueue {
	return &TaskQueue{
		tasks:  []task.Task{},
		ids:    make(map[string]struct{}),
		nextID: 1,
	}
}

// newFromTasks rebuilds a queue from persisted tasks. Tasks with a duplicate
// or missing id are given a fresh one.
func newFromTasks(tasks []task.Task, nextID int) *TaskQueue {
	q := New()
	if nextID > 1 {
		q.nextID = nextID
	}
	for _, t := range tasks {
		t = t.Clone()
		if _, taken := q.ids[t.ID]; t.ID == "" || taken {
			t.ID = q.allocateIDLocked()
		}
		q.ids[t.ID] = struct{}{}
		q.tasks = append(q.tasks, t)
	}
	return q
}

// allocateIDLocked returns the next sequential id not already in use.
// Ids are never reused, even after the task holding one is removed.
// Caller must hold q.mu.
func (q *TaskQueue) allocateIDLocked() string {
	for {
		id := idPrefix + strconv.Itoa(q.nextID)
		q.nextID++
		if _, taken := q.ids[id]; !taken {
			return id
		}
	}
}

// Add validates t and appends it to the end of the queue. A task without an
// id is assigned the next sequential one. Supplying an id that is already
// queued is a validation error. The stored task is returned.
func (q *TaskQueue) Add(t task.Task) (task.Task, error) {
	t = t.Clone()
	t.Title = strings.TrimSpace(t.Title)
	t.ID = strings.TrimSpace(t.ID)
	if err := t.Validate(); err != nil {
		return task.Task{}, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if t.ID == "" {
		t.ID = q.allocateIDLocked()
	} else if _, taken := q.ids[t.ID]; taken {
		return task.Task{}, errors.NewValidationError("a task with this id is already queued").
			WithField("id").
			WithValue(t.ID)
	}

	q.ids[t.ID] = struct{}{}
	q.tasks = append(q.tasks, t)
	return t.Clone(), nil
}

// Remove deletes the task at the zero-based index and returns it. Later
// tasks shift down by one.
func (q *TaskQueue) Remove(index int) (task.Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if index < 0 || index >= len(q.tasks) {
		return task.Task{}, errors.NewIndexError(index, len(q.tasks))
	}
	return q.removeLocked(index), nil
}

// RemoveByID deletes the task with the given id and returns its former index.
func (q *TaskQueue) RemoveByID(id string) (int, task.Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, t := range q.tasks {
		if t.ID == id {
			return i, q.removeLocked(i), nil
		}
	}
	return -1, task.Task{}, errors.NewNotFoundError("task", id)
}

// removeLocked deletes the task at index. Caller must hold q.mu and have
// checked the bounds.
func (q *TaskQueue) removeLocked(index int) task.Task {
	removed := q.tasks[index]
	q.tasks = append(q.tasks[:index], q.tasks[index+1:]...)
	delete(q.ids, removed.ID)
	return removed
}

// Clear empties the queue and returns how many tasks were removed. Clearing
// an empty queue is a precondition error and changes nothing.
func (q *TaskQueue) Clear() (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return 0, errors.NewPreconditionError("clear", errors.ErrEmptyQueue)
	}
	n := len(q.tasks)
	q.tasks = []task.Task{}
	q.ids = make(map[string]struct{})
	return n, nil
}

// Tasks returns a deep copy of the queued tasks in insertion order.
func (q *TaskQueue) Tasks() []task.Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]task.Task, len(q.tasks))
	for i, t := range q.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Len returns the number of queued tasks.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// IsEmpty reports whether the queue holds no tasks.
func (q *TaskQueue) IsEmpty() bool {
	return q.Len() == 0
}

// Get returns a copy of the task at index.
func (q *TaskQueue) Get(index int) (task.Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if index < 0 || index >= len(q.tasks) {
		return task.Task{}, errors.NewIndexError(index, len(q.tasks))
	}
	return q.tasks[index].Clone(), nil
}

// Lookup returns a copy of the task with the given id.
func (q *TaskQueue) Lookup(id string) (task.Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, t := range q.tasks {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return task.Task{}, false
}
