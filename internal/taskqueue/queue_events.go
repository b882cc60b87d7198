package taskqueue

import (
	"sync"

	"github.com/Iron-Ham/triage/internal/event"
	"github.com/Iron-Ham/triage/internal/task"
)

// EventQueue wraps a TaskQueue and publishes events to an event bus
// whenever the queue is mutated. Reads pass straight through.
type EventQueue struct {
	mu  sync.Mutex
	q   *TaskQueue
	bus *event.Bus
}

// NewEventQueue creates an EventQueue that publishes events on the given bus.
func NewEventQueue(q *TaskQueue, bus *event.Bus) *EventQueue {
	return &EventQueue{q: q, bus: bus}
}

// Queue returns the wrapped TaskQueue.
func (eq *EventQueue) Queue() *TaskQueue {
	return eq.q
}

// Add appends a task and publishes a TaskAddedEvent.
func (eq *EventQueue) Add(t task.Task) (task.Task, error) {
	eq.mu.Lock()
	defer eq.mu.Unlock()

	added, err := eq.q.Add(t)
	if err != nil {
		return task.Task{}, err
	}
	eq.bus.Publish(event.NewTaskAddedEvent(added.ID, added.Title, eq.q.Len()))
	return added, nil
}

// Remove deletes the task at index and publishes a TaskRemovedEvent.
func (eq *EventQueue) Remove(index int) (task.Task, error) {
	eq.mu.Lock()
	defer eq.mu.Unlock()

	removed, err := eq.q.Remove(index)
	if err != nil {
		return task.Task{}, err
	}
	eq.bus.Publish(event.NewTaskRemovedEvent(removed.ID, index, eq.q.Len()))
	return removed, nil
}

// RemoveByID deletes the task with the given id and publishes a
// TaskRemovedEvent.
func (eq *EventQueue) RemoveByID(id string) (int, task.Task, error) {
	eq.mu.Lock()
	defer eq.mu.Unlock()

	index, removed, err := eq.q.RemoveByID(id)
	if err != nil {
		return -1, task.Task{}, err
	}
	eq.bus.Publish(event.NewTaskRemovedEvent(removed.ID, index, eq.q.Len()))
	return index, removed, nil
}

// Clear empties the queue and publishes a QueueClearedEvent. Subscribers use
// it to drop any analysis of the old contents.
func (eq *EventQueue) Clear() (int, error) {
	eq.mu.Lock()
	defer eq.mu.Unlock()

	n, err := eq.q.Clear()
	if err != nil {
		return 0, err
	}
	eq.bus.Publish(event.NewQueueClearedEvent(n))
	return n, nil
}

// BulkLoad appends raw records and publishes a BulkLoadedEvent.
func (eq *EventQueue) BulkLoad(records []RawRecord) BulkLoadResult {
	eq.mu.Lock()
	defer eq.mu.Unlock()

	res := eq.q.BulkLoad(records)
	eq.bus.Publish(event.NewBulkLoadedEvent(res.Received, res.Accepted, eq.q.Len()))
	return res
}

// Tasks returns a snapshot of the queued tasks.
func (eq *EventQueue) Tasks() []task.Task {
	return eq.q.Tasks()
}

// Len returns the number of queued tasks.
func (eq *EventQueue) Len() int {
	return eq.q.Len()
}

// IsEmpty reports whether the queue holds no tasks.
func (eq *EventQueue) IsEmpty() bool {
	return eq.q.IsEmpty()
}

// SaveState persists the queue state to disk.
func (eq *EventQueue) SaveState(dir string) error {
	return eq.q.SaveState(dir)
}

// Ensure the queue event types satisfy the Event interface at compile time.
var (
	_ event.Event = event.TaskAddedEvent{}
	_ event.Event = event.TaskRemovedEvent{}
	_ event.Event = event.QueueClearedEvent{}
	_ event.Event = event.BulkLoadedEvent{}
)
