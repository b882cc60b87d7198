package taskqueue

import (
	"sync"
	"testing"

	"github.com/Iron-Ham/triage/internal/event"
	"github.com/Iron-Ham/triage/internal/task"
)

type eventCollector struct {
	mu     sync.Mutex
	events []event.Event
}

func (c *eventCollector) handler(e event.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *eventCollector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func (c *eventCollector) findByType(eventType string) []event.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var found []event.Event
	for _, e := range c.events {
		if e.EventType() == eventType {
			found = append(found, e)
		}
	}
	return found
}

func newTestEventQueue(t *testing.T) (*EventQueue, *eventCollector) {
	t.Helper()
	bus := event.NewBus()
	c := &eventCollector{}
	bus.SubscribeAll(c.handler)
	return NewEventQueue(New(), bus), c
}

func TestEventQueue_AddPublishes(t *testing.T) {
	eq, c := newTestEventQueue(t)

	added, err := eq.Add(task.Task{Title: "Write report", EstimatedHours: 2, Importance: 6})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	found := c.findByType(event.TypeTaskAdded)
	if len(found) != 1 {
		t.Fatalf("expected 1 TaskAddedEvent, got %d", len(found))
	}
	e := found[0].(event.TaskAddedEvent)
	if e.TaskID != added.ID || e.Title != "Write report" || e.QueueLen != 1 {
		t.Errorf("unexpected event %+v", e)
	}
}

func TestEventQueue_FailedAddPublishesNothing(t *testing.T) {
	eq, c := newTestEventQueue(t)

	if _, err := eq.Add(task.Task{Title: "", Importance: 5}); err == nil {
		t.Fatal("expected validation error")
	}
	if c.count() != 0 {
		t.Errorf("expected no events, got %d", c.count())
	}
}

func TestEventQueue_RemovePublishes(t *testing.T) {
	eq, c := newTestEventQueue(t)
	for _, title := range []string{"a", "b", "c"} {
		if _, err := eq.Add(task.Task{Title: title, Importance: 5}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	if _, err := eq.Remove(1); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, _, err := eq.RemoveByID("t1"); err != nil {
		t.Fatalf("RemoveByID: %v", err)
	}

	found := c.findByType(event.TypeTaskRemoved)
	if len(found) != 2 {
		t.Fatalf("expected 2 TaskRemovedEvents, got %d", len(found))
	}
	first := found[0].(event.TaskRemovedEvent)
	if first.TaskID != "t2" || first.Index != 1 || first.QueueLen != 2 {
		t.Errorf("unexpected first event %+v", first)
	}
	second := found[1].(event.TaskRemovedEvent)
	if second.TaskID != "t1" || second.Index != 0 || second.QueueLen != 1 {
		t.Errorf("unexpected second event %+v", second)
	}
}

func TestEventQueue_ClearPublishes(t *testing.T) {
	eq, c := newTestEventQueue(t)

	if _, err := eq.Clear(); err == nil {
		t.Fatal("clearing an empty queue should fail")
	}
	if len(c.findByType(event.TypeQueueCleared)) != 0 {
		t.Fatal("failed clear should not publish")
	}

	_, _ = eq.Add(task.Task{Title: "a", Importance: 5})
	_, _ = eq.Add(task.Task{Title: "b", Importance: 5})

	n, err := eq.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 2 {
		t.Errorf("Clear() = %d, want 2", n)
	}

	found := c.findByType(event.TypeQueueCleared)
	if len(found) != 1 {
		t.Fatalf("expected 1 QueueClearedEvent, got %d", len(found))
	}
	if found[0].(event.QueueClearedEvent).Removed != 2 {
		t.Errorf("Removed = %d, want 2", found[0].(event.QueueClearedEvent).Removed)
	}
	if !eq.IsEmpty() {
		t.Error("queue should be empty after Clear")
	}
}

func TestEventQueue_BulkLoadPublishes(t *testing.T) {
	eq, c := newTestEventQueue(t)

	res := eq.BulkLoad([]RawRecord{{Title: "A"}, {}})
	if res.Received != 2 || res.Accepted != 1 {
		t.Fatalf("BulkLoad() = %+v, want received 2 accepted 1", res)
	}

	found := c.findByType(event.TypeBulkLoaded)
	if len(found) != 1 {
		t.Fatalf("expected 1 BulkLoadedEvent, got %d", len(found))
	}
	e := found[0].(event.BulkLoadedEvent)
	if e.Received != 2 || e.Accepted != 1 || e.QueueLen != 1 {
		t.Errorf("unexpected event %+v", e)
	}
}

func TestEventQueue_ReadsPassThrough(t *testing.T) {
	eq, _ := newTestEventQueue(t)
	_, _ = eq.Add(task.Task{Title: "a", Importance: 5})

	if eq.Len() != 1 || eq.Queue().Len() != 1 {
		t.Errorf("Len() = %d, Queue().Len() = %d, want 1", eq.Len(), eq.Queue().Len())
	}
	if got := eq.Tasks(); len(got) != 1 || got[0].Title != "a" {
		t.Errorf("Tasks() = %+v", got)
	}

	dir := t.TempDir()
	if err := eq.SaveState(dir); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	loaded, err := LoadState(dir)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if loaded.Len() != 1 {
		t.Errorf("loaded Len() = %d, want 1", loaded.Len())
	}
}
