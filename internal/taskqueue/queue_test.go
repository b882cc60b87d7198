package taskqueue

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/Iron-Ham/triage/internal/errors"
	"github.com/Iron-Ham/triage/internal/task"
)

func newTask(title string) task.Task {
	return task.Task{Title: title, EstimatedHours: 1, Importance: 5}
}

func mustAdd(t *testing.T, q *TaskQueue, tk task.Task) task.Task {
	t.Helper()
	added, err := q.Add(tk)
	if err != nil {
		t.Fatalf("Add(%q): %v", tk.Title, err)
	}
	return added
}

func TestAdd_AssignsSequentialIDs(t *testing.T) {
	q := New()

	a := mustAdd(t, q, newTask("a"))
	b := mustAdd(t, q, newTask("b"))

	if a.ID != "t1" || b.ID != "t2" {
		t.Errorf("ids = %q, %q; want t1, t2", a.ID, b.ID)
	}
	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}
}

func TestAdd_KeepsSuppliedIDAndSkipsItLater(t *testing.T) {
	q := New()

	supplied := newTask("supplied")
	supplied.ID = "t2"
	mustAdd(t, q, supplied)

	first := mustAdd(t, q, newTask("first"))
	second := mustAdd(t, q, newTask("second"))

	if first.ID != "t1" {
		t.Errorf("first.ID = %q, want t1", first.ID)
	}
	if second.ID != "t3" {
		t.Errorf("second.ID = %q, want t3 (t2 is taken)", second.ID)
	}
}

func TestAdd_IDsNeverReused(t *testing.T) {
	q := New()
	mustAdd(t, q, newTask("a"))
	mustAdd(t, q, newTask("b"))

	if _, err := q.Remove(1); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	c := mustAdd(t, q, newTask("c"))
	if c.ID != "t3" {
		t.Errorf("c.ID = %q, want t3", c.ID)
	}
}

func TestAdd_Validation(t *testing.T) {
	tests := []struct {
		name  string
		task  task.Task
		field string
	}{
		{"empty title", task.Task{Title: "", Importance: 5}, "title"},
		{"blank title", task.Task{Title: "   ", Importance: 5}, "title"},
		{"negative hours", task.Task{Title: "x", EstimatedHours: -1, Importance: 5}, "estimated_hours"},
		{"NaN hours", task.Task{Title: "x", EstimatedHours: math.NaN(), Importance: 5}, "estimated_hours"},
		{"importance zero", task.Task{Title: "x", Importance: 0}, "importance"},
		{"importance eleven", task.Task{Title: "x", Importance: 11}, "importance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := New()
			_, err := q.Add(tt.task)
			if err == nil {
				t.Fatal("expected an error")
			}
			var ve *errors.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
			if q.Len() != 0 {
				t.Errorf("queue should be unchanged, Len() = %d", q.Len())
			}
		})
	}
}

func TestAdd_DuplicateSuppliedID(t *testing.T) {
	q := New()
	mustAdd(t, q, newTask("a"))

	dup := newTask("b")
	dup.ID = "t1"
	_, err := q.Add(dup)

	var ve *errors.ValidationError
	if !errors.As(err, &ve) || ve.Field != "id" {
		t.Fatalf("expected ValidationError on id, got %v", err)
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}
}

func TestAdd_IsolatesCallerSlices(t *testing.T) {
	q := New()
	deps := []string{"t9"}
	tk := newTask("a")
	tk.Dependencies = deps
	mustAdd(t, q, tk)

	deps[0] = "mutated"
	if got := q.Tasks()[0].Dependencies[0]; got != "t9" {
		t.Errorf("stored dependency = %q, want t9", got)
	}

	snap := q.Tasks()
	snap[0].Dependencies[0] = "mutated"
	if got := q.Tasks()[0].Dependencies[0]; got != "t9" {
		t.Errorf("snapshot mutation leaked into queue: %q", got)
	}
}

func TestAdd_NilDependenciesBecomeEmpty(t *testing.T) {
	q := New()
	added := mustAdd(t, q, newTask("a"))
	if added.Dependencies == nil {
		t.Error("Dependencies should be an empty list, not nil")
	}
}

func TestRemove(t *testing.T) {
	q := New()
	for _, title := range []string{"a", "b", "c"} {
		mustAdd(t, q, newTask(title))
	}

	removed, err := q.Remove(1)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed.Title != "b" {
		t.Errorf("removed %q, want b", removed.Title)
	}

	got := q.Tasks()
	if len(got) != 2 || got[0].Title != "a" || got[1].Title != "c" {
		t.Errorf("remaining order = %+v, want a, c", got)
	}
}

func TestRemove_OutOfRange(t *testing.T) {
	q := New()
	mustAdd(t, q, newTask("a"))

	for _, idx := range []int{-1, 1, 5} {
		t.Run(fmt.Sprint(idx), func(t *testing.T) {
			_, err := q.Remove(idx)
			var ie *errors.IndexError
			if !errors.As(err, &ie) {
				t.Fatalf("expected IndexError, got %v", err)
			}
			if ie.Index != idx || ie.Length != 1 {
				t.Errorf("IndexError = %d/%d, want %d/1", ie.Index, ie.Length, idx)
			}
			if q.Len() != 1 {
				t.Errorf("queue should be unchanged")
			}
		})
	}
}

func TestRemoveByID(t *testing.T) {
	q := New()
	mustAdd(t, q, newTask("a"))
	mustAdd(t, q, newTask("b"))

	idx, removed, err := q.RemoveByID("t2")
	if err != nil {
		t.Fatalf("RemoveByID: %v", err)
	}
	if idx != 1 || removed.Title != "b" {
		t.Errorf("RemoveByID = %d, %q; want 1, b", idx, removed.Title)
	}

	_, _, err = q.RemoveByID("t2")
	if !errors.Is(err, errors.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestClear(t *testing.T) {
	q := New()

	_, err := q.Clear()
	if !errors.Is(err, errors.ErrPrecondition) || !errors.Is(err, errors.ErrEmptyQueue) {
		t.Fatalf("Clear on empty queue: got %v, want precondition/empty queue", err)
	}

	mustAdd(t, q, newTask("a"))
	mustAdd(t, q, newTask("b"))

	n, err := q.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 2 || !q.IsEmpty() {
		t.Errorf("Clear() = %d, IsEmpty() = %v; want 2, true", n, q.IsEmpty())
	}

	next := mustAdd(t, q, newTask("c"))
	if next.ID != "t3" {
		t.Errorf("id after clear = %q, want t3", next.ID)
	}
}

func TestGetAndLookup(t *testing.T) {
	q := New()
	mustAdd(t, q, newTask("a"))

	got, err := q.Get(0)
	if err != nil || got.Title != "a" {
		t.Errorf("Get(0) = %+v, %v", got, err)
	}
	if _, err := q.Get(1); !errors.Is(err, errors.ErrIndexOutOfRange) {
		t.Errorf("Get(1) error = %v, want ErrIndexOutOfRange", err)
	}

	if tk, ok := q.Lookup("t1"); !ok || tk.Title != "a" {
		t.Errorf("Lookup(t1) = %+v, %v", tk, ok)
	}
	if _, ok := q.Lookup("t7"); ok {
		t.Error("Lookup(t7) should miss")
	}
}

func TestAdd_UniqueIDsUnderConcurrency(t *testing.T) {
	q := New()
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = q.Add(newTask(fmt.Sprintf("task %d", i)))
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, tk := range q.Tasks() {
		if seen[tk.ID] {
			t.Fatalf("duplicate id %q", tk.ID)
		}
		seen[tk.ID] = true
	}
	if len(seen) != n {
		t.Errorf("got %d unique ids, want %d", len(seen), n)
	}
}
