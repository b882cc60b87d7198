package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/triage/internal/analysis"
	"github.com/Iron-Ham/triage/internal/errors"
	"github.com/Iron-Ham/triage/internal/event"
	"github.com/Iron-Ham/triage/internal/present"
	"github.com/Iron-Ham/triage/internal/scorer"
	"github.com/Iron-Ham/triage/internal/strategy"
	"github.com/Iron-Ham/triage/internal/task"
	"github.com/Iron-Ham/triage/internal/taskqueue"
)

var today = task.NewDate(2025, 11, 20)

// stubAnalyzer returns the tasks it receives in queue order.
type stubAnalyzer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *stubAnalyzer) Endpoint() string { return "http://localhost:8000/api/tasks/analyze/" }

func (s *stubAnalyzer) Analyze(_ context.Context, st strategy.Strategy, tasks []task.Task) (*scorer.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]task.ScoredTask, len(tasks))
	for i, t := range tasks {
		out[i] = task.ScoredTask{Task: t, Score: 0.5, PriorityLabel: "High"}
	}
	return &scorer.Response{Strategy: st.String(), Count: len(out), Tasks: out}, nil
}

type harness struct {
	queue    *taskqueue.EventQueue
	orch     *analysis.Orchestrator
	selector *strategy.Selector
	stub     *stubAnalyzer
}

func newHarness(t *testing.T) (Model, *harness) {
	t.Helper()
	bus := event.NewBus()
	h := &harness{
		queue:    taskqueue.NewEventQueue(taskqueue.New(), bus),
		selector: strategy.NewSelector(strategy.SmartBalance),
		stub:     &stubAnalyzer{},
	}
	h.orch = analysis.New(h.queue, h.stub, h.selector)
	h.orch.Attach(bus)

	m := NewModel(Deps{
		Queue:    h.queue,
		Analysis: h.orch,
		Selector: h.selector,
		Today:    func() task.Date { return today },
	})
	return m, h
}

func (h *harness) addTasks(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if _, err := h.queue.Add(task.Task{Title: fmt.Sprintf("Task %d", i+1), EstimatedHours: 1, Importance: 5}); err != nil {
			t.Fatal(err)
		}
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func TestAddTaskThroughForm(t *testing.T) {
	m, h := newHarness(t)

	m, _ = update(t, m, runes("a"))
	if m.mode != modeAdd {
		t.Fatalf("mode = %v, want add", m.mode)
	}
	m, _ = update(t, m, runes("Write report"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, runes("2025-11-21"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeBrowse {
		t.Errorf("mode = %v, want browse after submit", m.mode)
	}
	tasks := h.queue.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Write report" {
		t.Fatalf("queue = %+v", tasks)
	}
	if tasks[0].DueDate == nil || tasks[0].DueDate.String() != "2025-11-21" {
		t.Errorf("DueDate = %v", tasks[0].DueDate)
	}
	if !strings.Contains(m.note.text, "added successfully") || m.note.isError {
		t.Errorf("note = %+v", m.note)
	}
}

func TestAddForm_ValidationKeepsForm(t *testing.T) {
	m, h := newHarness(t)

	m, _ = update(t, m, runes("a"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeAdd {
		t.Errorf("mode = %v, form should stay open on error", m.mode)
	}
	if !m.note.isError || !strings.Contains(m.note.text, "title is required") {
		t.Errorf("note = %+v", m.note)
	}
	if h.queue.Len() != 0 {
		t.Error("nothing should be queued")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeBrowse {
		t.Errorf("esc should close the form, mode = %v", m.mode)
	}
}

func TestAnalyze_EmptyQueue(t *testing.T) {
	m, h := newHarness(t)

	m, _ = update(t, m, runes("r"))

	if m.analyzing {
		t.Error("analysis should not start on an empty queue")
	}
	if !m.note.isError || m.note.text != "Add at least one task before analyzing." {
		t.Errorf("note = %+v", m.note)
	}
	if h.stub.calls != 0 {
		t.Errorf("service called %d times", h.stub.calls)
	}
}

func TestAnalyze_ShowsResults(t *testing.T) {
	m, h := newHarness(t)
	h.addTasks(t, 4)

	m, cmd := update(t, m, runes("r"))
	if !m.analyzing || cmd == nil {
		t.Fatalf("analyzing = %v, cmd = %v", m.analyzing, cmd)
	}
	m, _ = update(t, m, runes("r"))
	if h.stub.calls != 0 {
		t.Error("second trigger while analyzing should not start a request")
	}

	m, _ = update(t, m, cmd())
	if m.analyzing {
		t.Error("analyzing should be false after completion")
	}
	if len(m.shown) != 4 {
		t.Errorf("shown = %d tasks, want 4", len(m.shown))
	}
	if m.note.text != "Analysis complete. Showing all 4 tasks." {
		t.Errorf("note = %q", m.note.text)
	}
	if !strings.Contains(m.View(), "Rank #4") {
		t.Error("view should list ranks for more than three tasks")
	}
}

func TestAnalyzeTopOnly(t *testing.T) {
	m, h := newHarness(t)
	h.addTasks(t, 5)

	m, cmd := update(t, m, runes("T"))
	m, _ = update(t, m, cmd())

	if len(m.shown) != analysis.DefaultTopN {
		t.Errorf("shown = %d, want %d", len(m.shown), analysis.DefaultTopN)
	}
	if !strings.Contains(m.View(), "Suggestion #1") {
		t.Error("view should call a short list suggestions")
	}
}

func TestShowTop(t *testing.T) {
	m, h := newHarness(t)
	h.addTasks(t, 5)

	m, _ = update(t, m, runes("t"))
	if !m.note.isError || !strings.Contains(m.note.text, "run analysis first") {
		t.Errorf("note = %+v", m.note)
	}

	m, cmd := update(t, m, runes("r"))
	m, _ = update(t, m, cmd())
	m, _ = update(t, m, runes("t"))
	if len(m.shown) != 3 || m.shown[0].ID != "t1" {
		t.Errorf("shown = %+v", m.shown)
	}
	if h.stub.calls != 1 {
		t.Errorf("showing the top tasks should not call the service, calls = %d", h.stub.calls)
	}
}

func TestAnalyzeFailureKeepsShownResults(t *testing.T) {
	m, h := newHarness(t)
	h.addTasks(t, 2)

	m, cmd := update(t, m, runes("r"))
	m, _ = update(t, m, cmd())

	h.stub.mu.Lock()
	h.stub.err = errors.NewTransportError(h.stub.Endpoint(), fmt.Errorf("connection refused"))
	h.stub.mu.Unlock()

	m, cmd = update(t, m, runes("r"))
	m, _ = update(t, m, cmd())

	if !m.note.isError || !strings.Contains(m.note.text, "failed to reach scoring service") {
		t.Errorf("note = %+v", m.note)
	}
	if len(m.shown) != 2 {
		t.Errorf("previous results should stay visible, shown = %d", len(m.shown))
	}
}

func TestCycleStrategy(t *testing.T) {
	m, h := newHarness(t)

	m, _ = update(t, m, runes("s"))

	if h.selector.Current() != strategy.FastestWins {
		t.Errorf("Current() = %s, want fastest_wins", h.selector.Current())
	}
	if m.note.text != "Strategy: fastest_wins" {
		t.Errorf("note = %q", m.note.text)
	}
	if !strings.Contains(m.View(), strategy.FastestWins.Description()) {
		t.Error("header should describe the current strategy")
	}
}

func TestClearQueue(t *testing.T) {
	m, h := newHarness(t)

	m, _ = update(t, m, runes("c"))
	if m.mode != modeBrowse || m.note.text != "No tasks to clear." {
		t.Errorf("clearing an empty queue: mode = %v, note = %q", m.mode, m.note.text)
	}

	h.addTasks(t, 2)
	m, cmd := update(t, m, runes("r"))
	m, _ = update(t, m, cmd())

	m, _ = update(t, m, runes("c"))
	if m.mode != modeConfirmClear {
		t.Fatalf("mode = %v, want confirm", m.mode)
	}
	m, _ = update(t, m, runes("n"))
	if h.queue.Len() != 2 {
		t.Error("declining should keep the queue")
	}

	m, _ = update(t, m, runes("c"))
	m, _ = update(t, m, runes("y"))

	if h.queue.Len() != 0 {
		t.Errorf("queue Len() = %d, want 0", h.queue.Len())
	}
	if m.shown != nil || h.orch.HasResult() {
		t.Error("clearing should discard the analysis result")
	}
	if !strings.Contains(m.View(), present.Placeholder) {
		t.Error("view should show the placeholder after clearing")
	}
}

func TestRemoveSelected(t *testing.T) {
	m, h := newHarness(t)
	h.addTasks(t, 3)

	m, _ = update(t, m, runes("j"))
	m, _ = update(t, m, runes("j"))
	m, _ = update(t, m, runes("j"))
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", m.cursor)
	}

	m, _ = update(t, m, runes("d"))
	if h.queue.Len() != 2 || m.cursor != 1 {
		t.Errorf("Len() = %d, cursor = %d", h.queue.Len(), m.cursor)
	}
	if m.note.text != "Task removed." {
		t.Errorf("note = %q", m.note.text)
	}

	m, _ = update(t, m, runes("k"))
	m, _ = update(t, m, runes("x"))
	if tasks := h.queue.Tasks(); len(tasks) != 1 || tasks[0].ID != "t2" {
		t.Errorf("queue = %+v", tasks)
	}
}

func TestNotificationExpiry(t *testing.T) {
	m, _ := newHarness(t)

	m, _ = update(t, m, runes("s"))
	first := m.note.seq
	m, _ = update(t, m, runes("s"))

	m, _ = update(t, m, clearNotificationMsg{seq: first})
	if m.note.text == "" {
		t.Error("an older expiry should not clear a newer notification")
	}
	m, _ = update(t, m, clearNotificationMsg{seq: m.note.seq})
	if m.note.text != "" {
		t.Errorf("note = %q, want cleared", m.note.text)
	}
}

func TestView_Empty(t *testing.T) {
	m, _ := newHarness(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 40})

	v := m.View()
	for _, want := range []string{"Triage", present.EmptyQueue, present.Placeholder, "quit"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestQuit(t *testing.T) {
	m, _ := newHarness(t)
	m, cmd := update(t, m, runes("q"))
	if !m.quitting || cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command should produce tea.QuitMsg")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}
