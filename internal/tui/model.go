package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/triage/internal/analysis"
	"github.com/Iron-Ham/triage/internal/errors"
	"github.com/Iron-Ham/triage/internal/logging"
	"github.com/Iron-Ham/triage/internal/strategy"
	"github.com/Iron-Ham/triage/internal/task"
	"github.com/Iron-Ham/triage/internal/taskqueue"
	"github.com/Iron-Ham/triage/internal/util"
)

// DefaultNotificationTTL is how long a notification stays visible when the
// caller does not configure it.
const DefaultNotificationTTL = 4 * time.Second

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeConfirmClear
)

// notification is a transient feedback line.
type notification struct {
	text    string
	isError bool
	seq     int
}

// Deps are the components the model drives.
type Deps struct {
	Queue    *taskqueue.EventQueue
	Analysis *analysis.Orchestrator
	Selector *strategy.Selector
	Logger   *logging.Logger
	// NotificationTTL defaults to DefaultNotificationTTL.
	NotificationTTL time.Duration
	// Today defaults to task.Today.
	Today func() task.Date
}

// Model is the bubbletea model of the triage UI.
type Model struct {
	queue    *taskqueue.EventQueue
	orch     *analysis.Orchestrator
	selector *strategy.Selector
	logger   *logging.Logger
	noteTTL  time.Duration
	today    func() task.Date

	mode   mode
	form   addForm
	cursor int

	// shown is the presented ranked sequence; nil shows the placeholder.
	shown     []task.ScoredTask
	analyzing bool
	note      notification
	noteSeq   int

	width    int
	height   int
	quitting bool
}

// NewModel creates the model. A stored analysis result, if any, is shown
// right away.
func NewModel(d Deps) Model {
	m := Model{
		queue:    d.Queue,
		orch:     d.Analysis,
		selector: d.Selector,
		logger:   d.Logger,
		noteTTL:  d.NotificationTTL,
		today:    d.Today,
		form:     newAddForm(),
	}
	if m.noteTTL <= 0 {
		m.noteTTL = DefaultNotificationTTL
	}
	if m.today == nil {
		m.today = task.Today
	}
	if m.logger == nil {
		m.logger = logging.NopLogger()
	}
	m.logger = m.logger.WithComponent("tui")
	if m.selector == nil {
		m.selector = strategy.NewSelector(strategy.Default)
	}
	if r, ok := m.orch.Result(); ok {
		m.shown = r.Tasks
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case analysisDoneMsg:
		return m.handleAnalysisDone(msg)

	case clearNotificationMsg:
		if msg.seq == m.note.seq {
			m.note = notification{}
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd:
			return m.handleFormKey(msg)
		case modeConfirmClear:
			return m.handleConfirmKey(msg)
		default:
			return m.handleBrowseKey(msg)
		}
	}

	if m.mode == modeAdd {
		cmd := m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "a":
		m.mode = modeAdd
		m.form = newAddForm()
		return m, textinput.Blink
	case "j", "down":
		if m.cursor < m.queue.Len()-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "d", "x":
		return m.removeSelected()
	case "c":
		if m.queue.IsEmpty() {
			return m.notifyError("No tasks to clear.")
		}
		m.mode = modeConfirmClear
	case "r":
		return m.startAnalysis(false)
	case "T":
		return m.startAnalysis(true)
	case "t":
		return m.showTop()
	case "s":
		s := m.selector.Cycle()
		m.logger.Info("strategy changed", "strategy", s.String())
		return m.notify(fmt.Sprintf("Strategy: %s", s))
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.form.next(1)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.form.next(-1)
		return m, nil
	case tea.KeyEnter:
		return m.submitForm()
	}
	cmd := m.form.update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeBrowse
		return m.clearQueue()
	case "n", "N", "esc":
		m.mode = modeBrowse
	}
	return m, nil
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	t, err := m.form.parse()
	if err != nil {
		return m.notifyError(errors.UserMessage(err))
	}
	added, err := m.queue.Add(t)
	if err != nil {
		return m.notifyError(errors.UserMessage(err))
	}
	m.mode = modeBrowse
	m.cursor = m.queue.Len() - 1
	return m.notify(fmt.Sprintf("Task %q added successfully.", added.Title))
}

func (m Model) removeSelected() (tea.Model, tea.Cmd) {
	if m.queue.IsEmpty() {
		return m, nil
	}
	if _, err := m.queue.Remove(m.cursor); err != nil {
		return m.notifyError(errors.UserMessage(err))
	}
	if m.cursor >= m.queue.Len() && m.cursor > 0 {
		m.cursor--
	}
	return m.notify("Task removed.")
}

func (m Model) clearQueue() (tea.Model, tea.Cmd) {
	n, err := m.queue.Clear()
	if err != nil {
		return m.notifyError(errors.UserMessage(err))
	}
	m.cursor = 0
	m.shown = nil
	m.logger.Info("queue cleared", "removed", n)
	return m.notify("All tasks cleared.")
}

func (m Model) startAnalysis(topOnly bool) (tea.Model, tea.Cmd) {
	if m.analyzing {
		return m, nil
	}
	if m.queue.IsEmpty() {
		return m.notifyError("Add at least one task before analyzing.")
	}
	m.analyzing = true
	m.noteSeq++
	m.note = notification{text: "Analyzing tasks...", seq: m.noteSeq}
	return m, analyzeCmd(m.orch, topOnly)
}

func (m Model) handleAnalysisDone(msg analysisDoneMsg) (tea.Model, tea.Cmd) {
	m.analyzing = false
	if msg.err != nil {
		if errors.Is(msg.err, errors.ErrQueueChanged) {
			return m.notifyError("The queue was cleared during analysis; results discarded.")
		}
		return m.notifyError(errors.UserMessage(msg.err))
	}

	m.shown = msg.tasks
	if msg.topOnly {
		return m.notify(fmt.Sprintf("Analysis complete. Showing top %d recommendations.", m.orch.TopNDefault()))
	}
	return m.notify(fmt.Sprintf("Analysis complete. Showing all %s.", util.Plural(len(msg.tasks), "task")))
}

func (m Model) showTop() (tea.Model, tea.Cmd) {
	n := m.orch.TopNDefault()
	top, err := m.orch.TopN(n)
	if err != nil {
		return m.notifyError(fmt.Sprintf("Please run analysis first to see top %d recommendations.", n))
	}
	m.shown = top
	return m.notify(fmt.Sprintf("Showing top %d recommendations.", n))
}

func (m Model) notify(text string) (tea.Model, tea.Cmd) {
	return m.setNote(text, false)
}

func (m Model) notifyError(text string) (tea.Model, tea.Cmd) {
	return m.setNote(text, true)
}

func (m Model) setNote(text string, isError bool) (tea.Model, tea.Cmd) {
	m.noteSeq++
	m.note = notification{text: text, isError: isError, seq: m.noteSeq}
	return m, expireNotification(m.noteSeq, m.noteTTL)
}
