package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/triage/internal/analysis"
	"github.com/Iron-Ham/triage/internal/task"
)

// analysisDoneMsg carries the outcome of an analysis command.
type analysisDoneMsg struct {
	tasks   []task.ScoredTask
	err     error
	topOnly bool
}

// clearNotificationMsg expires the notification with the given sequence
// number. Newer notifications are left alone.
type clearNotificationMsg struct {
	seq int
}

// analyzeCmd runs one analysis request off the UI loop.
func analyzeCmd(orch *analysis.Orchestrator, topOnly bool) tea.Cmd {
	return func() tea.Msg {
		tasks, err := orch.Analyze(context.Background(), topOnly)
		return analysisDoneMsg{tasks: tasks, err: err, topOnly: topOnly}
	}
}

// expireNotification clears notification seq after ttl.
func expireNotification(seq int, ttl time.Duration) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return clearNotificationMsg{seq: seq}
	})
}
