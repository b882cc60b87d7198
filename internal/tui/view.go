package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/triage/internal/present"
	"github.com/Iron-Ham/triage/internal/tui/styles"
	"github.com/Iron-Ham/triage/internal/util"
)

// minSideBySideWidth is the terminal width from which the queue and the
// recommendations are drawn next to each other.
const minSideBySideWidth = 110

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.headerView()}
	switch m.mode {
	case modeAdd:
		sections = append(sections, m.form.view())
	default:
		sections = append(sections, m.bodyView())
	}
	if m.mode == modeConfirmClear {
		sections = append(sections, styles.ConfirmBanner.Render("Clear all tasks? (y/n)"))
	}
	if m.note.text != "" {
		sections = append(sections, styles.NotificationStyle(m.note.isError).Render(m.note.text))
	}
	sections = append(sections, m.helpView())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) headerView() string {
	s := m.selector.Current()
	title := styles.Title.Render("Triage")
	strat := styles.Primary.Render(s.String()) + " " + styles.Subtitle.Render(s.Description())
	if m.width > 0 {
		strat = util.Truncate(strat, m.width)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, "Strategy: "+strat)
}

func (m Model) bodyView() string {
	queue := m.queueView()
	recs := m.recommendationsView()
	if m.width >= minSideBySideWidth {
		return lipgloss.JoinHorizontal(lipgloss.Top, queue, " ", recs)
	}
	return lipgloss.JoinVertical(lipgloss.Left, queue, recs)
}

func (m Model) panelWidth() int {
	if m.width >= minSideBySideWidth {
		return m.width/2 - 2
	}
	return m.width
}

func (m Model) queueView() string {
	tasks := m.queue.Tasks()
	today := m.today()

	var b strings.Builder
	b.WriteString(styles.Title.Render(fmt.Sprintf("Queue (%s)", util.Plural(len(tasks), "task"))) + "\n")
	if len(tasks) == 0 {
		b.WriteString(styles.Placeholder.Render(present.EmptyQueue + "\nPress a to add a task"))
		return styles.Panel.Render(b.String())
	}

	v := present.BuildQueue(tasks, present.DepsOf(m.queue.Queue()), today)
	for i, e := range v.Entries {
		line := fmt.Sprintf("[%s] %s  due %s  %s  imp %d/10",
			e.ID, e.Title, e.Due, util.FormatHours(e.Hours), e.Importance)
		if e.InCycle {
			line += "  (cycle)"
		}
		if w := m.panelWidth(); w > 6 {
			line = util.Truncate(line, w-6)
		}
		if i == m.cursor {
			b.WriteString(styles.QueueItemSelected.Render(line))
		} else {
			b.WriteString(styles.QueueItem.Render(line))
		}
		if i < len(v.Entries)-1 {
			b.WriteString("\n")
		}
	}
	return styles.Panel.Render(b.String())
}

func (m Model) recommendationsView() string {
	title := "Recommendations"
	if m.analyzing {
		title += " (analyzing...)"
	}
	recs := present.BuildRecommendations(m.shown, m.today())
	rd := present.Renderer{Width: m.panelWidth()}
	return lipgloss.JoinVertical(lipgloss.Left, styles.Title.Render(title), rd.RecommendationsText(recs))
}

func (m Model) helpView() string {
	var keys []string
	switch m.mode {
	case modeAdd:
		return ""
	case modeConfirmClear:
		keys = []string{"y", "confirm", "n", "cancel"}
	default:
		keys = []string{
			"a", "add", "d", "remove", "c", "clear",
			"r", "analyze", "T", "analyze top", "t", "top",
			"s", "strategy", "q", "quit",
		}
	}

	parts := make([]string, 0, len(keys)/2)
	for i := 0; i < len(keys); i += 2 {
		parts = append(parts, styles.HelpKey.Render(keys[i])+" "+keys[i+1])
	}
	return styles.HelpBar.Render(strings.Join(parts, "  "))
}
