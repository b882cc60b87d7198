package present

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/triage/internal/explain"
	"github.com/Iron-Ham/triage/internal/tui/styles"
	"github.com/Iron-Ham/triage/internal/util"
)

// Format selects a renderer.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat returns the format named by s. The empty string selects text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text or json)", s)
}

// Renderer writes views to a terminal or a pipe.
type Renderer struct {
	// Format selects text or JSON output.
	Format Format
	// Plain drops colors and borders from text output.
	Plain bool
	// Width caps the width of text output. Zero means unbounded.
	Width int
}

// Recommendations writes r.
func (rd Renderer) Recommendations(w io.Writer, r Recommendations) error {
	if rd.Format == FormatJSON {
		return writeJSON(w, r)
	}
	return rd.writeText(w, rd.RecommendationsText(r))
}

// Queue writes v.
func (rd Renderer) Queue(w io.Writer, v QueueView) error {
	if rd.Format == FormatJSON {
		return writeJSON(w, v)
	}
	return rd.writeText(w, rd.QueueText(v))
}

// RecommendationsText returns the styled text form of r.
func (rd Renderer) RecommendationsText(r Recommendations) string {
	if r.Empty() {
		return styles.Placeholder.Render(Placeholder)
	}

	blocks := make([]string, 0, len(r.Cards)+1)
	if r.Strategy != "" {
		blocks = append(blocks, styles.Subtitle.Render("Strategy: "+r.Strategy))
	}
	for _, c := range r.Cards {
		blocks = append(blocks, rd.card(c))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (rd Renderer) card(c Card) string {
	var b strings.Builder

	header := styles.CardRank.Render(c.RankPhrase+":") + " " + styles.CardTitle.Render(c.Title)
	badge := styles.PriorityBadge(c.PriorityClass).Render(c.PriorityLabel + " Priority")
	b.WriteString(header + "  " + badge + "\n")
	b.WriteString("Priority Score: " + explain.FormatMetric(c.Metrics.Overall) + "\n")
	b.WriteString(styles.Justification.Render(c.Justification.Text) + "\n")
	b.WriteString(metricsLine(c.Metrics) + "\n")
	b.WriteString(styles.Muted.Render(fmt.Sprintf("Due: %s  Effort: %s  Importance: %d/10",
		c.Due, util.FormatHours(c.Hours), c.Importance)))
	for _, warn := range c.Warnings {
		b.WriteString("\n" + styles.WarningMsg.Render("! "+warn))
	}

	body := b.String()
	if rd.Width > 0 {
		body = truncateLines(body, rd.Width-4)
	}
	if rd.Plain {
		return body + "\n"
	}
	return styles.Card.BorderForeground(styles.PriorityColor(c.PriorityClass)).Render(body)
}

func metricsLine(m explain.Metrics) string {
	pairs := []struct {
		label string
		value float64
	}{
		{"OVERALL", m.Overall},
		{"URGENCY", m.Urgency},
		{"IMPORTANCE", m.Importance},
		{"EFFORT", m.Effort},
		{"DEPENDENCY", m.Dependency},
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = styles.Muted.Render(p.label+":") + " " + styles.MetricValue.Render(explain.FormatMetric(p.value))
	}
	return strings.Join(parts, "  ")
}

// QueueText returns the styled text form of v.
func (rd Renderer) QueueText(v QueueView) string {
	if v.Count == 0 {
		return styles.Placeholder.Render(EmptyQueue)
	}

	lines := make([]string, 0, len(v.Entries)*2+1)
	lines = append(lines, styles.Title.Render(util.Plural(v.Count, "task")+" queued"))
	for _, e := range v.Entries {
		head := fmt.Sprintf("%2d. [%s] %s", e.Position, e.ID, e.Title)
		detail := fmt.Sprintf("    Due: %s  Hours: %s  Importance: %d/10",
			e.Due, util.FormatHours(e.Hours), e.Importance)
		if len(e.Dependencies) > 0 {
			detail += "  Depends on: " + strings.Join(e.Dependencies, ", ")
		}
		if e.Blocks > 0 {
			detail += "  Blocks: " + util.Plural(e.Blocks, "task")
		}
		lines = append(lines, styles.Text.Render(head), styles.Muted.Render(detail))
		if len(e.Unknown) > 0 {
			lines = append(lines, styles.WarningMsg.Render("    unknown dependencies: "+strings.Join(e.Unknown, ", ")))
		}
		if e.InCycle {
			lines = append(lines, styles.WarningMsg.Render("    part of a dependency cycle"))
		}
	}

	out := strings.Join(lines, "\n")
	if rd.Width > 0 {
		out = truncateLines(out, rd.Width)
	}
	return out
}

func (rd Renderer) writeText(w io.Writer, s string) error {
	if rd.Plain {
		s = ansi.Strip(s)
	}
	_, err := io.WriteString(w, s+"\n")
	return err
}

func truncateLines(s string, width int) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = util.Truncate(l, width)
	}
	return strings.Join(lines, "\n")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
