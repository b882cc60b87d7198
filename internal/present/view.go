package present

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Iron-Ham/triage/internal/explain"
	"github.com/Iron-Ham/triage/internal/task"
)

// Placeholder is shown when there is nothing to recommend.
const Placeholder = "Run analysis to see recommendations"

// shortListMax is the longest sequence whose entries are called suggestions
// rather than ranks.
const shortListMax = 3

// Priority classes.
const (
	ClassHigh   = "high"
	ClassMedium = "medium"
	ClassLow    = "low"
)

const (
	untitled     = "Untitled Task"
	defaultLabel = "Medium"
	notSet       = "Not set"
)

// Card is the display form of one ranked task.
type Card struct {
	Rank          int                   `json:"rank"`
	RankPhrase    string                `json:"rank_phrase"`
	ID            string                `json:"id"`
	Title         string                `json:"title"`
	PriorityLabel string                `json:"priority_label"`
	PriorityClass string                `json:"priority_class"`
	Score         float64               `json:"score"`
	Metrics       explain.Metrics       `json:"metrics"`
	Justification explain.Justification `json:"justification"`
	Due           string                `json:"due"`
	Hours         float64               `json:"estimated_hours"`
	Importance    int                   `json:"importance"`
	Warnings      []string              `json:"warnings,omitempty"`
}

// Recommendations is the display form of a ranked sequence.
type Recommendations struct {
	Strategy string `json:"strategy,omitempty"`
	Cards    []Card `json:"cards"`
	// Placeholder is set instead of Cards when the sequence is empty.
	Placeholder string `json:"placeholder,omitempty"`
}

// Empty reports whether there is nothing to show.
func (r Recommendations) Empty() bool {
	return len(r.Cards) == 0
}

// BuildRecommendations computes the view of ranked, relative to today.
// Cards keep the order of ranked.
func BuildRecommendations(ranked []task.ScoredTask, today task.Date) Recommendations {
	if len(ranked) == 0 {
		return Recommendations{Cards: []Card{}, Placeholder: Placeholder}
	}

	short := len(ranked) <= shortListMax
	cards := make([]Card, len(ranked))
	for i, st := range ranked {
		cards[i] = buildCard(st, i+1, short, today)
	}
	return Recommendations{Cards: cards}
}

func buildCard(st task.ScoredTask, rank int, short bool, today task.Date) Card {
	title := st.Title
	if strings.TrimSpace(title) == "" {
		title = untitled
	}
	label := strings.TrimSpace(st.PriorityLabel)
	if label == "" {
		label = defaultLabel
	}

	c := Card{
		Rank:          rank,
		RankPhrase:    RankPhrase(rank, short),
		ID:            st.ID,
		Title:         title,
		PriorityLabel: cases.Title(language.English).String(label),
		PriorityClass: PriorityClass(st.PriorityLabel),
		Score:         st.Score,
		Metrics:       explain.Reconstruct(st, today),
		Justification: explain.Justify(st),
		Due:           FormatDue(st.DueDate, today),
		Hours:         st.EstimatedHours,
		Importance:    st.Importance,
	}
	if len(st.Warnings) > 0 {
		c.Warnings = append([]string(nil), st.Warnings...)
	}
	return c
}

// RankPhrase returns "Suggestion #k" for entries of a short list and
// "Rank #k" otherwise.
func RankPhrase(rank int, short bool) string {
	if short {
		return "Suggestion #" + strconv.Itoa(rank)
	}
	return "Rank #" + strconv.Itoa(rank)
}

// PriorityClass maps a service label to high, low or medium. Anything that
// is not high or low, including an empty label, is medium.
func PriorityClass(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case ClassHigh:
		return ClassHigh
	case ClassLow:
		return ClassLow
	default:
		return ClassMedium
	}
}

// FormatDue renders a due date, noting when it is today or tomorrow.
func FormatDue(due *task.Date, today task.Date) string {
	if due == nil || due.IsZero() {
		return notSet
	}
	s := due.String()
	switch due.DaysSince(today) {
	case 0:
		return s + " (Due today)"
	case 1:
		return s + " (Due tomorrow)"
	}
	return s
}
