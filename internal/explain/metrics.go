package explain

import (
	"math"
	"regexp"
	"strconv"

	"github.com/Iron-Ham/triage/internal/task"
)

// Source records which tier produced a sub-score.
type Source string

const (
	// FromExplanation means a pattern in the explanation text matched.
	FromExplanation Source = "explanation"
	// FromHeuristic means the value was computed from task fields.
	FromHeuristic Source = "heuristic"
)

// Metrics are the reconstructed sub-scores of one scored task. Every value
// except Overall is clamped to [0, 100]; all are rounded to one decimal.
type Metrics struct {
	Overall    float64 `json:"overall"`
	Urgency    float64 `json:"urgency"`
	Importance float64 `json:"importance"`
	Effort     float64 `json:"effort"`
	Dependency float64 `json:"dependency"`

	UrgencySource    Source `json:"urgency_source"`
	EffortSource     Source `json:"effort_source"`
	DependencySource Source `json:"dependency_source"`
}

// Heuristic constants.
const (
	urgencyOverdue   = 100
	urgencyDueToday  = 95
	urgencyWithin3   = 85
	urgencyWithin7   = 70
	urgencyDefault   = 50
	effortPerHour    = 10
	effortFloor      = 10
	dependencyBase   = 30
	dependencyPerDep = 20
	dependencyNone   = 10
)

// number matches a decimal such as "0.85", "12" or ".5". A sentence period
// right after the digits is left out of the capture.
const number = `(\d+(?:\.\d+)?|\.\d+)`

// rule is one row of a tier-1 table: a pattern and a conversion of its
// first capture group into a 0-100 value.
type rule struct {
	pattern *regexp.Regexp
	convert func(capture string) (float64, bool)
}

var (
	urgencyRules = []rule{
		{regexp.MustCompile(`(?i)urgency.*?score[:\s]+` + number), scaledFraction},
	}
	effortRules = []rule{
		{regexp.MustCompile(`(?i)effort.*?score[:\s]+` + number), scaledFraction},
	}
	dependencyRules = []rule{
		{regexp.MustCompile(`(?i)(\d+)\s+task\(s\)\s+depend`), dependentCount},
	}
)

// firstMatch runs rules in order and returns the first converted value.
func firstMatch(rules []rule, text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, ok := r.convert(m[1]); ok {
			return v, true
		}
	}
	return 0, false
}

// scaledFraction reads a 0-1 fraction and scales it to 0-100.
func scaledFraction(capture string) (float64, bool) {
	f, err := strconv.ParseFloat(capture, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f * 100, true
}

// dependentCount converts "N task(s) depend" into dependency pressure.
func dependentCount(capture string) (float64, bool) {
	n, err := strconv.Atoi(capture)
	if err != nil {
		return 0, false
	}
	return math.Min(100, dependencyBase+float64(n)*dependencyPerDep), true
}

// Reconstruct computes the metrics for st. today is the reference date for
// the urgency heuristic. Reconstruct never fails; absent or unrecognised
// explanation text falls back to heuristics.
func Reconstruct(st task.ScoredTask, today task.Date) Metrics {
	m := Metrics{
		Overall:    round1(st.Score * 100),
		Importance: normalize(float64(st.Importance) / 10 * 100),
	}

	if v, ok := firstMatch(urgencyRules, st.Explanation); ok {
		m.Urgency, m.UrgencySource = normalize(v), FromExplanation
	} else {
		m.Urgency, m.UrgencySource = normalize(UrgencyHeuristic(st.DueDate, today)), FromHeuristic
	}

	if v, ok := firstMatch(effortRules, st.Explanation); ok {
		m.Effort, m.EffortSource = normalize(v), FromExplanation
	} else {
		m.Effort, m.EffortSource = normalize(EffortHeuristic(st.EstimatedHours)), FromHeuristic
	}

	if v, ok := firstMatch(dependencyRules, st.Explanation); ok {
		m.Dependency, m.DependencySource = normalize(v), FromExplanation
	} else {
		m.Dependency, m.DependencySource = dependencyNone, FromHeuristic
	}

	return m
}

// UrgencyHeuristic scores a due date by calendar days remaining from today.
func UrgencyHeuristic(due *task.Date, today task.Date) float64 {
	if due == nil || due.IsZero() {
		return urgencyDefault
	}
	switch days := due.DaysSince(today); {
	case days < 0:
		return urgencyOverdue
	case days == 0:
		return urgencyDueToday
	case days <= 3:
		return urgencyWithin3
	case days <= 7:
		return urgencyWithin7
	default:
		return urgencyDefault
	}
}

// EffortHeuristic favours short tasks: 100 minus ten per hour, floored at 10.
func EffortHeuristic(hours float64) float64 {
	if math.IsNaN(hours) {
		return effortFloor
	}
	return clamp(100-hours*effortPerHour, effortFloor, 100)
}

// FormatMetric renders a metric with exactly one decimal place.
func FormatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func normalize(v float64) float64 {
	return round1(clamp(v, 0, 100))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*10) / 10
}
