package explain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Iron-Ham/triage/internal/task"
)

// Reason tokens.
const (
	ReasonUrgentDeadline = "urgent deadline"
	ReasonShortTask      = "short task"
	ReasonHighImportance = "high importance"
	ReasonBlocksOthers   = "blocks other tasks"
)

const (
	balancedFactors      = "Recommended based on balanced factors."
	highImportanceCutoff = 8
	dueSoonMaxDays       = 3
)

// Justification is the human-readable reason a task was recommended.
type Justification struct {
	Reasons []string `json:"reasons"`
	Text    string   `json:"text"`
}

type reasonRule func(explanation string, st task.ScoredTask) (string, bool)

var (
	urgentPattern     = regexp.MustCompile(`(?i)overdue|due today`)
	dueInPattern      = regexp.MustCompile(`(?i)due in (\d+)\s*d`)
	shortTaskPattern  = regexp.MustCompile(`(?i)quick win|low-effort`)
	importantPattern  = regexp.MustCompile(`(?i)high importance`)
	dependentsPattern = regexp.MustCompile(`(?i)(\d+)\s+task\(s\)\s+depend`)
	dependOnThis      = regexp.MustCompile(`(?i)(no other tasks\s+)?depend on this`)
)

// reasonRules are evaluated in order; each contributes at most one reason.
var reasonRules = []reasonRule{
	matchReason(urgentPattern, ReasonUrgentDeadline),
	dueSoonReason,
	matchReason(shortTaskPattern, ReasonShortTask),
	highImportanceReason,
	blocksOthersReason,
}

func matchReason(re *regexp.Regexp, reason string) reasonRule {
	return func(explanation string, _ task.ScoredTask) (string, bool) {
		return reason, re.MatchString(explanation)
	}
}

func dueSoonReason(explanation string, _ task.ScoredTask) (string, bool) {
	m := dueInPattern.FindStringSubmatch(explanation)
	if m == nil {
		return "", false
	}
	days, err := strconv.Atoi(m[1])
	if err != nil || days > dueSoonMaxDays {
		return "", false
	}
	return fmt.Sprintf("due in %d day(s)", days), true
}

func highImportanceReason(explanation string, st task.ScoredTask) (string, bool) {
	return ReasonHighImportance, importantPattern.MatchString(explanation) || st.Importance >= highImportanceCutoff
}

// blocksOthersReason looks for a positive downstream signal. "No other tasks
// depend on this task" is a negative and does not count.
func blocksOthersReason(explanation string, _ task.ScoredTask) (string, bool) {
	if m := dependentsPattern.FindStringSubmatch(explanation); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return ReasonBlocksOthers, true
		}
	}
	for _, m := range dependOnThis.FindAllStringSubmatch(explanation, -1) {
		if m[1] == "" {
			return ReasonBlocksOthers, true
		}
	}
	return "", false
}

// Justify derives the recommendation reasons for st from its explanation
// and importance. It never fails.
func Justify(st task.ScoredTask) Justification {
	reasons := []string{}
	for _, rule := range reasonRules {
		if reason, ok := rule(st.Explanation, st); ok {
			reasons = append(reasons, reason)
		}
	}
	return Justification{Reasons: reasons, Text: JustificationText(reasons)}
}

// JustificationText renders reasons as a sentence.
func JustificationText(reasons []string) string {
	if len(reasons) == 0 {
		return balancedFactors
	}
	return balancedFactors + " Priority due to: " + strings.Join(reasons, ", ") + "."
}
