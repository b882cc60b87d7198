package analysis

import (
	"time"

	"github.com/Iron-Ham/triage/internal/strategy"
	"github.com/Iron-Ham/triage/internal/task"
)

// State is the orchestrator's position in the request lifecycle.
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateSucceeded
	StateFailed
)

// String returns a lower-case name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is one successful analysis. Tasks are in rank order.
type Result struct {
	RunID       string            `json:"run_id"`
	Strategy    strategy.Strategy `json:"strategy"`
	CompletedAt time.Time         `json:"completed_at"`
	Tasks       []task.ScoredTask `json:"tasks"`
}

// clone returns a deep copy of r.
func (r *Result) clone() *Result {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Tasks = task.CloneScored(r.Tasks)
	return &cp
}
