package task

import (
	"math"
	"strings"

	"github.com/Iron-Ham/triage/internal/errors"
)

// Field bounds and defaults applied to locally authored tasks.
const (
	MinImportance         = 1
	MaxImportance         = 10
	DefaultImportance     = 5
	DefaultEstimatedHours = 1.0
)

// Task is a locally authored unit of work awaiting prioritization.
type Task struct {
	// ID is unique within the queue. Assigned sequentially when not supplied.
	ID string `json:"id"`

	// Title is the human-readable name. Never empty for a queued task.
	Title string `json:"title"`

	// DueDate is optional.
	DueDate *Date `json:"due_date"`

	// EstimatedHours is the expected effort in hours, non-negative.
	EstimatedHours float64 `json:"estimated_hours"`

	// Importance is a 1-10 rating.
	Importance int `json:"importance"`

	// Dependencies lists the ids of tasks this task depends on. They may
	// reference tasks that are not in the queue.
	Dependencies []string `json:"dependencies"`
}

// Validate checks the fields a caller controls when adding a task.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return errors.NewValidationError("title is required").WithField("title")
	}
	if math.IsNaN(t.EstimatedHours) || math.IsInf(t.EstimatedHours, 0) || t.EstimatedHours < 0 {
		return errors.NewValidationError("estimated hours must be a non-negative number").
			WithField("estimated_hours").
			WithValue(t.EstimatedHours)
	}
	if t.Importance < MinImportance || t.Importance > MaxImportance {
		return errors.NewValidationError("importance must be between 1 and 10").
			WithField("importance").
			WithValue(t.Importance)
	}
	return nil
}

// Clone returns a deep copy of t. Dependencies are never nil in the copy so
// that the wire form is always a list.
func (t Task) Clone() Task {
	cp := t
	if t.DueDate != nil {
		d := *t.DueDate
		cp.DueDate = &d
	}
	cp.Dependencies = make([]string, len(t.Dependencies))
	copy(cp.Dependencies, t.Dependencies)
	return cp
}

// HasDueDate reports whether the task carries a due date.
func (t Task) HasDueDate() bool {
	return t.DueDate != nil && !t.DueDate.IsZero()
}

// ScoredTask is a Task enriched by the scoring service. Its rank is its
// 1-based position in the sequence the service returned.
type ScoredTask struct {
	Task

	// Score is the composite priority. Expected in 0.0-1.0 but not bounded.
	Score float64 `json:"score"`

	// PriorityLabel is one of a small open set ("High", "Medium", "Low"),
	// compared case-insensitively.
	PriorityLabel string `json:"priority_label"`

	// Explanation is free-form text whose structure is not guaranteed.
	Explanation string `json:"explanation"`

	// Warnings are advisory notes from the service (missing due date,
	// circular dependency, clamped values).
	Warnings []string `json:"warnings,omitempty"`
}

// CloneScored returns a deep copy of a scored sequence.
func CloneScored(in []ScoredTask) []ScoredTask {
	if in == nil {
		return nil
	}
	out := make([]ScoredTask, len(in))
	for i, st := range in {
		out[i] = st
		out[i].Task = st.Task.Clone()
		if st.Warnings != nil {
			out[i].Warnings = append([]string(nil), st.Warnings...)
		}
	}
	return out
}
