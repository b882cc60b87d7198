package taskqueue

import "github.com/Iron-Ham/triage/internal/task"

// idPrefix prefixes sequentially assigned task ids.
const idPrefix = "t"

// RawRecord is a loosely-typed task as it appears in a bulk import, after
// coercion but before defaults are applied. Nil pointers mean the field was
// absent or null.
type RawRecord struct {
	ID             string
	Title          string
	DueDate        *task.Date
	EstimatedHours *float64
	Importance     *int
	Dependencies   []string
}

// HasTitle reports whether the record can become a task.
func (r RawRecord) HasTitle() bool {
	return r.Title != ""
}

// toTask applies defaults for absent fields. The id is left as supplied.
func (r RawRecord) toTask() task.Task {
	t := task.Task{
		ID:             r.ID,
		Title:          r.Title,
		EstimatedHours: task.DefaultEstimatedHours,
		Importance:     task.DefaultImportance,
		Dependencies:   []string{},
	}
	if r.DueDate != nil {
		d := *r.DueDate
		t.DueDate = &d
	}
	if r.EstimatedHours != nil {
		t.EstimatedHours = *r.EstimatedHours
	}
	if r.Importance != nil {
		t.Importance = *r.Importance
	}
	if len(r.Dependencies) > 0 {
		t.Dependencies = append(t.Dependencies, r.Dependencies...)
	}
	return t
}

// BulkLoadResult reports the outcome of [TaskQueue.BulkLoad].
type BulkLoadResult struct {
	// Received is the number of entries in the payload, including skipped ones.
	Received int `json:"received"`

	// Accepted is the number of tasks appended to the queue.
	Accepted int `json:"accepted"`

	// Skipped is the number of entries dropped for lacking a title.
	Skipped int `json:"skipped"`

	// Reassigned maps supplied ids that collided with a queued id to the
	// fresh id the task was given instead.
	Reassigned map[string]string `json:"reassigned,omitempty"`
}
