package taskqueue

import (
	"strconv"
	"strings"

	"github.com/Iron-Ham/triage/internal/errors"
	"github.com/Iron-Ham/triage/internal/task"
)

// FormInput holds the text a user typed for a new task. Empty optional
// fields take the usual defaults.
type FormInput struct {
	Title        string
	DueDate      string // YYYY-MM-DD
	Hours        string
	Importance   string
	Dependencies string // comma separated ids
}

// ParseForm converts typed input into a task ready for [TaskQueue.Add].
// The id is left empty so that the queue assigns one.
func ParseForm(in FormInput) (task.Task, error) {
	t := task.Task{
		Title:          strings.TrimSpace(in.Title),
		EstimatedHours: task.DefaultEstimatedHours,
		Importance:     task.DefaultImportance,
		Dependencies:   ParseDependencies(in.Dependencies),
	}
	if t.Title == "" {
		return task.Task{}, errors.NewValidationError("title is required").WithField("title")
	}

	if s := strings.TrimSpace(in.DueDate); s != "" {
		d, err := task.ParseDate(s)
		if err != nil {
			return task.Task{}, errors.NewValidationError("due date must be YYYY-MM-DD").
				WithField("due_date").
				WithValue(s).
				WithCause(err)
		}
		t.DueDate = &d
	}

	if s := strings.TrimSpace(in.Hours); s != "" {
		h, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return task.Task{}, errors.NewValidationError("estimated hours must be a non-negative number").
				WithField("estimated_hours").
				WithValue(s)
		}
		t.EstimatedHours = h
	}

	if s := strings.TrimSpace(in.Importance); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return task.Task{}, errors.NewValidationError("importance must be between 1 and 10").
				WithField("importance").
				WithValue(s)
		}
		t.Importance = n
	}

	if err := t.Validate(); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// ParseDependencies splits a comma separated id list, dropping blanks.
func ParseDependencies(s string) []string {
	deps := []string{}
	for _, part := range strings.Split(s, ",") {
		if id := strings.TrimSpace(part); id != "" {
			deps = append(deps, id)
		}
	}
	return deps
}
