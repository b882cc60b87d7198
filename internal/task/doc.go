// Package task defines the records that flow through triage: the locally
// authored [Task], the [ScoredTask] returned by the scoring service, and the
// calendar [Date] used for due dates.
//
// A Task is owned by the task queue until it is submitted; submission sends a
// copy. A ScoredTask is a Task enriched by the scoring service with a composite
// score, a priority label and a free-form explanation. Its rank is its position
// in the sequence the service returned.
package task
