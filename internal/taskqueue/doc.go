// Package taskqueue holds the local, insertion-ordered list of tasks that is
// submitted to the scoring service as one unit.
//
// The core type is [TaskQueue]. It validates tasks on [TaskQueue.Add], assigns
// sequential ids ("t1", "t2", ...) to tasks that arrive without one, and never
// hands out an id twice. Order matters only for display; ranking is done by the
// scoring service.
//
// Bulk imports go through [ParseBulk], which turns a JSON array or YAML
// sequence into permissive [RawRecord] values, and [TaskQueue.BulkLoad], which
// defaults and appends them. A payload that is not a list, or that holds a
// value which cannot be coerced, is rejected as a whole before anything is
// appended.
//
// [EventQueue] wraps a TaskQueue and publishes queue events on an event bus so
// that the analysis orchestrator can drop its result when the queue is cleared.
//
// Queue state can be persisted to disk between CLI invocations with
// [TaskQueue.SaveState] and [LoadState]. Writes are atomic and guarded by a
// flock(2) based [FileLock].
//
// Usage:
//
//	q := taskqueue.New()
//	t, err := q.Add(task.Task{Title: "Write report", EstimatedHours: 2, Importance: 7})
//
//	records, err := taskqueue.ParseBulk(data, taskqueue.FormatAuto, "tasks.json")
//	res := q.BulkLoad(records)
//	fmt.Printf("Loaded %d task(s)\n", res.Received)
package taskqueue
