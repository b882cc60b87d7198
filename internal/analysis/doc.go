// Package analysis drives one round trip to the scoring service and owns the
// most recent successful result.
//
// An [Orchestrator] moves through Idle, Requesting, and then Succeeded or
// Failed. Only one request may be in flight; a second call to
// [Orchestrator.Analyze] while Requesting is rejected rather than queued.
// A success replaces the stored result wholesale. A failure leaves the
// previous result untouched so the last good ranking stays visible.
//
// [Orchestrator.TopN] slices the stored result in the order the service
// returned it; it never re-sorts. Clearing the task queue discards the
// stored result: attach the orchestrator to the event bus with
// [Orchestrator.Attach] and it drops the result on every queue.cleared
// event.
//
// Results can be saved to and loaded from the state directory so that the
// CLI can run "analyze" and "top" as separate invocations.
package analysis
