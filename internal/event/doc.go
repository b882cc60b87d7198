// Package event provides a synchronous pub-sub event bus that lets the task
// queue, the analysis orchestrator and the front ends (CLI and TUI) react to
// each other without direct dependencies.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub event dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// Queue events:
//   - [TaskAddedEvent]: a task was appended to the queue
//   - [TaskRemovedEvent]: a task was removed from the queue
//   - [QueueClearedEvent]: the queue was emptied; any analysis result is stale
//   - [BulkLoadedEvent]: a bulk import finished
//
// Analysis events:
//   - [AnalysisStartedEvent]: a request to the scoring service was sent
//   - [AnalysisSucceededEvent]: a ranked result replaced the stored one
//   - [AnalysisFailedEvent]: the request failed; the stored result is unchanged
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. Handlers are called synchronously
// on the publishing goroutine, so a handler must not publish back into the
// component that is publishing to it while holding that component's lock.
//
// # Usage
//
//	bus := event.NewBus()
//	bus.Subscribe(event.TypeQueueCleared, func(e event.Event) {
//	    orch.Invalidate()
//	})
package event
