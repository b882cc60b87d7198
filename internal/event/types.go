package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "queue.cleared").
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeTaskAdded         = "queue.task_added"
	TypeTaskRemoved       = "queue.task_removed"
	TypeQueueCleared      = "queue.cleared"
	TypeBulkLoaded        = "queue.bulk_loaded"
	TypeAnalysisStarted   = "analysis.started"
	TypeAnalysisSucceeded = "analysis.succeeded"
	TypeAnalysisFailed    = "analysis.failed"
)

// baseEvent provides common fields for all events.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Queue Events
// -----------------------------------------------------------------------------

// TaskAddedEvent is emitted after a task is appended to the queue.
type TaskAddedEvent struct {
	baseEvent
	TaskID   string
	Title    string
	QueueLen int
}

// NewTaskAddedEvent creates a TaskAddedEvent.
func NewTaskAddedEvent(taskID, title string, queueLen int) TaskAddedEvent {
	return TaskAddedEvent{
		baseEvent: newBaseEvent(TypeTaskAdded),
		TaskID:    taskID,
		Title:     title,
		QueueLen:  queueLen,
	}
}

// TaskRemovedEvent is emitted after a task is removed from the queue.
type TaskRemovedEvent struct {
	baseEvent
	TaskID   string
	Index    int
	QueueLen int
}

// NewTaskRemovedEvent creates a TaskRemovedEvent.
func NewTaskRemovedEvent(taskID string, index, queueLen int) TaskRemovedEvent {
	return TaskRemovedEvent{
		baseEvent: newBaseEvent(TypeTaskRemoved),
		TaskID:    taskID,
		Index:     index,
		QueueLen:  queueLen,
	}
}

// QueueClearedEvent is emitted after the queue is emptied. Subscribers that
// hold analysis results derived from the old queue must discard them.
type QueueClearedEvent struct {
	baseEvent
	Removed int
}

// NewQueueClearedEvent creates a QueueClearedEvent.
func NewQueueClearedEvent(removed int) QueueClearedEvent {
	return QueueClearedEvent{
		baseEvent: newBaseEvent(TypeQueueCleared),
		Removed:   removed,
	}
}

// BulkLoadedEvent is emitted after a bulk import is applied.
type BulkLoadedEvent struct {
	baseEvent
	Received int
	Accepted int
	QueueLen int
}

// NewBulkLoadedEvent creates a BulkLoadedEvent.
func NewBulkLoadedEvent(received, accepted, queueLen int) BulkLoadedEvent {
	return BulkLoadedEvent{
		baseEvent: newBaseEvent(TypeBulkLoaded),
		Received:  received,
		Accepted:  accepted,
		QueueLen:  queueLen,
	}
}

// -----------------------------------------------------------------------------
// Analysis Events
// -----------------------------------------------------------------------------

// AnalysisStartedEvent is emitted when a request is sent to the scoring service.
type AnalysisStartedEvent struct {
	baseEvent
	RunID     string
	Strategy  string
	TaskCount int
}

// NewAnalysisStartedEvent creates an AnalysisStartedEvent.
func NewAnalysisStartedEvent(runID, strategy string, taskCount int) AnalysisStartedEvent {
	return AnalysisStartedEvent{
		baseEvent: newBaseEvent(TypeAnalysisStarted),
		RunID:     runID,
		Strategy:  strategy,
		TaskCount: taskCount,
	}
}

// AnalysisSucceededEvent is emitted when a ranked result replaces the stored one.
type AnalysisSucceededEvent struct {
	baseEvent
	RunID       string
	ResultCount int
	Duration    time.Duration
}

// NewAnalysisSucceededEvent creates an AnalysisSucceededEvent.
func NewAnalysisSucceededEvent(runID string, resultCount int, duration time.Duration) AnalysisSucceededEvent {
	return AnalysisSucceededEvent{
		baseEvent:   newBaseEvent(TypeAnalysisSucceeded),
		RunID:       runID,
		ResultCount: resultCount,
		Duration:    duration,
	}
}

// AnalysisFailedEvent is emitted when an analysis request fails. The stored
// result is left as it was.
type AnalysisFailedEvent struct {
	baseEvent
	RunID string
	Err   error
}

// NewAnalysisFailedEvent creates an AnalysisFailedEvent.
func NewAnalysisFailedEvent(runID string, err error) AnalysisFailedEvent {
	return AnalysisFailedEvent{
		baseEvent: newBaseEvent(TypeAnalysisFailed),
		RunID:     runID,
		Err:       err,
	}
}
