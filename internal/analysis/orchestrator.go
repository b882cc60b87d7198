package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/Iron-Ham/triage/internal/errors"
	"github.com/Iron-Ham/triage/internal/event"
	"github.com/Iron-Ham/triage/internal/logging"
	"github.com/Iron-Ham/triage/internal/scorer"
	"github.com/Iron-Ham/triage/internal/strategy"
	"github.com/Iron-Ham/triage/internal/task"
)

// DefaultTopN is the number of tasks shown when only the top results are
// requested.
const DefaultTopN = 3

// TaskSource supplies the tasks to analyze. *taskqueue.TaskQueue and
// *taskqueue.EventQueue both satisfy it.
type TaskSource interface {
	Tasks() []task.Task
}

// Orchestrator coordinates analysis requests and owns the latest result.
// All methods are safe for concurrent use: in the TUI the request runs on a
// command goroutine while the UI loop reads state.
type Orchestrator struct {
	mu         sync.Mutex
	source     TaskSource
	client     scorer.Analyzer
	selector   *strategy.Selector
	topN       int
	state      State
	result     *Result
	lastErr    error
	generation uint64 // bumped by Invalidate

	bus     *event.Bus
	subID   string
	logger  *logging.Logger
	metrics *instruments
	now     func() time.Time
	newID   func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTopN sets how many tasks Analyze returns when topNOnly is set.
func WithTopN(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.topN = n
		}
	}
}

// WithBus publishes analysis events on bus.
func WithBus(bus *event.Bus) Option {
	return func(o *Orchestrator) { o.bus = bus }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMeter records run metrics on meter instead of the global provider.
func WithMeter(m metric.Meter) Option {
	return func(o *Orchestrator) { o.metrics = newInstruments(m) }
}

// New creates an Orchestrator that analyzes the tasks from source with the
// strategy currently chosen in selector.
func New(source TaskSource, client scorer.Analyzer, selector *strategy.Selector, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		source:   source,
		client:   client,
		selector: selector,
		topN:     DefaultTopN,
		logger:   logging.NopLogger(),
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.metrics == nil {
		o.metrics = newInstruments(nil)
	}
	if o.selector == nil {
		o.selector = strategy.NewSelector(strategy.Default)
	}
	o.logger = o.logger.WithComponent("analysis")
	return o
}

// Attach subscribes the orchestrator to queue.cleared events on bus so that
// clearing the queue discards the stored result. Attaching again replaces
// the previous subscription.
func (o *Orchestrator) Attach(bus *event.Bus) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.bus != nil && o.subID != "" {
		o.bus.Unsubscribe(o.subID)
	}
	o.bus = bus
	o.subID = bus.Subscribe(event.TypeQueueCleared, func(event.Event) {
		o.Invalidate()
	})
}

// Detach removes the queue.cleared subscription, if any.
func (o *Orchestrator) Detach() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.bus != nil && o.subID != "" {
		o.bus.Unsubscribe(o.subID)
	}
	o.subID = ""
}

// Analyze sends the queued tasks to the scoring service and stores the
// ranked result on success. With topNOnly set, only the first N ranked
// tasks are returned; the full result is still stored.
//
// An empty queue fails with a PreconditionError before any request is made.
// So does a call while another request is in flight. Transport and service
// failures keep the previous result.
func (o *Orchestrator) Analyze(ctx context.Context, topNOnly bool) ([]task.ScoredTask, error) {
	o.mu.Lock()
	if o.state == StateRequesting {
		o.mu.Unlock()
		o.metrics.recordRejected(ctx, "in_flight")
		return nil, errors.NewPreconditionError("analyze", errors.ErrAnalysisInFlight)
	}
	tasks := o.source.Tasks()
	if len(tasks) == 0 {
		o.mu.Unlock()
		o.metrics.recordRejected(ctx, "empty_queue")
		return nil, errors.NewPreconditionError("analyze", errors.ErrEmptyQueue)
	}

	runID := o.newID()
	strat := o.selector.Current()
	gen := o.generation
	o.state = StateRequesting
	o.mu.Unlock()

	log := o.logger.WithRun(runID).WithStrategy(strat.String())
	log.Info("analysis started", "tasks", len(tasks), "endpoint", o.client.Endpoint())
	o.publish(event.NewAnalysisStartedEvent(runID, strat.String(), len(tasks)))

	start := o.now()
	resp, err := o.client.Analyze(ctx, strat, tasks)
	elapsed := o.now().Sub(start)

	o.mu.Lock()
	if err != nil {
		o.state = StateFailed
		o.lastErr = err
		o.mu.Unlock()

		o.metrics.recordRun(ctx, strat.String(), elapsed, 0, err)
		log.Error("analysis failed", "error", err.Error(), "duration_ms", elapsed.Milliseconds())
		o.publish(event.NewAnalysisFailedEvent(runID, err))
		return nil, err
	}

	if o.generation != gen {
		// The queue was cleared while the request was in flight; the
		// response ranks tasks that no longer exist.
		o.state = StateIdle
		o.mu.Unlock()

		stale := errors.NewPreconditionError("store analysis", errors.ErrQueueChanged)
		o.metrics.recordRun(ctx, strat.String(), elapsed, 0, stale)
		log.Warn("discarding analysis of cleared queue")
		o.publish(event.NewAnalysisFailedEvent(runID, stale))
		return nil, stale
	}

	o.result = &Result{
		RunID:       runID,
		Strategy:    strat,
		CompletedAt: o.now(),
		Tasks:       task.CloneScored(resp.Tasks),
	}
	o.state = StateSucceeded
	o.lastErr = nil
	out := o.result.Tasks
	if topNOnly {
		out = firstN(out, o.topN)
	}
	out = task.CloneScored(out)
	count := len(o.result.Tasks)
	o.mu.Unlock()

	o.metrics.recordRun(ctx, strat.String(), elapsed, count, nil)
	log.Info("analysis succeeded", "count", count, "duration_ms", elapsed.Milliseconds())
	o.publish(event.NewAnalysisSucceededEvent(runID, count, elapsed))
	return out, nil
}

// TopN returns the first n tasks of the stored result in rank order. A
// non-positive n selects the configured default. It fails with a
// PreconditionError when no successful analysis is stored.
func (o *Orchestrator) TopN(n int) ([]task.ScoredTask, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.result == nil {
		return nil, errors.NewPreconditionError("show top tasks", errors.ErrNoAnalysis)
	}
	if n <= 0 {
		n = o.topN
	}
	return task.CloneScored(firstN(o.result.Tasks, n)), nil
}

func firstN(tasks []task.ScoredTask, n int) []task.ScoredTask {
	if n >= len(tasks) {
		return tasks
	}
	return tasks[:n]
}

// Invalidate discards the stored result. A request that is in flight when
// Invalidate is called will not store its response.
func (o *Orchestrator) Invalidate() {
	o.mu.Lock()
	defer o.mu.Unlock()

	had := o.result != nil
	o.result = nil
	o.generation++
	if o.state != StateRequesting {
		o.state = StateIdle
	}
	if had {
		o.logger.Info("analysis result discarded")
	}
}

// Result returns a copy of the stored result.
func (o *Orchestrator) Result() (*Result, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.result == nil {
		return nil, false
	}
	return o.result.clone(), true
}

// HasResult reports whether a successful analysis is stored.
func (o *Orchestrator) HasResult() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result != nil
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// InFlight reports whether a request is running.
func (o *Orchestrator) InFlight() bool {
	return o.State() == StateRequesting
}

// LastError returns the error of the most recent failed request, or nil
// after a success.
func (o *Orchestrator) LastError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// TopNDefault returns the configured number of top tasks.
func (o *Orchestrator) TopNDefault() int {
	return o.topN
}

// Endpoint returns the scoring service URL requests are sent to.
func (o *Orchestrator) Endpoint() string {
	return o.client.Endpoint()
}

func (o *Orchestrator) publish(e event.Event) {
	o.mu.Lock()
	bus := o.bus
	o.mu.Unlock()
	if bus != nil {
		bus.Publish(e)
	}
}
