package analysis

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/Iron-Ham/triage/internal/analysis"

// Outcome attribute values recorded on every run.
const (
	outcomeSuccess  = "success"
	outcomeFailure  = "failure"
	outcomeRejected = "rejected"
)

// instruments are the OpenTelemetry instruments for analysis runs. With no
// meter provider configured they are no-ops.
type instruments struct {
	runs     metric.Int64Counter
	duration metric.Float64Histogram
	ranked   metric.Int64Histogram
}

func newInstruments(meter metric.Meter) *instruments {
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}

	// Errors are only returned for invalid instrument names.
	runs, _ := meter.Int64Counter("triage.analysis.runs",
		metric.WithDescription("Analysis requests by outcome"),
		metric.WithUnit("{run}"))
	duration, _ := meter.Float64Histogram("triage.analysis.duration",
		metric.WithDescription("Round-trip time of analysis requests"),
		metric.WithUnit("s"))
	ranked, _ := meter.Int64Histogram("triage.analysis.ranked_tasks",
		metric.WithDescription("Number of tasks ranked per successful analysis"),
		metric.WithUnit("{task}"))

	return &instruments{runs: runs, duration: duration, ranked: ranked}
}

func (in *instruments) recordRejected(ctx context.Context, reason string) {
	in.runs.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcomeRejected),
		attribute.String("reason", reason),
	))
}

func (in *instruments) recordRun(ctx context.Context, strategy string, elapsed time.Duration, ranked int, err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeFailure
	}
	attrs := metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.String("strategy", strategy),
	)
	in.runs.Add(ctx, 1, attrs)
	in.duration.Record(ctx, elapsed.Seconds(), attrs)
	if err == nil {
		in.ranked.Record(ctx, int64(ranked), metric.WithAttributes(attribute.String("strategy", strategy)))
	}
}
