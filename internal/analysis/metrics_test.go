package analysis

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Iron-Ham/triage/internal/errors"
	"github.com/Iron-Ham/triage/internal/taskqueue"
)

func collectRuns(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	counts := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "triage.analysis.runs" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("runs data type = %T", m.Data)
			}
			for _, dp := range sum.DataPoints {
				outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
				counts[outcome.AsString()] += dp.Value
			}
		}
	}
	return counts
}

func TestAnalyze_RecordsRunMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	fake := &fakeAnalyzer{}
	o := New(queueWith(t, 2), fake, nil, WithMeter(provider.Meter("test")))
	if _, err := o.Analyze(context.Background(), false); err != nil {
		t.Fatal(err)
	}

	fake.mu.Lock()
	fake.err = errors.NewServiceError(500, "boom")
	fake.mu.Unlock()
	_, _ = o.Analyze(context.Background(), false)

	empty := New(taskqueue.New(), fake, nil, WithMeter(provider.Meter("test")))
	_, _ = empty.Analyze(context.Background(), false)

	got := collectRuns(t, reader)
	want := map[string]int64{
		outcomeSuccess:  1,
		outcomeFailure:  1,
		outcomeRejected: 1,
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("runs{outcome=%s} = %d, want %d", k, got[k], v)
		}
	}
}
