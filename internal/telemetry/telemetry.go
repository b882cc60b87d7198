package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Iron-Ham/triage/internal/errors"
)

// ServiceName is reported as the service.name resource attribute.
const ServiceName = "triage"

const instrumentationName = "github.com/Iron-Ham/triage/internal/telemetry"

// DefaultFileName is the export file created under the state directory.
const DefaultFileName = "telemetry.jsonl"

// ShutdownFunc flushes pending telemetry and releases exporters.
type ShutdownFunc func(context.Context) error

// noopShutdown is returned when telemetry is disabled.
func noopShutdown(context.Context) error { return nil }

// Setup installs meter, tracer and logger providers that export to w. The
// returned ShutdownFunc must be called before exit or buffered data is lost.
func Setup(w io.Writer, version string) (ShutdownFunc, error) {
	res := resource.NewSchemaless(
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", version),
	)

	metricExp, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return noopShutdown, fmt.Errorf("create metric exporter: %w", err)
	}
	traceExp, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return noopShutdown, fmt.Errorf("create trace exporter: %w", err)
	}
	logExp, err := stdoutlog.New(stdoutlog.WithWriter(w))
	if err != nil {
		return noopShutdown, fmt.Errorf("create log exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp)),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(traceExp),
	)
	lp := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExp)),
	)
	otel.SetMeterProvider(mp)
	otel.SetTracerProvider(tp)
	global.SetLoggerProvider(lp)

	return func(ctx context.Context) error {
		return errors.Join(lp.Shutdown(ctx), tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}

// LogHandler returns an slog handler that forwards records to the global
// logger provider installed by Setup.
func LogHandler() slog.Handler {
	return otelslog.NewHandler(instrumentationName)
}

// SetupFile opens path for appending and calls Setup with it. An empty path
// resolves to DefaultFileName inside stateDir. The file is closed by the
// returned ShutdownFunc.
func SetupFile(path, stateDir, version string) (ShutdownFunc, error) {
	if path == "" {
		path = filepath.Join(stateDir, DefaultFileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return noopShutdown, fmt.Errorf("create telemetry directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return noopShutdown, fmt.Errorf("open telemetry file: %w", err)
	}

	shutdown, err := Setup(f, version)
	if err != nil {
		_ = f.Close()
		return noopShutdown, err
	}
	return func(ctx context.Context) error {
		return errors.Join(shutdown(ctx), f.Close())
	}, nil
}
