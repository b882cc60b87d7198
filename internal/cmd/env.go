package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Iron-Ham/triage/internal/analysis"
	"github.com/Iron-Ham/triage/internal/config"
	"github.com/Iron-Ham/triage/internal/event"
	"github.com/Iron-Ham/triage/internal/logging"
	"github.com/Iron-Ham/triage/internal/scorer"
	"github.com/Iron-Ham/triage/internal/strategy"
	"github.com/Iron-Ham/triage/internal/taskqueue"
	"github.com/Iron-Ham/triage/internal/telemetry"
)

// telemetryFlushTimeout bounds the final export on exit.
const telemetryFlushTimeout = 5 * time.Second

// env holds the components a command operates on, restored from the state
// directory.
type env struct {
	cfg      *config.Config
	stateDir string
	logger   *logging.Logger
	bus      *event.Bus
	queue    *taskqueue.EventQueue
	selector *strategy.Selector
	orch     *analysis.Orchestrator

	shutdownTelemetry telemetry.ShutdownFunc
}

// openEnv loads the configuration and restores the queue and the last
// analysis result. Callers must call close.
func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	e := &env{
		cfg:               cfg,
		stateDir:          cfg.Paths.ResolveStateDir(),
		bus:               event.NewBus(),
		shutdownTelemetry: func(context.Context) error { return nil },
	}
	if err := os.MkdirAll(e.stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	e.logger = logging.NopLogger()
	if cfg.Logging.Enabled {
		e.logger, err = logging.NewLogger(e.stateDir, cfg.Logging.Level, logging.RotationConfig{
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			Compress:   cfg.Logging.Compress,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
	}

	// Telemetry must be installed before the scorer client and the
	// orchestrator create their instruments.
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.SetupFile(cfg.Telemetry.File, e.stateDir, Version)
		if err != nil {
			e.logger.Warn("telemetry disabled", "error", err.Error())
		} else {
			e.shutdownTelemetry = shutdown
			e.logger = e.logger.Tee(telemetry.LogHandler())
		}
	}

	logger := e.logger.WithComponent("events")
	e.bus.OnPanic(func(ev event.Event, recovered any) {
		logger.Error("event handler panicked", "event", ev.EventType(), "panic", fmt.Sprint(recovered))
	})

	q, err := taskqueue.LoadState(e.stateDir)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("failed to load task queue: %w", err)
	}
	e.queue = taskqueue.NewEventQueue(q, e.bus)

	strat, err := strategy.Parse(cfg.Analysis.Strategy)
	if err != nil {
		e.close()
		return nil, err
	}
	e.selector = strategy.NewSelector(strat)

	client := scorer.NewClient(cfg.API.BaseURL,
		scorer.WithTimeout(cfg.API.Timeout()),
		scorer.WithLogger(e.logger),
	)
	e.orch = analysis.New(e.queue, client, e.selector,
		analysis.WithTopN(cfg.Analysis.TopN),
		analysis.WithBus(e.bus),
		analysis.WithLogger(e.logger),
	)
	if err := e.orch.LoadResult(e.stateDir); err != nil {
		// A damaged result file is replaced on the next successful run.
		e.logger.Warn("ignoring stored analysis result", "error", err.Error())
	}
	e.orch.Attach(e.bus)

	e.logger.Debug("environment ready",
		"state_dir", e.stateDir,
		"tasks", e.queue.Len(),
		"strategy", strat.String(),
		"has_result", e.orch.HasResult(),
	)
	return e, nil
}

// save persists the queue and the analysis result.
func (e *env) save() error {
	if err := e.queue.SaveState(e.stateDir); err != nil {
		return fmt.Errorf("failed to save task queue: %w", err)
	}
	if err := e.orch.SaveResult(e.stateDir); err != nil {
		return fmt.Errorf("failed to save analysis result: %w", err)
	}
	return nil
}

// close flushes telemetry and closes the log file.
func (e *env) close() {
	if e.orch != nil {
		e.orch.Detach()
	}

	ctx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
	defer cancel()
	if err := e.shutdownTelemetry(ctx); err != nil {
		e.logger.Warn("failed to flush telemetry", "error", err.Error())
	}
	_ = e.logger.Close()
}
