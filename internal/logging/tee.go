package logging

import (
	"context"
	"log/slog"
)

// Tee returns a Logger that also sends every record it writes to h. Records
// below the Logger's level never reach h.
func (l *Logger) Tee(h slog.Handler) *Logger {
	if l == nil || h == nil {
		return l
	}
	return &Logger{
		logger: slog.New(teeHandler{primary: l.logger.Handler(), secondary: h}),
		out:    l.out,
		mu:     l.mu,
		attrs:  l.attrs,
	}
}

type teeHandler struct {
	primary   slog.Handler
	secondary slog.Handler
}

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return t.primary.Enabled(ctx, level)
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	err := t.primary.Handle(ctx, r.Clone())
	if t.secondary.Enabled(ctx, r.Level) {
		// Mirror errors are dropped; only the log file's result is reported.
		_ = t.secondary.Handle(ctx, r)
	}
	return err
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return teeHandler{primary: t.primary.WithAttrs(attrs), secondary: t.secondary.WithAttrs(attrs)}
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	return teeHandler{primary: t.primary.WithGroup(name), secondary: t.secondary.WithGroup(name)}
}
