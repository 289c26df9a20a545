// Package cli implements the graphfile command-line interface.
//
// The commands read project, graph and dataset files written by any known
// schema version and write them back in the current one. The CLI is built
// using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - new: Create an empty project file
//   - inspect: Report a file's document kind, schema version and contents
//   - migrate: Rewrite a file in the current schema
//   - graph: Move standalone graphs in and out of projects
//   - render: Draw a graph as DOT, SVG, PDF or PNG
//   - datasets: List a dataset collection
//   - browse: Pick a project graph interactively
//   - cache: Inspect, prune or clear cached renders
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The CLI
// logger is installed as the process default, so the version resolver's
// per-attempt messages go through it. Loggers are also passed through
// context.Context for progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Migrated project (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// quiet silences l below fatal level until the returned function is called.
// Debug loggers are left alone so --verbose still shows every attempt.
func quiet(l *log.Logger) (restore func()) {
	prev := l.GetLevel()
	if prev <= log.DebugLevel {
		return func() {}
	}
	l.SetLevel(log.FatalLevel)
	return func() { l.SetLevel(prev) }
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
