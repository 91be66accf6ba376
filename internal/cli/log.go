// Package cli implements the quakestyle command-line interface.
//
// quakestyle applies the same depth and magnitude styling as the map service
// from a terminal:
//
//   - legend: print the depth legend with color swatches
//   - style: fetch a feed (or read a saved file) and print the styled markers
//
// Logging goes through charmbracelet/log. Domain and adapter packages take a
// *slog.Logger, so the charm logger is handed to them as a slog.Handler.
package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// newLogger creates a charm logger writing to w at the given level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by the root command, or
// log.Default() when none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// slogFromContext adapts the context logger for packages that log via slog.
func slogFromContext(ctx context.Context) *slog.Logger {
	return slog.New(loggerFromContext(ctx))
}
