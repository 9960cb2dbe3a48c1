package ggedit

import (
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/ggedit/internal/logx"
)

// loggerPtr stores the package logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(logx.Nop())
}

// SetLogger configures the default logger for editors created without
// WithLogger. By default ggedit produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore the silent
// default. Editors pick the logger up when they are created, so call it
// before New.
//
// Log levels used by ggedit:
//   - [slog.LevelDebug]: render passes, ignored operations on unknown layers
//   - [slog.LevelInfo]: image load and export, preset reloads
//   - [slog.LevelWarn]: unknown filters or presets, stale snapshots, draw failures
//
// Example:
//
//	ggedit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	loggerPtr.Store(logx.OrNop(l))
}

// Logger returns the current package logger.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
