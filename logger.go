package primcache

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip attribute formatting entirely,
// which keeps per-frame debug logging free when logging is off.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can race with frame building on other goroutines.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for primcache and all its sub-packages.
// By default nothing is logged.
//
// Pass nil to restore the silent default.
//
// Log levels used by primcache:
//   - [slog.LevelDebug]: per-frame counters (slots written, evictions, interner updates)
//   - [slog.LevelInfo]: lifecycle events (capture written, cache cleared)
//   - [slog.LevelWarn]: fallbacks (undecodable image data, texture upload failures)
//
// Example:
//
//	primcache.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
// Sub-packages call this so they share one configuration without
// import cycles.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// ComponentLogger returns the current logger tagged with a component
// attribute. The result is not cached: a later SetLogger is not seen by
// loggers obtained earlier.
func ComponentLogger(component string) *slog.Logger {
	l := loggerPtr.Load()
	if !l.Enabled(context.Background(), slog.LevelError) {
		return l
	}
	return l.With(slog.String("component", component))
}
