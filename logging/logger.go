// Package logging holds the structured logger shared by every ormd package.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record and reports every level as disabled.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (discard) WithAttrs([]slog.Attr) slog.Handler        { return discard{} }
func (discard) WithGroup(string) slog.Handler             { return discard{} }

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(discard{}))
}

// SetLogger replaces the package-wide logger. A nil logger silences output
// again, which is also the starting state.
//
// The router logs search statistics and fallback choices at Debug, batch
// summaries and server start at Info, and unroutable lines at Warn.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(discard{})
	}
	current.Store(l)
}

// Logger returns the package-wide logger.
func Logger() *slog.Logger {
	return current.Load()
}
