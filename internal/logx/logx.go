// Package logx holds the slog plumbing shared by the editor packages.
package logx

import (
	"context"
	"log/slog"
)

// nopHandler discards every record. Enabled returns false so callers skip
// formatting entirely and disabled logging costs nothing.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// Nop returns a logger that drops all output.
func Nop() *slog.Logger { return slog.New(nopHandler{}) }

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Nop()
	}
	return l
}
