package oledanim

import "log/slog"

// loggerOrNop returns l, or a logger that drops every record when l is nil.
// Nothing in this package writes to slog.Default.
func loggerOrNop(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
