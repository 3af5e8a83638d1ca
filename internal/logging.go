package internal

import (
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
)

// Creates the log handler writing to f at [LogLevel].
//
// Terminals get human-readable text; anything else gets one JSON object per
// line. Verbose mode adds source locations.
func NewLogHandler(f *os.File) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     LogLevel,
		AddSource: IsVerbose(),
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return slog.NewTextHandler(f, opts)
	}
	return slog.NewJSONHandler(f, opts)
}
