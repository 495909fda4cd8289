// Package corelog builds the program's single slog.Logger: a tint.Handler
// writing to the given io.Writer, Info level normally and
// Debug-with-source under --debug.
package corelog

import (
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

// New constructs the program logger. debug raises the level to Debug and
// adds source file:line annotations.
func New(out io.Writer, debug bool) *slog.Logger {
	opts := tint.Options{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	return slog.New(tint.NewHandler(out, &opts))
}
