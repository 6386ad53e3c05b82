// Package logging configures the global slog logger for the bobble binary.
// Interactive runs get colourised tinter output; everything else gets JSON
// lines suitable for a service manager's journal.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pwntr/tinter"
)

// Options control logger setup. The zero value means: auto-detect format
// from the terminal, info level.
type Options struct {
	// Format is "auto", "text" or "json".
	Format string
	// Level is "debug", "info", "warn" or "error". Unknown or empty
	// strings fall back to info.
	Level string
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// Setup configures the global slog logger. Call once after flag/viper
// parsing; everything before this logs through slog's default handler.
func Setup(opts Options) {
	w := os.Stderr

	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
		level = slog.LevelInfo
	}

	var useTint bool
	switch strings.ToLower(opts.Format) {
	case "text", "tint", "human":
		useTint = true
	case "json":
		useTint = false
	default:
		useTint = IsTTY(w)
	}

	var h slog.Handler
	if useTint {
		h = tinter.NewHandler(w, &tinter.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
		})
	} else {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	}
	slog.SetDefault(slog.New(h))
}
