package cfg

import (
	"io"
	"log/slog"
)

// SetupLogging installs the default slog logger. Logs go to w (stderr in
// practice) so stdout carries only command output.
func SetupLogging(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
