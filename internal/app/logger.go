package app

import (
	"io"
	"log/slog"
)

// logLevels maps the CLI level names onto slog levels. An unknown name maps
// to the zero value, which is info.
var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger builds the application logger. It never installs itself as the
// global default, so each App keeps an isolated instance.
func newLogger(level, format string, outW io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: logLevels[level]}

	var handler slog.Handler = slog.NewTextHandler(outW, opts)
	if format == "json" {
		handler = slog.NewJSONHandler(outW, opts)
	}
	return slog.New(handler)
}
