package app

import (
	"io"
	"log/slog"

	"github.com/vk/objtree/internal/compile"
	"github.com/vk/objtree/internal/config"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader config.Loader
	engine compile.Engine
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger. A nil engine
// selects the external toolchain; tests inject fakes here.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, engine compile.Engine) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	if engine == nil {
		engine = compile.NewToolchain(cfg.CC)
	}

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		loader: loader,
		engine: engine,
	}
}
