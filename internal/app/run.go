package app

import (
	"context"
	"fmt"

	"github.com/vk/objtree/internal/build"
	"github.com/vk/objtree/internal/ctxlog"
	"github.com/vk/objtree/internal/resolve"
)

// Run executes the whole build: flag snapshot, recursive descent, final
// report. The returned error carries the root failure when any directory in
// the tree ends FAILED.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	snap, err := a.loader.LoadFlags(ctx, a.config.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration flags: %w", err)
	}
	a.logger.Debug("Flag snapshot loaded.", "flags", snap.Names())

	resolver := resolve.New(a.loader, a.config.SourceRoot, a.config.OutputRoot)
	driver := build.NewDriver(resolver, a.engine, snap, build.Options{
		OutRoot:  a.config.OutputRoot,
		Includes: includePaths(a.config),
		Workers:  a.config.Workers,
		FailFast: a.config.FailFast,
	})

	a.logger.Info("🚀 Starting recursive build.", "src", a.config.SourceRoot, "out", a.config.OutputRoot)
	root, runErr := driver.Run(ctx)
	a.report(root)

	if runErr != nil {
		return fmt.Errorf("build failed: %w", runErr)
	}
	a.logger.Info("🏁 Build finished.", "artifact", root.Artifact)
	return nil
}

// report walks the finished task tree and logs per-directory outcomes.
// Every failed directory is reported with its own cause; unrelated sibling
// subtrees report their status independently.
func (a *App) report(root *build.Task) {
	var done, failed int
	var compiled, reused int32
	root.Walk(func(t *build.Task) {
		switch t.State() {
		case build.Done:
			done++
		case build.Failed:
			failed++
			a.logger.Error("Directory FAILED.", "dir", displayDir(t.Dir), "error", t.Err())
		}
		compiled += t.Compiled.Load()
		reused += t.Reused.Load()
	})
	a.logger.Info("Build summary.",
		"directories_done", done,
		"directories_failed", failed,
		"units_compiled", compiled,
		"units_reused", reused,
	)
}

func displayDir(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

// includePaths builds the include context. The same root include path is
// passed unchanged into each recursive invocation.
func includePaths(cfg *Config) []string {
	if cfg.IncludeRoot == "" {
		return nil
	}
	return []string{cfg.IncludeRoot}
}
