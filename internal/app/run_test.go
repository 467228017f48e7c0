package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/objtree/internal/hcl"
	"github.com/vk/objtree/internal/resolve"
	"github.com/vk/objtree/internal/testutil"
)

func newTestApp(t *testing.T, src, out, configPath string, engine *testutil.FakeEngine) (*App, *bytes.Buffer) {
	t.Helper()
	cfg, err := NewConfig(Config{
		SourceRoot: src,
		OutputRoot: out,
		ConfigPath: configPath,
		Workers:    2,
		LogFormat:  "text",
		LogLevel:   "error",
	})
	require.NoError(t, err)

	var logs bytes.Buffer
	return NewApp(&logs, cfg, hcl.NewLoader(), engine), &logs
}

func TestAppRun(t *testing.T) {
	t.Parallel()

	t.Run("builds a tree end to end", func(t *testing.T) {
		src, out := t.TempDir(), t.TempDir()
		testutil.WriteTree(t, src, map[string]string{
			"flags.hcl": `net = true`,
			"objects.hcl": `
obj "alpha" {}

obj "beta/" {
  when = flags.net
}
`,
			"alpha.c":          "int alpha;",
			"beta/objects.hcl": `obj "gamma" {}`,
			"beta/gamma.c":     "int gamma;",
		})

		engine := &testutil.FakeEngine{}
		app, _ := newTestApp(t, src, out, filepath.Join(src, "flags.hcl"), engine)

		require.NoError(t, app.Run(context.Background()))
		assert.Equal(t, []string{"alpha.c", "gamma.c"}, engine.CompiledBases())
		assert.FileExists(t, filepath.Join(out, resolve.AggregateFileName))
		assert.FileExists(t, filepath.Join(out, "beta", resolve.AggregateFileName))
	})

	t.Run("reports the failing directory and entry", func(t *testing.T) {
		src, out := t.TempDir(), t.TempDir()
		testutil.WriteTree(t, src, map[string]string{
			"flags.hcl":   ``,
			"objects.hcl": `obj "ghost" {}`,
		})

		app, logs := newTestApp(t, src, out, filepath.Join(src, "flags.hcl"), &testutil.FakeEngine{})

		err := app.Run(context.Background())
		require.Error(t, err)
		assert.ErrorContains(t, err, "ghost")
		assert.Contains(t, logs.String(), "FAILED")
	})

	t.Run("missing flag source fails before any build", func(t *testing.T) {
		src, out := t.TempDir(), t.TempDir()
		engine := &testutil.FakeEngine{}
		app, _ := newTestApp(t, src, out, filepath.Join(src, "nope.hcl"), engine)

		err := app.Run(context.Background())
		require.Error(t, err)
		assert.Zero(t, engine.CompileCount())
	})
}
