package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/objtree/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDescriptor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	loader := NewLoader()

	t.Run("parses entries and captures conditions", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, config.DescriptorFileName, `
obj "alpha" {}

obj "net/" {
  when = flags.net
}
`)

		desc, err := loader.LoadDescriptor(ctx, dir)
		require.NoError(t, err)
		require.Len(t, desc.Entries, 2)

		assert.Equal(t, "alpha", desc.Entries[0].Name)
		assert.False(t, desc.Entries[0].IsDir())

		assert.Equal(t, "net/", desc.Entries[1].Name)
		assert.True(t, desc.Entries[1].IsDir())
		assert.NotNil(t, desc.Entries[1].When)
	})

	t.Run("missing descriptor is a configuration error", func(t *testing.T) {
		_, err := loader.LoadDescriptor(ctx, t.TempDir())
		require.Error(t, err)
		var confErr *config.ConfigurationError
		assert.ErrorAs(t, err, &confErr)
	})

	t.Run("malformed descriptor is a configuration error", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, config.DescriptorFileName, `obj "alpha" {`)

		_, err := loader.LoadDescriptor(ctx, dir)
		require.Error(t, err)
		var confErr *config.ConfigurationError
		assert.ErrorAs(t, err, &confErr)
	})
}

func TestLoadFlags(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	loader := NewLoader()

	t.Run("hcl attributes", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "flags.hcl", `
net  = true
usb  = false
arch = "arm64"
`)

		snap, err := loader.LoadFlags(ctx, path)
		require.NoError(t, err)

		assert.True(t, snap.Bool("net"))
		assert.False(t, snap.Bool("usb"))
		arch, ok := snap.Value("arch")
		require.True(t, ok)
		assert.Equal(t, cty.StringVal("arm64"), arch)
		assert.Equal(t, []string{"arch", "net", "usb"}, snap.Names())
	})

	t.Run("ini config file", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "build.config", `
NET=y
USB=n
ARCH=arm64
`)

		snap, err := loader.LoadFlags(ctx, path)
		require.NoError(t, err)

		assert.True(t, snap.Bool("NET"))
		assert.False(t, snap.Bool("USB"))
		arch, ok := snap.Value("ARCH")
		require.True(t, ok)
		assert.Equal(t, cty.StringVal("arm64"), arch)
	})

	t.Run("missing flags file is a configuration error", func(t *testing.T) {
		_, err := loader.LoadFlags(ctx, filepath.Join(t.TempDir(), "nope.config"))
		require.Error(t, err)
		var confErr *config.ConfigurationError
		assert.ErrorAs(t, err, &confErr)
	})
}
