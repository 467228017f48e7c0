package compile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDepFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alpha.d")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadRecord(t *testing.T) {
	t.Parallel()

	t.Run("simple rule", func(t *testing.T) {
		path := writeDepFile(t, "alpha.o: alpha.c util.h\n")

		rec, err := ReadRecord(path)
		require.NoError(t, err)
		assert.Equal(t, "alpha.o", rec.Object)
		assert.Equal(t, []string{"alpha.c", "util.h"}, rec.Deps)
	})

	t.Run("line continuations are folded", func(t *testing.T) {
		path := writeDepFile(t, "alpha.o: alpha.c \\\n  util.h \\\n  deep/nested.h\n")

		rec, err := ReadRecord(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha.c", "util.h", "deep/nested.h"}, rec.Deps)
	})

	t.Run("phony targets from -MP are skipped", func(t *testing.T) {
		path := writeDepFile(t, "alpha.o: alpha.c util.h\nutil.h:\n")

		rec, err := ReadRecord(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha.c", "util.h"}, rec.Deps)
	})

	t.Run("escaped spaces stay inside one path", func(t *testing.T) {
		path := writeDepFile(t, `alpha.o: alpha.c my\ headers/util.h`+"\n")

		rec, err := ReadRecord(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha.c", "my headers/util.h"}, rec.Deps)
	})

	t.Run("file without a rule is malformed", func(t *testing.T) {
		path := writeDepFile(t, "no colon here\n")

		_, err := ReadRecord(path)
		assert.ErrorContains(t, err, "malformed dependency record")
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := ReadRecord(filepath.Join(t.TempDir(), "nope.d"))
		assert.Error(t, err)
	})
}

func TestWriteRecord(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "alpha.d")
	in := &Record{Object: "alpha.o", Deps: []string{"alpha.c", "my headers/util.h"}}
	require.NoError(t, WriteRecord(path, in))

	out, err := ReadRecord(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
