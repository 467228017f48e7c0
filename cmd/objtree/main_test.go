package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/objtree/internal/testutil"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Providing an unknown flag will cause cli.Parse to return an error.
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_FailedBuildReturnsError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A descriptor entry with no matching source makes the root directory
	// fail, which must surface as a non-nil error from run().
	src := t.TempDir()
	out := t.TempDir()
	testutil.WriteTree(t, src, map[string]string{
		"flags.hcl":   ``,
		"objects.hcl": `obj "ghost" {}`,
	})

	args := []string{
		"-src", src,
		"-out", out,
		"-config", filepath.Join(src, "flags.hcl"),
		"-log-level", "error",
	}
	logs := &bytes.Buffer{}

	// --- Act ---
	err := run(logs, args)

	// --- Assert ---
	require.Error(t, err)
	require.Contains(t, err.Error(), "ghost")
}
