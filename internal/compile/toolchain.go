package compile

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/vk/objtree/internal/ctxlog"
	"github.com/vk/objtree/internal/resolve"
)

// DefaultCC is the compiler used when neither the -cc flag nor OBJTREE_CC
// selects one.
const DefaultCC = "cc"

// Toolchain is the Engine implementation that shells out to an external C
// compiler. Dependency records are produced by the compiler itself via
// -MD -MF, so the record always reflects the headers actually observed.
type Toolchain struct {
	cc string
}

// NewToolchain creates a Toolchain around the given compiler binary. An
// empty name falls back to $OBJTREE_CC, then to DefaultCC.
func NewToolchain(cc string) *Toolchain {
	if cc == "" {
		cc = os.Getenv("OBJTREE_CC")
	}
	if cc == "" {
		cc = DefaultCC
	}
	return &Toolchain{cc: cc}
}

// Compile implements Engine.
func (t *Toolchain) Compile(ctx context.Context, target resolve.CompileTarget, includes []string) error {
	logger := ctxlog.FromContext(ctx)

	if err := os.MkdirAll(filepath.Dir(target.Object), 0o755); err != nil {
		return &CompileError{Source: target.Source, Err: err}
	}

	args := []string{"-c", target.Source, "-o", target.Object, "-MD", "-MF", target.DepFile}
	for _, inc := range includes {
		args = append(args, "-I", inc)
	}

	logger.Debug("Invoking compiler.", "cc", t.cc, "args", args)
	cmd := exec.CommandContext(ctx, t.cc, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &CompileError{
			Source:     target.Source,
			Diagnostic: strings.TrimSpace(stderr.String()),
			Err:        err,
		}
	}
	return nil
}
