package compile

import (
	"context"
	"fmt"

	"github.com/vk/objtree/internal/resolve"
)

// Engine compiles one source unit into its object file and writes the
// dependency record of the headers observed during compilation. Both outputs
// land in the output tree, mirroring the source directory structure.
type Engine interface {
	Compile(ctx context.Context, target resolve.CompileTarget, includes []string) error
}

// CompileError reports an external compiler failure. It is fatal to the
// owning directory's subtree.
type CompileError struct {
	Source     string
	Diagnostic string
	Err        error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Diagnostic != "" {
		return fmt.Sprintf("compile %s: %v\n%s", e.Source, e.Err, e.Diagnostic)
	}
	return fmt.Sprintf("compile %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying tool error.
func (e *CompileError) Unwrap() error {
	return e.Err
}
