package testutil

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"

	"github.com/vk/objtree/internal/compile"
	"github.com/vk/objtree/internal/resolve"
)

// includeRegex matches quoted include directives in fake sources.
var includeRegex = regexp.MustCompile(`#include\s+"([^"]+)"`)

// FakeEngine implements compile.Engine without a real compiler. It writes a
// recognizable object file, scans the source for quoted includes to produce
// an honest dependency record, and remembers every source it compiled.
type FakeEngine struct {
	mu       sync.Mutex
	compiled []string

	// FailSources maps a source base name to the error its compile returns.
	FailSources map[string]error
}

// Compile implements compile.Engine.
func (f *FakeEngine) Compile(ctx context.Context, target resolve.CompileTarget, includes []string) error {
	f.mu.Lock()
	f.compiled = append(f.compiled, target.Source)
	f.mu.Unlock()

	if err, ok := f.FailSources[filepath.Base(target.Source)]; ok {
		return &compile.CompileError{Source: target.Source, Diagnostic: "fake compiler rejected input", Err: err}
	}

	data, err := os.ReadFile(target.Source)
	if err != nil {
		return &compile.CompileError{Source: target.Source, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(target.Object), 0o755); err != nil {
		return &compile.CompileError{Source: target.Source, Err: err}
	}
	if err := os.WriteFile(target.Object, append([]byte("unit "), data...), 0o644); err != nil {
		return &compile.CompileError{Source: target.Source, Err: err}
	}

	rec := &compile.Record{
		Object: target.Object,
		Deps:   f.scanIncludes(data, filepath.Dir(target.Source), includes),
	}
	if err := compile.WriteRecord(target.DepFile, rec); err != nil {
		return &compile.CompileError{Source: target.Source, Err: err}
	}
	return nil
}

// scanIncludes resolves quoted includes against the source directory first,
// then the include paths, keeping only files that exist.
func (f *FakeEngine) scanIncludes(data []byte, srcDir string, includes []string) []string {
	var deps []string
	for _, match := range includeRegex.FindAllSubmatch(data, -1) {
		name := string(match[1])
		for _, dir := range append([]string{srcDir}, includes...) {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				deps = append(deps, candidate)
				break
			}
		}
	}
	return deps
}

// CompiledBases returns the sorted base names of every compiled source.
func (f *FakeEngine) CompiledBases() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	bases := make([]string, 0, len(f.compiled))
	for _, src := range f.compiled {
		bases = append(bases, filepath.Base(src))
	}
	sort.Strings(bases)
	return bases
}

// CompileCount returns how many compiles the engine performed.
func (f *FakeEngine) CompileCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.compiled)
}

// Reset forgets the compile history but keeps failure injection.
func (f *FakeEngine) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.compiled = nil
}
