package config

import (
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Snapshot is an immutable view of the configuration flags, taken once at
// process start. Every recursive build invocation receives the same
// snapshot, which makes concurrent sibling builds safe by construction.
type Snapshot struct {
	values map[string]cty.Value
}

// NewSnapshot copies the given flag values into a new immutable Snapshot.
func NewSnapshot(values map[string]cty.Value) *Snapshot {
	copied := make(map[string]cty.Value, len(values))
	for name, v := range values {
		copied[name] = v
	}
	return &Snapshot{values: copied}
}

// Value returns the raw value of a flag and whether it is set.
func (s *Snapshot) Value(name string) (cty.Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Bool reports whether a flag is set and truthy. String-valued and unset
// flags are false.
func (s *Snapshot) Bool(name string) bool {
	v, ok := s.values[name]
	return ok && v.Type() == cty.Bool && v.True()
}

// Names returns the sorted list of all flag names in the snapshot.
func (s *Snapshot) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// flagsVariable is the root name flags are exposed under in `when`
// expressions.
const flagsVariable = "flags"

// EvalContext builds the HCL evaluation context used for descriptor `when`
// expressions. Flags are exposed under the `flags` object.
func (s *Snapshot) EvalContext() *hcl.EvalContext {
	return s.evalContext(nil)
}

// EvalContextFor builds the evaluation context for one expression. Flag
// names the expression references that are absent from the snapshot read as
// false: a flag store that simply omits disabled flags must disable the
// gated entries, not fail them.
func (s *Snapshot) EvalContextFor(expr hcl.Expression) *hcl.EvalContext {
	absent := make(map[string]cty.Value)
	for _, traversal := range expr.Variables() {
		if traversal.RootName() != flagsVariable || len(traversal) < 2 {
			continue
		}
		attr, ok := traversal[1].(hcl.TraverseAttr)
		if !ok {
			continue
		}
		if _, set := s.values[attr.Name]; !set {
			absent[attr.Name] = cty.False
		}
	}
	return s.evalContext(absent)
}

func (s *Snapshot) evalContext(extra map[string]cty.Value) *hcl.EvalContext {
	attrs := make(map[string]cty.Value, len(s.values)+len(extra))
	for name, v := range s.values {
		attrs[name] = v
	}
	for name, v := range extra {
		attrs[name] = v
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			flagsVariable: cty.ObjectVal(attrs),
		},
	}
}

// Entry is a single object declared by a directory's descriptor. A trailing
// path separator in the name marks a subdirectory; anything else names a
// source file. The optional When expression gates the entry on the flag
// snapshot and is held unevaluated until resolution.
type Entry struct {
	Name string
	When hcl.Expression
}

// IsDir reports whether the entry names a subdirectory to descend into.
func (e *Entry) IsDir() bool {
	return strings.HasSuffix(e.Name, "/")
}

// Base returns the bare identifier: the trailing separator of a directory
// entry or the source extension of a file entry is stripped.
func (e *Entry) Base() string {
	if e.IsDir() {
		return strings.TrimRight(e.Name, "/")
	}
	if dot := strings.LastIndexByte(e.Name, '.'); dot > 0 {
		return e.Name[:dot]
	}
	return e.Name
}

// Descriptor is the declarative object list of one directory.
type Descriptor struct {
	// Dir is the directory the descriptor was loaded from, relative to the
	// source root.
	Dir string
	// Entries preserves descriptor order; resolution dedupes and sorts.
	Entries []*Entry
}
