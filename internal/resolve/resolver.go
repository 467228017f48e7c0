package resolve

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/objtree/internal/config"
	"github.com/vk/objtree/internal/ctxlog"
)

// AggregateFileName is the deterministic name of a directory's aggregate
// artifact at the root of that directory's output subtree.
const AggregateFileName = "built-in.o"

// SourceExtension is the extension of compilable source units.
const SourceExtension = ".c"

// CompileTarget is a resolved file entry: one source file producing one
// compiled unit plus its dependency record.
type CompileTarget struct {
	Name    string // bare identifier within the directory
	Source  string // source file path
	Object  string // compiled unit path in the output tree
	DepFile string // dependency record path, co-located with the unit
}

// AggregateTarget is a resolved directory entry: a subdirectory whose
// aggregate artifact this directory depends on.
type AggregateTarget struct {
	Name     string // bare identifier within the directory
	Dir      string // subdirectory path relative to the source root
	Artifact string // the child's aggregate artifact path
}

// List is the resolved build list of one directory. Files and Dirs are
// deduplicated and stable-sorted by name; Order is the rewritten entry list
// (object and child artifact paths) defining aggregate composition order.
type List struct {
	Dir   string
	Files []CompileTarget
	Dirs  []AggregateTarget
	Order []string
}

// Resolver turns directory descriptors into build lists. It is stateless
// apart from the tree roots and safe for concurrent use.
type Resolver struct {
	loader  config.Loader
	srcRoot string
	outRoot string
}

// New creates a Resolver rooted at the given source and output trees.
func New(loader config.Loader, srcRoot, outRoot string) *Resolver {
	return &Resolver{loader: loader, srcRoot: srcRoot, outRoot: outRoot}
}

// Resolve loads the descriptor of the directory at relDir (relative to the
// source root), evaluates entry conditions against the snapshot, classifies
// the enabled entries and emits the rewritten build list. A descriptor entry
// matching neither a source file nor a subdirectory fails the whole
// directory; a malformed list must not silently produce a partial artifact.
func (r *Resolver) Resolve(ctx context.Context, relDir string, snap *config.Snapshot) (*List, error) {
	logger := ctxlog.FromContext(ctx).With("dir", relDir)

	srcDir := filepath.Join(r.srcRoot, relDir)
	outDir := filepath.Join(r.outRoot, relDir)

	desc, err := r.loader.LoadDescriptor(ctx, srcDir)
	if err != nil {
		return nil, err
	}

	list := &List{Dir: relDir}
	seen := make(map[string]struct{})

	for _, entry := range desc.Entries {
		enabled, err := entryEnabled(entry, snap)
		if err != nil {
			return nil, &ResolutionError{Dir: relDir, Entry: entry.Name, Err: err}
		}
		if !enabled {
			logger.Debug("Entry disabled by configuration.", "entry", entry.Name)
			continue
		}

		name := entry.Base()
		if _, dup := seen[name]; dup {
			logger.Warn("Duplicate descriptor entry, ignoring repeat.", "entry", entry.Name)
			continue
		}
		seen[name] = struct{}{}

		if entry.IsDir() {
			subDir := filepath.Join(srcDir, name)
			info, err := os.Stat(subDir)
			if err != nil || !info.IsDir() {
				return nil, &ResolutionError{Dir: relDir, Entry: entry.Name}
			}
			list.Dirs = append(list.Dirs, AggregateTarget{
				Name:     name,
				Dir:      filepath.Join(relDir, name),
				Artifact: filepath.Join(outDir, name, AggregateFileName),
			})
			continue
		}

		source := filepath.Join(srcDir, name+SourceExtension)
		if _, err := os.Stat(source); err != nil {
			return nil, &ResolutionError{Dir: relDir, Entry: entry.Name}
		}
		list.Files = append(list.Files, CompileTarget{
			Name:    name,
			Source:  source,
			Object:  filepath.Join(outDir, name+".o"),
			DepFile: filepath.Join(outDir, name+".d"),
		})
	}

	sort.Slice(list.Files, func(i, j int) bool { return list.Files[i].Name < list.Files[j].Name })
	sort.Slice(list.Dirs, func(i, j int) bool { return list.Dirs[i].Name < list.Dirs[j].Name })
	list.Order = rewriteOrder(list)

	logger.Debug("Build list resolved.",
		"files", len(list.Files), "dirs", len(list.Dirs))
	return list, nil
}

// rewriteOrder merges the sorted targets into the composition order, with
// each directory entry replaced by its child aggregate artifact path.
// Identifiers are unique within a directory, so a plain merge by name is a
// stable sort of the rewritten entry list.
func rewriteOrder(list *List) []string {
	order := make([]string, 0, len(list.Files)+len(list.Dirs))
	i, j := 0, 0
	for i < len(list.Files) && j < len(list.Dirs) {
		if list.Files[i].Name < list.Dirs[j].Name {
			order = append(order, list.Files[i].Object)
			i++
		} else {
			order = append(order, list.Dirs[j].Artifact)
			j++
		}
	}
	for ; i < len(list.Files); i++ {
		order = append(order, list.Files[i].Object)
	}
	for ; j < len(list.Dirs); j++ {
		order = append(order, list.Dirs[j].Artifact)
	}
	return order
}

// entryEnabled evaluates an entry's `when` expression against the flag
// snapshot. An absent expression means the entry is unconditional; a flag
// the expression references but the snapshot does not carry reads as false,
// so entries gated on an unset flag are disabled rather than failed.
func entryEnabled(entry *config.Entry, snap *config.Snapshot) (bool, error) {
	if entry.When == nil {
		return true, nil
	}
	v, diags := entry.When.Value(snap.EvalContextFor(entry.When))
	if diags.HasErrors() {
		return false, diags
	}
	// gohcl leaves optional attributes as a null expression when omitted.
	if v.IsNull() {
		return true, nil
	}
	v, err := convert.Convert(v, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("`when` is not a boolean: %w", err)
	}
	return v.True(), nil
}
