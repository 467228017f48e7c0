package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/objtree/internal/ctxlog"
	"github.com/vk/objtree/internal/resolve"
)

// aggregateMagic identifies an aggregate artifact. The member order inside
// the artifact is the resolver's rewritten entry list, so two runs over
// identical inputs produce byte-identical aggregates.
const aggregateMagic = "!<objtree>\n"

// aggregate combines the directory's own units and its children's artifacts
// into this directory's aggregate. An empty directory still produces an
// (empty) aggregate so that ancestor aggregation is never blocked.
func (d *Driver) aggregate(ctx context.Context, task *Task, list *resolve.List) error {
	logger := ctxlog.FromContext(ctx).With("dir", displayDir(task.Dir))

	fresh, err := aggregateFresh(task.Artifact, list.Order)
	if err != nil {
		return &AggregationError{Dir: task.Dir, Err: err}
	}
	if fresh {
		logger.Debug("Aggregate up to date.", "artifact", task.Artifact)
		return nil
	}

	logger.Info("📦 Aggregating directory.", "artifact", task.Artifact, "members", len(list.Order))
	if err := writeAggregate(task.Artifact, list.Order); err != nil {
		return &AggregationError{Dir: task.Dir, Err: err}
	}
	return nil
}

// aggregateFresh reports whether the existing artifact is newer than every
// member. A missing member is an error: the fan-in barrier guarantees all
// inputs exist by the time aggregation runs.
func aggregateFresh(artifact string, members []string) (bool, error) {
	info, err := os.Stat(artifact)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	for _, member := range members {
		mInfo, err := os.Stat(member)
		if err != nil {
			return false, fmt.Errorf("missing aggregate member %s: %w", member, err)
		}
		if !mInfo.ModTime().Before(info.ModTime()) {
			return false, nil
		}
	}
	return true, nil
}

// writeAggregate writes the artifact atomically: members are concatenated
// into a temp file in composition order and renamed into place, so a partial
// or inconsistent aggregate is never observable.
func writeAggregate(artifact string, members []string) error {
	dir := filepath.Dir(artifact)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".built-in-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := writeMembers(tmp, dir, members); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), artifact)
}

// writeMembers streams the magic header and each member, prefixed by its
// artifact-relative name and size.
func writeMembers(out *os.File, dir string, members []string) error {
	if _, err := out.WriteString(aggregateMagic); err != nil {
		return err
	}
	for _, member := range members {
		name, err := filepath.Rel(dir, member)
		if err != nil {
			name = filepath.Base(member)
		}
		data, err := os.ReadFile(member)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "%s %d\n", filepath.ToSlash(name), len(data)); err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
		if _, err := out.WriteString("\n"); err != nil {
			return err
		}
	}
	return nil
}
