package build

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/vk/objtree/internal/compile"
	"github.com/vk/objtree/internal/config"
	"github.com/vk/objtree/internal/ctxlog"
	"github.com/vk/objtree/internal/resolve"
)

// Options configures a Driver run.
type Options struct {
	// OutRoot is the root of the output tree; the final artifact lands at
	// OutRoot/built-in.o.
	OutRoot string
	// Includes is the include-path context passed unchanged into every
	// recursive invocation.
	Includes []string
	// Workers bounds concurrent compiler invocations across the whole tree.
	Workers int
	// FailFast cancels the run context on the first failure anywhere in the
	// tree, so no new work starts. In-flight compilations still finish.
	// Without it a failed subtree fails its ancestors but siblings complete.
	FailFast bool
}

// Driver recursively builds a source tree: for each directory it resolves
// the build list, descends into subdirectories concurrently, compiles stale
// units through the bounded pool, and aggregates at a fan-in barrier.
type Driver struct {
	resolver *resolve.Resolver
	engine   compile.Engine
	snap     *config.Snapshot
	opts     Options
	sem      *semaphore.Weighted
	cancel   context.CancelFunc
}

// NewDriver wires a Driver from its collaborators. The snapshot is shared,
// immutable, and passed unchanged into each recursive invocation.
func NewDriver(resolver *resolve.Resolver, engine compile.Engine, snap *config.Snapshot, opts Options) *Driver {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Driver{
		resolver: resolver,
		engine:   engine,
		snap:     snap,
		opts:     opts,
		sem:      semaphore.NewWeighted(int64(opts.Workers)),
	}
}

// Run builds the whole tree and returns the root task. The task tree holds
// the per-directory terminal states; the returned error is the root's
// failure, if any.
func (d *Driver) Run(ctx context.Context) (*Task, error) {
	if d.opts.FailFast {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		d.cancel = cancel
		defer cancel()
	}

	root := newTask("", filepath.Join(d.opts.OutRoot, resolve.AggregateFileName))
	d.buildDir(ctx, root)

	if root.State() == Failed {
		return root, root.Err()
	}
	return root, nil
}

// buildDir drives one directory task through its full lifecycle. It returns
// with the task in Done or Failed.
func (d *Driver) buildDir(ctx context.Context, task *Task) {
	logger := ctxlog.FromContext(ctx).With("dir", displayDir(task.Dir))

	task.transition(Resolving)
	if ctx.Err() != nil {
		d.fail(ctx, task, ctx.Err())
		return
	}
	list, err := d.resolver.Resolve(ctx, task.Dir, d.snap)
	if err != nil {
		d.fail(ctx, task, err)
		return
	}

	// Fan out: each subdirectory is a full recursive instance with no data
	// dependency on its siblings. A plain errgroup (no shared cancellation)
	// keeps sibling subtrees isolated from one another's failures.
	task.transition(Descending)
	var descent errgroup.Group
	for _, dt := range list.Dirs {
		child := newTask(dt.Dir, dt.Artifact)
		task.Children = append(task.Children, child)
		descent.Go(func() error {
			d.buildDir(ctx, child)
			if child.State() == Failed {
				return fmt.Errorf("subdirectory %s failed: %w", child.Dir, child.Err())
			}
			return nil
		})
	}

	task.transition(Compiling)
	var compiles errgroup.Group
	for _, ct := range list.Files {
		ct := ct
		compiles.Go(func() error {
			return d.compileOne(ctx, task, ct)
		})
	}

	// Fan-in barrier: aggregation waits on every own unit and every child
	// artifact, in both the success and the failure case.
	compileErr := compiles.Wait()
	descentErr := descent.Wait()

	if compileErr != nil {
		d.fail(ctx, task, compileErr)
		return
	}
	if descentErr != nil {
		d.fail(ctx, task, descentErr)
		return
	}

	task.transition(Aggregating)
	if err := d.aggregate(ctx, task, list); err != nil {
		d.fail(ctx, task, err)
		return
	}

	task.transition(Done)
	logger.Debug("Directory complete.", "artifact", task.Artifact)
}

// compileOne compiles a single target through the shared worker pool,
// reusing the previous output when the dependency record proves it fresh.
func (d *Driver) compileOne(ctx context.Context, task *Task, target resolve.CompileTarget) error {
	logger := ctxlog.FromContext(ctx).With("source", target.Source)

	if err := d.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer d.sem.Release(1)

	if err := ctx.Err(); err != nil {
		return err
	}

	if !compile.NeedsRebuild(target) {
		logger.Debug("Reusing previous unit.", "object", target.Object)
		task.Reused.Add(1)
		return nil
	}

	logger.Info("⚙️ Compiling unit.", "object", target.Object)
	if err := d.engine.Compile(ctx, target, d.opts.Includes); err != nil {
		return err
	}
	task.Compiled.Add(1)
	return nil
}

// fail marks the task failed and, under FailFast, stops launching new work
// anywhere in the tree.
func (d *Driver) fail(ctx context.Context, task *Task, err error) {
	ctxlog.FromContext(ctx).Error("Directory failed.", "dir", displayDir(task.Dir), "error", err)
	task.fail(err)
	if d.cancel != nil {
		d.cancel()
	}
}
