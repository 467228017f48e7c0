package build

import (
	"fmt"
	"sync/atomic"
)

// State is the lifecycle state of a directory task.
type State int32

const (
	Pending State = iota
	Resolving
	Descending
	Compiling
	Aggregating
	Done
	Failed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case Resolving:
		return "RESOLVING"
	case Descending:
		return "DESCENDING"
	case Compiling:
		return "COMPILING"
	case Aggregating:
		return "AGGREGATING"
	case Done:
		return "DONE"
	case Failed:
		return "FAILED"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// allowedTransition encodes the per-directory state machine. Failed is
// reachable from every non-terminal state except Aggregating's completion;
// once Failed, Aggregating is never entered.
func allowedTransition(from, to State) bool {
	if to == Failed {
		return from != Done && from != Failed
	}
	switch from {
	case Pending:
		return to == Resolving
	case Resolving:
		return to == Descending
	case Descending:
		return to == Compiling
	case Compiling:
		return to == Aggregating
	case Aggregating:
		return to == Done
	default:
		return false
	}
}

// Task is one directory's build. The task tree is isomorphic to the
// filesystem subtree actually visited. Children are appended by the single
// goroutine driving the parent and are safe to read once the parent is
// terminal.
type Task struct {
	// Dir is the directory path relative to the source root; "" is the root.
	Dir string
	// Artifact is the path of this directory's aggregate artifact.
	Artifact string
	// Children are the tasks of the resolved subdirectory entries.
	Children []*Task

	state atomic.Int32
	err   atomic.Value

	// Compiled and Reused count units rebuilt versus taken from a previous
	// run, for the end-of-run report.
	Compiled atomic.Int32
	Reused   atomic.Int32
}

// newTask creates a task in the Pending state.
func newTask(dir, artifact string) *Task {
	return &Task{Dir: dir, Artifact: artifact}
}

// State returns the task's current state.
func (t *Task) State() State {
	return State(t.state.Load())
}

// Err returns the error that failed the task, or nil.
func (t *Task) Err() error {
	if err, ok := t.err.Load().(error); ok {
		return err
	}
	return nil
}

// transition advances the state machine. A disallowed transition is a
// programmer error in the driver, so it panics.
func (t *Task) transition(to State) {
	from := t.State()
	if !allowedTransition(from, to) {
		panic(fmt.Sprintf("task %q: invalid transition %s -> %s", t.Dir, from, to))
	}
	t.state.Store(int32(to))
}

// fail records the first error and moves the task to Failed.
func (t *Task) fail(err error) {
	t.err.Store(err)
	t.transition(Failed)
}

// Walk visits the task and all descendants depth-first.
func (t *Task) Walk(fn func(*Task)) {
	fn(t)
	for _, child := range t.Children {
		child.Walk(fn)
	}
}
