package build

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStateMachine(t *testing.T) {
	t.Parallel()

	t.Run("full lifecycle", func(t *testing.T) {
		task := newTask("sub", "out/sub/built-in.o")
		assert.Equal(t, Pending, task.State())

		for _, next := range []State{Resolving, Descending, Compiling, Aggregating, Done} {
			task.transition(next)
			assert.Equal(t, next, task.State())
		}
	})

	t.Run("failed is reachable from every working state", func(t *testing.T) {
		for _, from := range []State{Pending, Resolving, Descending, Compiling, Aggregating} {
			assert.True(t, allowedTransition(from, Failed), "from %s", from)
		}
	})

	t.Run("terminal states admit no transitions", func(t *testing.T) {
		for _, from := range []State{Done, Failed} {
			for to := Pending; to <= Failed; to++ {
				assert.False(t, allowedTransition(from, to), "%s -> %s", from, to)
			}
		}
	})

	t.Run("skipping a phase panics", func(t *testing.T) {
		task := newTask("", "out/built-in.o")
		require.Panics(t, func() {
			task.transition(Aggregating)
		})
	})

	t.Run("fail records the cause", func(t *testing.T) {
		task := newTask("sub", "")
		task.transition(Resolving)
		cause := errors.New("no such entry")
		task.fail(cause)

		assert.Equal(t, Failed, task.State())
		assert.Same(t, cause, task.Err())
	})
}

func TestTaskWalk(t *testing.T) {
	t.Parallel()

	root := newTask("", "")
	a := newTask("a", "")
	b := newTask("b", "")
	aa := newTask("a/a", "")
	root.Children = []*Task{a, b}
	a.Children = []*Task{aa}

	var visited []string
	root.Walk(func(task *Task) {
		visited = append(visited, task.Dir)
	})
	assert.Equal(t, []string{"", "a", "a/a", "b"}, visited)
}
