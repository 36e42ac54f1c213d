package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/framestep/framestep/internal/core/ecs"
)

type label struct{ Name string }

type setLabel struct{ Name string }
type clearLabel struct{}
type resetWorld struct{}
type unregisteredCmd struct{}

func newDispatchFixture(t *testing.T) (*ecs.World, *Registry, *Buffer) {
	t.Helper()
	w := ecs.NewWorld(8, nil)
	r := NewRegistry()
	require.NoError(t, Register(r, func(w *ecs.World, target ecs.Entity, cmd setLabel) error {
		ecs.Attach(w, target, label{Name: cmd.Name})
		return nil
	}))
	require.NoError(t, Register(r, func(w *ecs.World, target ecs.Entity, _ clearLabel) error {
		ecs.Detach[label](w, target)
		return nil
	}))
	require.NoError(t, Register(r, func(w *ecs.World, _ ecs.Entity, _ resetWorld) error {
		w.Clear()
		return nil
	}))
	return w, r, NewBuffer(r, nil)
}

func TestRegistry(t *testing.T) {
	t.Run("duplicate registration is a setup error", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, Register(r, func(*ecs.World, ecs.Entity, setLabel) error { return nil }))
		err := Register(r, func(*ecs.World, ecs.Entity, setLabel) error { return nil })
		require.ErrorIs(t, err, ErrDuplicateDispatcher)
	})

	t.Run("registered reflects setup state", func(t *testing.T) {
		r := NewRegistry()
		require.False(t, Registered[setLabel](r))
		require.NoError(t, Register(r, func(*ecs.World, ecs.Entity, setLabel) error { return nil }))
		require.True(t, Registered[setLabel](r))
	})
}

func TestBuffer_FlushInOrder(t *testing.T) {
	w, _, b := newDispatchFixture(t)
	e := w.CreateEntity()

	require.NoError(t, b.Add(e, setLabel{Name: "first"}))
	require.NoError(t, b.Add(e, setLabel{Name: "second"}))
	require.Equal(t, 2, b.Len())

	applied := b.Flush(w)
	require.Equal(t, 2, applied)
	require.Equal(t, 0, b.Len())

	l, ok := ecs.Get[label](w, e)
	require.True(t, ok)
	require.Equal(t, "second", l.Name, "later command wins under insertion order")
}

func TestBuffer_DeadTargetDropsSilently(t *testing.T) {
	// A command may target an entity that was despawned earlier in the same
	// frame; flush must complete without fault and leave it dead.
	w, _, b := newDispatchFixture(t)
	e := w.CreateEntity()

	require.NoError(t, b.Add(e, setLabel{Name: "late"}))
	require.True(t, w.DestroyEntity(e))

	applied := b.Flush(w)
	require.Equal(t, 0, applied)
	require.Equal(t, uint64(1), b.Dropped())
	require.False(t, w.Alive(e))
}

func TestBuffer_UnregisteredTypeRejectedAtEnqueue(t *testing.T) {
	w, _, b := newDispatchFixture(t)
	e := w.CreateEntity()

	err := b.Add(e, unregisteredCmd{})
	require.ErrorIs(t, err, ErrNoDispatcher)
	require.Equal(t, 0, b.Len())

	err = b.AddWorld(nil)
	require.ErrorIs(t, err, ErrNoDispatcher)
}

func TestBuffer_WorldCommand(t *testing.T) {
	w, _, b := newDispatchFixture(t)
	ents := w.CreateEntities(3)
	require.NoError(t, b.AddWorld(resetWorld{}))
	require.Equal(t, 1, b.Flush(w))
	for _, e := range ents {
		require.False(t, w.Alive(e))
	}
}

func TestBuffer_DispatcherErrorDoesNotStopReplay(t *testing.T) {
	w := ecs.NewWorld(4, nil)
	r := NewRegistry()
	boom := errors.New("boom")
	MustRegister(r, func(*ecs.World, ecs.Entity, clearLabel) error { return boom })
	MustRegister(r, func(w *ecs.World, target ecs.Entity, cmd setLabel) error {
		ecs.Attach(w, target, label{Name: cmd.Name})
		return nil
	})
	b := NewBuffer(r, nil)
	e := w.CreateEntity()

	require.NoError(t, b.Add(e, clearLabel{}))
	require.NoError(t, b.Add(e, setLabel{Name: "after-error"}))
	require.Equal(t, 1, b.Flush(w))
	require.True(t, ecs.Has[label](w, e))
}

func TestBuffer_CommandsQueuedDuringFlushWaitForNext(t *testing.T) {
	w := ecs.NewWorld(4, nil)
	r := NewRegistry()
	b := NewBuffer(r, nil)
	e := w.CreateEntity()

	MustRegister(r, func(w *ecs.World, target ecs.Entity, cmd setLabel) error {
		ecs.Attach(w, target, label{Name: cmd.Name})
		return nil
	})
	MustRegister(r, func(w *ecs.World, target ecs.Entity, _ clearLabel) error {
		// Cascade: ask for a relabel from inside a flush.
		return b.Add(target, setLabel{Name: "cascaded"})
	})

	require.NoError(t, b.Add(e, clearLabel{}))
	require.Equal(t, 1, b.Flush(w))
	require.False(t, ecs.Has[label](w, e), "cascaded command must not run in the same flush")
	require.Equal(t, 1, b.Len())

	require.Equal(t, 1, b.Flush(w))
	l, _ := ecs.Get[label](w, e)
	require.Equal(t, "cascaded", l.Name)
}
