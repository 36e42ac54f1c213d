package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type position struct{ X, Y float64 }
type velocity struct{ DX, DY float64 }
type health struct{ Current, Max int }

type inventory struct{ Items []string }

func (i inventory) CloneComponent() any {
	items := make([]string, len(i.Items))
	copy(items, i.Items)
	return inventory{Items: items}
}

func TestWorld_EntityLifecycle(t *testing.T) {
	t.Run("create issues unique live handles", func(t *testing.T) {
		w := NewWorld(4, nil)
		e1 := w.CreateEntity()
		e2 := w.CreateEntity()

		require.NotEqual(t, e1, e2)
		require.True(t, w.Alive(e1))
		require.True(t, w.Alive(e2))
		require.Equal(t, 2, w.EntityCount())
	})

	t.Run("destroy invalidates the handle", func(t *testing.T) {
		w := NewWorld(4, nil)
		e := w.CreateEntity()

		require.True(t, w.DestroyEntity(e))
		require.False(t, w.Alive(e))
		require.False(t, w.DestroyEntity(e), "double destroy must report failure")
		require.Equal(t, 0, w.EntityCount())
	})

	t.Run("stale handle never resolves to the slot's new occupant", func(t *testing.T) {
		w := NewWorld(1, nil)
		old := w.CreateEntity()
		require.True(t, w.DestroyEntity(old))

		reused := w.CreateEntity()
		require.Equal(t, old.ID, reused.ID, "slot should be recycled")
		require.NotEqual(t, old.Version, reused.Version)

		Attach(w, reused, position{X: 7})
		require.False(t, w.Alive(old))
		require.False(t, Has[position](w, old))
		_, ok := Get[position](w, old)
		require.False(t, ok)
		require.False(t, Attach(w, old, position{X: 9}))

		p, ok := Get[position](w, reused)
		require.True(t, ok)
		require.Equal(t, 7.0, p.X, "stale handle ops must not touch the new entity")
	})

	t.Run("zero handle is nil and dead", func(t *testing.T) {
		w := NewWorld(4, nil)
		require.True(t, Nil.IsNil())
		require.False(t, w.Alive(Nil))
	})

	t.Run("clear recycles every slot", func(t *testing.T) {
		w := NewWorld(2, nil)
		ents := w.CreateEntities(5)
		for _, e := range ents {
			Attach(w, e, position{})
		}
		w.Clear()
		require.Equal(t, 0, w.EntityCount())
		require.Equal(t, 0, StoreFor[position](w).Len())
		for _, e := range ents {
			require.False(t, w.Alive(e))
		}
	})
}

func TestStore_Density(t *testing.T) {
	w := NewWorld(8, nil)
	s := StoreFor[health](w)

	ents := w.CreateEntities(5)
	for i, e := range ents {
		require.True(t, Attach(w, e, health{Current: i + 1, Max: 10}))
	}
	require.Equal(t, 5, s.Len())

	// Remove from the middle; the last element must be swapped in.
	require.True(t, Detach[health](w, ents[1]))
	require.Equal(t, 4, s.Len())
	require.False(t, Has[health](w, ents[1]))

	seen := map[uint32]int{}
	for i := 0; i < s.Len(); i++ {
		e, h := s.At(i)
		require.True(t, w.Alive(e))
		require.Greater(t, h.Current, 0)
		seen[e.ID]++
	}
	require.Len(t, seen, 4, "dense slice must hold exactly the live members")

	// The moved element still resolves through the sparse table.
	last := ents[4]
	h, ok := Get[health](w, last)
	require.True(t, ok)
	require.Equal(t, 5, h.Current)

	// Destroying an entity evicts it from the store implicitly.
	require.True(t, w.DestroyEntity(ents[0]))
	require.Equal(t, 3, s.Len())
	require.False(t, Has[health](w, ents[0]))
}

func TestStore_AttachSemantics(t *testing.T) {
	t.Run("attach overwrites in place", func(t *testing.T) {
		w := NewWorld(4, nil)
		e := w.CreateEntity()
		Attach(w, e, position{X: 1})
		Attach(w, e, position{X: 2})

		s := StoreFor[position](w)
		require.Equal(t, 1, s.Len())
		p, _ := Get[position](w, e)
		require.Equal(t, 2.0, p.X)
	})

	t.Run("detach of absent component fails softly", func(t *testing.T) {
		w := NewWorld(4, nil)
		e := w.CreateEntity()
		require.False(t, Detach[position](w, e))
	})

	t.Run("get returns a writable pointer", func(t *testing.T) {
		w := NewWorld(4, nil)
		e := w.CreateEntity()
		Attach(w, e, velocity{DX: 1})
		v, ok := Get[velocity](w, e)
		require.True(t, ok)
		v.DX = 42
		v2, _ := Get[velocity](w, e)
		require.Equal(t, 42.0, v2.DX)
	})
}

func TestCloneValue(t *testing.T) {
	t.Run("cloner types deep-copy", func(t *testing.T) {
		orig := inventory{Items: []string{"sword"}}
		dup := CloneValue(orig)
		dup.Items[0] = "shield"
		require.Equal(t, "sword", orig.Items[0])
	})

	t.Run("plain values copy by assignment", func(t *testing.T) {
		orig := position{X: 3}
		dup := CloneValue(orig)
		dup.X = 4
		require.Equal(t, 3.0, orig.X)
	})
}

func TestResources(t *testing.T) {
	w := NewWorld(1, nil)
	type bounds struct{ W, H float64 }

	require.True(t, AddResource(w.Resources(), bounds{W: 100, H: 50}))
	require.False(t, AddResource(w.Resources(), bounds{W: 1, H: 1}), "duplicate type must be rejected")

	b, ok := GetResource[bounds](w.Resources())
	require.True(t, ok)
	require.Equal(t, 100.0, b.W)

	RemoveResource[bounds](w.Resources())
	_, ok = GetResource[bounds](w.Resources())
	require.False(t, ok)
}
