package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestView2_Intersection(t *testing.T) {
	w := NewWorld(16, nil)

	both := w.CreateEntities(3)
	for i, e := range both {
		Attach(w, e, position{X: float64(i)})
		Attach(w, e, velocity{DX: float64(i) * 10})
	}
	posOnly := w.CreateEntity()
	Attach(w, posOnly, position{X: 99})
	velOnly := w.CreateEntity()
	Attach(w, velOnly, velocity{DX: 99})

	v := NewView2[position, velocity](w)
	seen := map[uint32]bool{}
	for v.Next() {
		e := v.Entity()
		p, vel := v.Get()
		require.Equal(t, p.X*10, vel.DX)
		seen[e.ID] = true
	}
	require.Len(t, seen, 3)
	require.False(t, seen[posOnly.ID])
	require.False(t, seen[velOnly.ID])
}

func TestView2_DrivesFromSmallerStore(t *testing.T) {
	w := NewWorld(64, nil)
	for _, e := range w.CreateEntities(20) {
		Attach(w, e, position{})
	}
	small := w.CreateEntity()
	Attach(w, small, position{})
	Attach(w, small, velocity{DX: 1})

	v := NewView2[position, velocity](w)
	count := 0
	for v.Next() {
		count++
	}
	require.Equal(t, 1, count)

	// Reset re-picks the driver and replays the same membership.
	v.Reset()
	count = 0
	for v.Next() {
		count++
	}
	require.Equal(t, 1, count)
}

func TestView3_Intersection(t *testing.T) {
	w := NewWorld(16, nil)

	full := w.CreateEntity()
	Attach(w, full, position{X: 1})
	Attach(w, full, velocity{DX: 2})
	Attach(w, full, health{Current: 3, Max: 3})

	partial := w.CreateEntity()
	Attach(w, partial, position{})
	Attach(w, partial, velocity{})

	v := NewView3[position, velocity, health](w)
	require.True(t, v.Next())
	require.Equal(t, full, v.Entity())
	p, vel, h := v.Get()
	require.Equal(t, 1.0, p.X)
	require.Equal(t, 2.0, vel.DX)
	require.Equal(t, 3, h.Current)
	require.False(t, v.Next())
}

func TestView2_EmptyStores(t *testing.T) {
	w := NewWorld(4, nil)
	v := NewView2[position, velocity](w)
	require.False(t, v.Next())
}

func TestView2_GetWithoutCursor(t *testing.T) {
	w := NewWorld(4, nil)
	v := NewView2[position, velocity](w)

	// Before any Next, including over empty stores, Get must not panic.
	p, vel := v.Get()
	require.Nil(t, p)
	require.Nil(t, vel)

	e := w.CreateEntity()
	Attach(w, e, position{X: 1})
	Attach(w, e, velocity{DX: 2})
	v.Reset()
	require.True(t, v.Next())
	p, vel = v.Get()
	require.NotNil(t, p)
	require.NotNil(t, vel)

	// Reset discards the cursor again.
	v.Reset()
	p, vel = v.Get()
	require.Nil(t, p)
	require.Nil(t, vel)
}

func TestView3_GetWithoutCursor(t *testing.T) {
	w := NewWorld(4, nil)
	v := NewView3[position, velocity, health](w)
	p, vel, h := v.Get()
	require.Nil(t, p)
	require.Nil(t, vel)
	require.Nil(t, h)
}
