package bus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type collisionEvent struct{ A, B uint32 }
type damageEvent struct{ Target uint32; Amount int }

func TestBus_EventsInvisibleUntilSwap(t *testing.T) {
	b := New()
	Push(b, collisionEvent{A: 1, B: 2})

	require.Empty(t, Read[collisionEvent](b), "pushed events stay hidden until the swap")
	require.Equal(t, 1, b.Pending())

	b.SwapBuffers()
	evs := Read[collisionEvent](b)
	require.Len(t, evs, 1)
	require.Equal(t, uint32(1), evs[0].A)
	require.Equal(t, 0, b.Pending())
	require.Equal(t, 1, b.Visible())
}

func TestBus_OneGenerationOfVisibility(t *testing.T) {
	b := New()
	Push(b, collisionEvent{A: 1})
	b.SwapBuffers()
	require.Len(t, Read[collisionEvent](b), 1)

	// Nothing pushed this frame: the next swap must retire the old events.
	b.SwapBuffers()
	require.Empty(t, Read[collisionEvent](b))
}

func TestBus_TypesAreIndependent(t *testing.T) {
	b := New()
	Push(b, collisionEvent{A: 1})
	Push(b, damageEvent{Target: 7, Amount: 3})
	Push(b, damageEvent{Target: 8, Amount: 4})
	b.SwapBuffers()

	require.Len(t, Read[collisionEvent](b), 1)
	require.Len(t, Read[damageEvent](b), 2)

	// A type never pushed reads empty without registering side effects.
	type neverUsed struct{}
	require.Empty(t, Read[neverUsed](b))
}

func TestBus_WriteDuringReadGeneration(t *testing.T) {
	b := New()
	Push(b, damageEvent{Target: 1})
	b.SwapBuffers()

	// Producing while consumers read the prior generation must not disturb it.
	Push(b, damageEvent{Target: 2})
	Push(b, damageEvent{Target: 3})
	evs := Read[damageEvent](b)
	require.Len(t, evs, 1)
	require.Equal(t, uint32(1), evs[0].Target)

	b.SwapBuffers()
	evs = Read[damageEvent](b)
	require.Len(t, evs, 2)
	require.Equal(t, uint32(2), evs[0].Target)
}

func TestBus_Clear(t *testing.T) {
	b := New()
	Push(b, collisionEvent{})
	b.SwapBuffers()
	Push(b, collisionEvent{})

	b.Clear()
	require.Empty(t, Read[collisionEvent](b))
	require.Equal(t, 0, b.Pending())
	b.SwapBuffers()
	require.Empty(t, Read[collisionEvent](b))
}
