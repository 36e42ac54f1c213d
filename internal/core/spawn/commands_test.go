package spawn

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/framestep/framestep/internal/core/command"
	"github.com/framestep/framestep/internal/core/ecs"
	"github.com/framestep/framestep/internal/core/pool"
)

func newCommandFixture(t *testing.T) (*ecs.World, *pool.GameObjectPool, *command.Buffer) {
	t.Helper()
	w, pools, s := newSpawnFixture(t, 3)
	require.NoError(t, s.AddProfile(Profile{
		ID:   "enemy",
		Pool: "enemies",
		Initializers: []Initializer{
			AttachInit(func(at Placement) pos { return pos{X: at.X, Y: at.Y} }),
		},
	}))
	reg := command.NewRegistry()
	require.NoError(t, RegisterDispatchers(reg, s, pools))
	p, err := pools.Get("enemies")
	require.NoError(t, err)
	return w, p, command.NewBuffer(reg, nil)
}

func TestSpawnCommand(t *testing.T) {
	w, p, buf := newCommandFixture(t)

	require.NoError(t, buf.AddWorld(SpawnCommand{Profile: "enemy", Count: 2}))
	require.Equal(t, 0, p.LiveCount(), "nothing happens before the flush")

	buf.Flush(w)
	require.Equal(t, 2, p.LiveCount())

	// Zero count defaults to one unit.
	require.NoError(t, buf.AddWorld(SpawnCommand{Profile: "enemy"}))
	buf.Flush(w)
	require.Equal(t, 3, p.LiveCount())
}

func TestDespawnCommand(t *testing.T) {
	w, p, buf := newCommandFixture(t)

	e, ok := p.Acquire()
	require.True(t, ok)
	require.NoError(t, buf.Add(e, DespawnCommand{}))
	buf.Flush(w)
	require.Equal(t, 0, p.LiveCount())
	require.Equal(t, p.Capacity(), p.FreeCount())
	require.True(t, w.Alive(e), "despawn releases, it does not destroy")
}

func TestDespawnCommand_DeadTarget(t *testing.T) {
	// The target was destroyed earlier in the same frame: the flush must
	// complete without fault and the entity stays dead.
	w, p, buf := newCommandFixture(t)

	e, ok := p.Acquire()
	require.True(t, ok)
	require.NoError(t, buf.Add(e, DespawnCommand{}))
	require.True(t, w.DestroyEntity(e))

	require.NotPanics(t, func() { buf.Flush(w) })
	require.False(t, w.Alive(e))
	require.Equal(t, uint64(1), buf.Dropped())
}
