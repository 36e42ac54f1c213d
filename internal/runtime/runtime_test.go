package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/framestep/framestep/internal/config"
	"github.com/framestep/framestep/internal/core/ecs"
	"github.com/framestep/framestep/internal/core/loop"
)

func testConfig() config.Config {
	c := config.Default()
	c.Engine.Seed = 7
	c.Pools = []config.PoolConfig{{Name: "enemies", Capacity: 8}}
	c.Spawns = []config.SpawnConfig{{
		ID:       "wave",
		Pool:     "enemies",
		Interval: 1,
		Amount:   config.AmountConfig{Min: 2},
		Bounds:   config.BoundsConfig{MaxX: 10, MaxY: 10},
		Lifetime: 3,
		Speed:    4,
	}}
	return c
}

func step(sim *Simulation, dt float64, frames int) {
	input := loop.NewInputSnapshot(nil, nil)
	for i := 0; i < frames; i++ {
		sim.Loop.Update(dt, input)
	}
}

func TestSimulation_SpawnsOnInterval(t *testing.T) {
	sim, err := NewSimulation(testConfig(), nil)
	require.NoError(t, err)
	defer sim.Close()

	pool, err := sim.Pools.Get("enemies")
	require.NoError(t, err)

	// Three quarter-second frames: the one-second timer has not fired.
	step(sim, 0.25, 3)
	require.Equal(t, 0, pool.LiveCount())

	// Crossing the one-second mark places two units.
	step(sim, 0.25, 1)
	require.Equal(t, 2, pool.LiveCount())

	for _, e := range liveEntities(sim) {
		require.True(t, ecs.Has[Position](sim.World, e))
		require.True(t, ecs.Has[Velocity](sim.World, e))
		require.True(t, ecs.Has[Lifetime](sim.World, e))
	}
}

func TestSimulation_MovementIntegrates(t *testing.T) {
	sim, err := NewSimulation(testConfig(), nil)
	require.NoError(t, err)
	defer sim.Close()

	step(sim, 1.0, 1) // spawn frame
	entities := liveEntities(sim)
	require.NotEmpty(t, entities)

	before := make(map[ecs.Entity]Position, len(entities))
	for _, e := range entities {
		p, ok := ecs.Get[Position](sim.World, e)
		require.True(t, ok)
		before[e] = *p
	}

	step(sim, 1.0, 1)
	moved := false
	for _, e := range entities {
		p, ok := ecs.Get[Position](sim.World, e)
		require.True(t, ok)
		if p.X != before[e].X || p.Y != before[e].Y {
			moved = true
		}
	}
	require.True(t, moved, "at least one unit has nonzero velocity")
}

func TestSimulation_LifetimeRecyclesUnits(t *testing.T) {
	sim, err := NewSimulation(testConfig(), nil)
	require.NoError(t, err)
	defer sim.Close()

	pool, err := sim.Pools.Get("enemies")
	require.NoError(t, err)

	// Lifetime is 3s and the interval 1s, so with a capacity of 8 the
	// pool reaches a steady state instead of exhausting: every frame
	// spawns two and each unit is released three frames later.
	step(sim, 1.0, 20)
	require.Greater(t, pool.LiveCount(), 0)
	require.Less(t, pool.LiveCount(), pool.Capacity())
	require.Equal(t, pool.Capacity(), pool.LiveCount()+pool.FreeCount())

	spawned, expired := sim.Telemetry.Counts()
	require.Greater(t, spawned, uint64(0))
	require.Greater(t, expired, uint64(0))
	require.GreaterOrEqual(t, spawned, expired)
}

func TestSimulation_DeterministicAcrossRuns(t *testing.T) {
	run := func() map[ecs.Entity]Position {
		sim, err := NewSimulation(testConfig(), nil)
		require.NoError(t, err)
		defer sim.Close()
		step(sim, 0.5, 12)
		out := make(map[ecs.Entity]Position)
		for _, e := range liveEntities(sim) {
			p, _ := ecs.Get[Position](sim.World, e)
			out[e] = *p
		}
		return out
	}
	require.Equal(t, run(), run())
}

func TestRuntime_Lifecycle(t *testing.T) {
	cfg := testConfig()
	cfg.Engine.TickRate = 200
	cfg.Engine.MaxFrames = 5
	cfg.Engine.StatsInterval = 0

	r, err := New(cfg, nil)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	require.ErrorIs(t, r.Wait(), ErrRuntimeNotRunning)
	require.NoError(t, r.Start(context.Background()))
	require.ErrorIs(t, r.Start(context.Background()), ErrRuntimeAlreadyRunning)

	done := make(chan error, 1)
	go func() { done <- r.Wait() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runtime did not reach its frame budget")
	}
	require.Equal(t, uint64(5), r.Simulation().Loop.Frame())

	require.NoError(t, r.Close())
	require.ErrorIs(t, r.Start(context.Background()), ErrRuntimeClosed)
}

func liveEntities(sim *Simulation) []ecs.Entity {
	store := ecs.StoreFor[Position](sim.World)
	out := make([]ecs.Entity, 0, store.Len())
	for _, e := range store.Entities() {
		out = append(out, e)
	}
	return out
}
