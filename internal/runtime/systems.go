package runtime

import (
	"github.com/framestep/framestep/internal/core/ecs"
	"github.com/framestep/framestep/internal/core/events/bus"
	"github.com/framestep/framestep/internal/core/loop"
	"github.com/framestep/framestep/internal/core/observability/log"
	"github.com/framestep/framestep/internal/core/spawn"
)

// MovementSystem integrates positions from velocities.
type MovementSystem struct {
	view *ecs.View2[Position, Velocity]
}

func NewMovementSystem(w *ecs.World) *MovementSystem {
	return &MovementSystem{view: ecs.NewView2[Position, Velocity](w)}
}

func (s *MovementSystem) Name() string { return "movement" }

func (s *MovementSystem) Update(ctx *loop.Context) error {
	dt := ctx.Delta()
	s.view.Reset()
	for s.view.Next() {
		pos, vel := s.view.Get()
		pos.X += vel.DX * dt
		pos.Y += vel.DY * dt
	}
	return nil
}

// LifetimeSystem counts lifetimes down and requests despawn for expired
// units. The despawn itself waits for the next command flush, so a unit
// stays queryable for the rest of the pass it expired in.
type LifetimeSystem struct{}

func (LifetimeSystem) Name() string { return "lifetime" }

func (LifetimeSystem) Update(ctx *loop.Context) error {
	dt := ctx.Delta()
	store := ecs.StoreFor[Lifetime](ctx.World())
	for i := 0; i < store.Len(); i++ {
		e, life := store.At(i)
		life.Remaining -= dt
		if life.Remaining > 0 {
			continue
		}
		if err := ctx.Commands().Add(e, spawn.DespawnCommand{}); err != nil {
			return err
		}
		bus.Push(ctx.Events(), Expired{Entity: e})
	}
	return nil
}

// TelemetrySystem drains the previous frame's lifecycle events into the
// log. It reads the swapped buffers, so each event is observed exactly
// once, one frame after it was published.
type TelemetrySystem struct {
	spawned uint64
	expired uint64
}

func (s *TelemetrySystem) Name() string { return "telemetry" }

func (s *TelemetrySystem) Update(ctx *loop.Context) error {
	for _, ev := range bus.Read[Spawned](ctx.Events()) {
		s.spawned++
		ctx.Log().Debug("Unit spawned",
			log.String("profile", ev.Profile),
			log.Uint32("entity", ev.Entity.ID))
	}
	for _, ev := range bus.Read[Expired](ctx.Events()) {
		s.expired++
		ctx.Log().Debug("Unit expired", log.Uint32("entity", ev.Entity.ID))
	}
	return nil
}

// Counts reports how many lifecycle events the system has observed.
func (s *TelemetrySystem) Counts() (spawned, expired uint64) {
	return s.spawned, s.expired
}
