package spawn

import (
	"math/rand"

	"github.com/framestep/framestep/internal/core/ecs"
)

// SpawnContext is what initializers run against: the world, the scheduler's
// seeded rng, and the scheduler's delay queue for work that should land some
// seconds after the spawn.
type SpawnContext struct {
	World *ecs.World
	Rand  *rand.Rand

	scheduler *Scheduler
}

// After schedules fn to run against e once delay seconds of simulation time
// have passed. If e is dead, or has left the Live incarnation it was pooled
// under, the work is skipped; that race is expected, not an error.
func (c *SpawnContext) After(delay float64, e ecs.Entity, fn func(*ecs.World, ecs.Entity)) {
	c.scheduler.deferWork(c.World, delay, e, fn)
}

// Initializer configures one freshly acquired entity from its placement.
// Profiles run their initializers in declared order.
type Initializer interface {
	Init(ctx *SpawnContext, e ecs.Entity, at Placement) error
}

// InitFunc adapts a function to Initializer.
type InitFunc func(ctx *SpawnContext, e ecs.Entity, at Placement) error

func (f InitFunc) Init(ctx *SpawnContext, e ecs.Entity, at Placement) error {
	return f(ctx, e, at)
}

// AttachInit builds an initializer that attaches the component computed from
// the placement. This is how placements become position or velocity
// components without the spawn package owning those types.
func AttachInit[T any](build func(at Placement) T) Initializer {
	return InitFunc(func(ctx *SpawnContext, e ecs.Entity, at Placement) error {
		ecs.Attach(ctx.World, e, build(at))
		return nil
	})
}

// DelayedAttach builds an initializer that attaches a clone of the template
// component after delay seconds of simulation time. Delayed component
// activation for staged behavior (arming delays, invulnerability windows).
func DelayedAttach[T any](delay float64, template T) Initializer {
	return InitFunc(func(ctx *SpawnContext, e ecs.Entity, _ Placement) error {
		ctx.After(delay, e, func(w *ecs.World, e ecs.Entity) {
			ecs.Attach(w, e, ecs.CloneValue(template))
		})
		return nil
	})
}
