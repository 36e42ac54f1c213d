package runtime

import "github.com/framestep/framestep/internal/core/ecs"

// Position is a world-space location with a facing angle in radians.
type Position struct {
	X, Y  float64
	Angle float64
}

// Velocity is a per-second displacement.
type Velocity struct {
	DX, DY float64
}

// Lifetime counts down to automatic despawn.
type Lifetime struct {
	Remaining float64
}

// Spawned is published when a rule places a unit.
type Spawned struct {
	Profile string
	Entity  ecs.Entity
}

// Expired is published when a unit's lifetime runs out.
type Expired struct {
	Entity ecs.Entity
}
