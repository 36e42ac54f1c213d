package spawn

import (
	"github.com/framestep/framestep/internal/core/command"
	"github.com/framestep/framestep/internal/core/ecs"
	"github.com/framestep/framestep/internal/core/pool"
)

// SpawnCommand is the world-scoped intent to spawn Count units of a profile.
// Systems emit it through the command buffer; the dispatcher runs at a commit
// point where acquisition is safe.
type SpawnCommand struct {
	Profile string
	Count   int
}

// DespawnCommand is the entity-scoped intent to return a pooled entity to
// its pool. If the target died earlier in the frame the buffer drops the
// command before it ever reaches the dispatcher.
type DespawnCommand struct{}

// RegisterDispatchers binds the spawn and despawn dispatchers. Call once
// during engine assembly.
func RegisterDispatchers(reg *command.Registry, s *Scheduler, pools *pool.Registry) error {
	err := command.Register(reg, func(w *ecs.World, _ ecs.Entity, cmd SpawnCommand) error {
		count := cmd.Count
		if count <= 0 {
			count = 1
		}
		s.SpawnNow(w, cmd.Profile, count)
		return nil
	})
	if err != nil {
		return err
	}
	return command.Register(reg, func(w *ecs.World, target ecs.Entity, _ DespawnCommand) error {
		pools.Release(w, target)
		return nil
	})
}
