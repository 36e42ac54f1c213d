package loop

import (
	"github.com/framestep/framestep/internal/core/command"
	"github.com/framestep/framestep/internal/core/ecs"
	"github.com/framestep/framestep/internal/core/events/bus"
	"github.com/framestep/framestep/internal/core/observability/log"
	"github.com/framestep/framestep/internal/core/pool"
)

// Context is the non-owning view of the simulation a system receives in
// Update. The world, buffer, bus and pools stay owned by the loop; systems
// must route structural changes through Commands, never mutate storages
// mid-pass.
type Context struct {
	world  *ecs.World
	buffer *command.Buffer
	bus    *bus.Bus
	pools  *pool.Registry
	logger log.Log

	input InputSnapshot
	delta float64
	frame uint64
}

// World returns the entity/component store.
func (c *Context) World() *ecs.World { return c.world }

// Commands returns the frame's deferred command buffer.
func (c *Context) Commands() *command.Buffer { return c.buffer }

// Events returns the double-buffered event bus.
func (c *Context) Events() *bus.Bus { return c.bus }

// Pools returns the pool registry.
func (c *Context) Pools() *pool.Registry { return c.pools }

// Input returns the frame's immutable device snapshot.
func (c *Context) Input() InputSnapshot { return c.input }

// Delta returns the frame's time step in seconds.
func (c *Context) Delta() float64 { return c.delta }

// Frame returns the running frame counter, starting at 1.
func (c *Context) Frame() uint64 { return c.frame }

// Log returns the loop's diagnostic sink.
func (c *Context) Log() log.Log { return c.logger }
