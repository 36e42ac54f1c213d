package pool

import (
	"github.com/google/uuid"

	"github.com/framestep/framestep/internal/core/ecs"
	"github.com/framestep/framestep/internal/core/observability/log"
)

// Member tags a live pooled entity with its owning pool so world-scoped
// despawns can be routed without the issuing system knowing which pool backs
// the entity. Seq increments on every acquisition, so a Member value
// identifies one Live incarnation of a slot, not the slot itself.
type Member struct {
	Pool string
	Seq  uint64
}

// GameObjectPool owns a fixed set of entities and recycles them between Free
// and Live. Entities are created once at construction and never destroyed by
// the pool; acquisition re-stamps the prefab configuration, release strips
// it. Free + Live always equals the configured capacity.
type GameObjectPool struct {
	id       string
	world    *ecs.World
	prefab   *Prefab
	free     []ecs.Entity
	live     map[ecs.Entity]struct{}
	capacity int
	seq      uint64
	logger   log.Log
}

// New creates a pool of the given capacity, claiming its entities from w up
// front. An empty id gets a generated one.
func New(id string, w *ecs.World, capacity int, prefab *Prefab, logger log.Log) *GameObjectPool {
	if id == "" {
		id = uuid.NewString()
	}
	if prefab == nil {
		prefab = NewPrefab()
	}
	if logger == nil {
		logger = log.NewNop()
	}
	p := &GameObjectPool{
		id:       id,
		world:    w,
		prefab:   prefab,
		free:     make([]ecs.Entity, 0, capacity),
		live:     make(map[ecs.Entity]struct{}, capacity),
		capacity: capacity,
		logger:   logger.Scope("pool").With(log.String("pool", id)),
	}
	for _, e := range w.CreateEntities(capacity) {
		p.free = append(p.free, e)
	}
	return p
}

// ID returns the pool id.
func (p *GameObjectPool) ID() string { return p.id }

// Capacity returns the configured slot count.
func (p *GameObjectPool) Capacity() int { return p.capacity }

// FreeCount returns the number of slots available for acquisition.
func (p *GameObjectPool) FreeCount() int { return len(p.free) }

// LiveCount returns the number of acquired slots.
func (p *GameObjectPool) LiveCount() int { return len(p.live) }

// Acquire transitions a Free entity to Live, stamps the prefab configuration
// plus the Member tag, and returns the handle. Fails (false) when the pool is
// exhausted; it never grows.
func (p *GameObjectPool) Acquire() (ecs.Entity, bool) {
	if len(p.free) == 0 {
		p.logger.Debug("acquire on exhausted pool")
		return ecs.Nil, false
	}
	last := len(p.free) - 1
	e := p.free[last]
	p.free = p.free[:last]
	p.live[e] = struct{}{}
	p.seq++
	p.prefab.apply(p.world, e)
	ecs.Attach(p.world, e, Member{Pool: p.id, Seq: p.seq})
	return e, true
}

// Release transitions a Live entity back to Free, detaching its prefab state.
// The entity keeps its identity for pool-internal reuse. Releasing an entity
// the pool does not currently own is a no-op returning false.
func (p *GameObjectPool) Release(e ecs.Entity) bool {
	if _, ok := p.live[e]; !ok {
		p.logger.Debug("release of entity not live in pool", log.Uint32("entity", e.ID))
		return false
	}
	delete(p.live, e)
	p.prefab.strip(p.world, e)
	ecs.Detach[Member](p.world, e)
	p.free = append(p.free, e)
	return true
}

// ReleaseAll returns every live entity to the free set.
func (p *GameObjectPool) ReleaseAll() {
	for e := range p.live {
		p.prefab.strip(p.world, e)
		ecs.Detach[Member](p.world, e)
		p.free = append(p.free, e)
	}
	clear(p.live)
}
