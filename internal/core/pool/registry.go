package pool

import (
	"errors"
	"fmt"

	"github.com/framestep/framestep/internal/core/ecs"
	"github.com/framestep/framestep/internal/core/observability/log"
)

var (
	// ErrDuplicatePool reports a second registration under one id.
	ErrDuplicatePool = errors.New("pool: id already registered")
	// ErrUnknownPool reports a lookup for an id nobody registered.
	ErrUnknownPool = errors.New("pool: unknown id")
)

// Registry maps pool ids to their owning pools so generic despawn commands
// can be routed without the issuer knowing the backing pool.
type Registry struct {
	pools  map[string]*GameObjectPool
	logger log.Log
}

// NewRegistry creates an empty pool registry.
func NewRegistry(logger log.Log) *Registry {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Registry{
		pools:  make(map[string]*GameObjectPool, 8),
		logger: logger.Scope("pool.registry"),
	}
}

// Register adds a pool. Duplicate ids are a configuration error.
func (r *Registry) Register(p *GameObjectPool) error {
	if _, ok := r.pools[p.ID()]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicatePool, p.ID())
	}
	r.pools[p.ID()] = p
	return nil
}

// Get returns the pool registered under id.
func (r *Registry) Get(id string) (*GameObjectPool, error) {
	p, ok := r.pools[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPool, id)
	}
	return p, nil
}

// Release routes a live pooled entity back to its owning pool via its Member
// tag. Returns false for entities that are dead or not pool-owned; such
// despawn races are expected and only logged.
func (r *Registry) Release(w *ecs.World, e ecs.Entity) bool {
	m, ok := ecs.Get[Member](w, e)
	if !ok {
		r.logger.Debug("release target has no pool membership", log.Uint32("entity", e.ID))
		return false
	}
	p, ok := r.pools[m.Pool]
	if !ok {
		r.logger.Warn("membership names unregistered pool", log.String("pool", m.Pool))
		return false
	}
	return p.Release(e)
}

// Each calls fn for every registered pool.
func (r *Registry) Each(fn func(*GameObjectPool)) {
	for _, p := range r.pools {
		fn(p)
	}
}
