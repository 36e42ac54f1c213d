package pool

import "github.com/framestep/framestep/internal/core/ecs"

// Prefab is the initial component configuration a pool stamps onto every
// acquired entity. Each registered component contributes an applier (attach a
// fresh clone of the template value) and a remover (detach on release), so
// the pool never needs to know concrete component types.
type Prefab struct {
	appliers []func(w *ecs.World, e ecs.Entity)
	removers []func(w *ecs.World, e ecs.Entity)
}

// NewPrefab creates an empty prefab.
func NewPrefab() *Prefab {
	return &Prefab{}
}

// Component registers a template value of type T on the prefab. The template
// is cloned per acquisition, so reference-holding components get their own
// state (see ecs.Cloner).
func Component[T any](p *Prefab, template T) *Prefab {
	p.appliers = append(p.appliers, func(w *ecs.World, e ecs.Entity) {
		ecs.Attach(w, e, ecs.CloneValue(template))
	})
	p.removers = append(p.removers, func(w *ecs.World, e ecs.Entity) {
		ecs.Detach[T](w, e)
	})
	return p
}

// apply stamps the prefab configuration onto e.
func (p *Prefab) apply(w *ecs.World, e ecs.Entity) {
	for _, f := range p.appliers {
		f(w, e)
	}
}

// strip detaches every prefab-managed component from e.
func (p *Prefab) strip(w *ecs.World, e ecs.Entity) {
	for _, f := range p.removers {
		f(w, e)
	}
}
