package ecs

import (
	"reflect"

	"github.com/framestep/framestep/internal/core/observability/log"
)

// MaxComponentTypes caps the number of distinct component types a World can
// index. Type IDs are dense small integers assigned at first use.
const MaxComponentTypes = 256

// World owns the entity registry and every per-type component store for one
// simulation instance. It is not safe for concurrent use; the frame loop is
// the single writer by construction.
type World struct {
	metas     []entityMeta
	freeIDs   []uint32
	nextVer   uint32
	stores    []storeEntry
	typeIDs   map[reflect.Type]uint8
	resources *Resources
	logger    log.Log
}

type storeEntry struct {
	typ   reflect.Type
	store store
}

// store is the type-erased face of a Store[T], enough for the World to evict
// a destroyed entity from every container it appears in.
type store interface {
	remove(e Entity) bool
	clear()
	size() int
}

// NewWorld creates a World preallocated for the given number of entities.
// Capacity grows on demand afterwards.
func NewWorld(initialCapacity int, logger log.Log) *World {
	if logger == nil {
		logger = log.NewNop()
	}
	w := &World{
		metas:     make([]entityMeta, initialCapacity),
		freeIDs:   make([]uint32, initialCapacity),
		nextVer:   1,
		stores:    make([]storeEntry, 0, 16),
		typeIDs:   make(map[reflect.Type]uint8, 16),
		resources: &Resources{},
		logger:    logger.Scope("ecs"),
	}
	for i := range w.freeIDs {
		w.freeIDs[i] = uint32(initialCapacity - 1 - i)
	}
	return w
}

// CreateEntity issues a fresh handle in amortized O(1).
func (w *World) CreateEntity() Entity {
	if len(w.freeIDs) == 0 {
		w.expand(1)
	}
	last := len(w.freeIDs) - 1
	id := w.freeIDs[last]
	w.freeIDs = w.freeIDs[:last]
	w.metas[id].version = w.nextVer
	e := Entity{ID: id, Version: w.nextVer}
	w.nextVer++
	return e
}

// CreateEntities issues a batch of fresh handles. Used by pools to claim their
// full population up front.
func (w *World) CreateEntities(count int) []Entity {
	ents := make([]Entity, count)
	for i := range ents {
		ents[i] = w.CreateEntity()
	}
	return ents
}

// DestroyEntity invalidates the handle and evicts the entity from every store
// that held it, O(1) per store. Destroying a stale or unknown handle is a
// no-op returning false.
func (w *World) DestroyEntity(e Entity) bool {
	if !w.Alive(e) {
		return false
	}
	for i := range w.stores {
		w.stores[i].store.remove(e)
	}
	w.metas[e.ID].version = 0
	w.freeIDs = append(w.freeIDs, e.ID)
	return true
}

// Alive reports whether the handle refers to a live entity. A stale handle
// (reused slot, old version) is not alive.
func (w *World) Alive(e Entity) bool {
	if int(e.ID) >= len(w.metas) {
		return false
	}
	m := w.metas[e.ID]
	return m.version != 0 && m.version == e.Version
}

// Clear destroys every entity and empties every store, keeping registered
// component types and allocated memory for reuse.
func (w *World) Clear() {
	for i := range w.metas {
		w.metas[i].version = 0
	}
	w.freeIDs = w.freeIDs[:0]
	for i := len(w.metas) - 1; i >= 0; i-- {
		w.freeIDs = append(w.freeIDs, uint32(i))
	}
	for i := range w.stores {
		w.stores[i].store.clear()
	}
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	return len(w.metas) - len(w.freeIDs)
}

// Resources returns the world-scoped singleton store.
func (w *World) Resources() *Resources {
	return w.resources
}

func (w *World) expand(additional int) {
	oldCap := len(w.metas)
	newCap := oldCap * 2
	if newCap == 0 {
		newCap = 1
	}
	if newCap < oldCap+additional {
		newCap = oldCap + additional
	}
	delta := newCap - oldCap
	w.metas = append(w.metas, make([]entityMeta, delta)...)
	for i := newCap - 1; i >= oldCap; i-- {
		w.freeIDs = append(w.freeIDs, uint32(i))
	}
}

// typeID registers or fetches the dense ID for a component type.
func (w *World) typeID(t reflect.Type) uint8 {
	if id, ok := w.typeIDs[t]; ok {
		return id
	}
	if len(w.stores) >= MaxComponentTypes {
		panic("ecs: too many component types")
	}
	id := uint8(len(w.stores))
	w.typeIDs[t] = id
	w.stores = append(w.stores, storeEntry{typ: t})
	return id
}
