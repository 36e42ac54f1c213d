package ecs

import "reflect"

// Store is the per-type component container: a dense, hole-free slice of T
// plus a sparse slot-indexed table mapping entity ID to dense position.
// Removal swaps the last element into the vacated position and fixes the
// moved entity's sparse slot, so attach, detach, lookup and membership are
// all O(1) and iteration touches one contiguous slice.
type Store[T any] struct {
	dense    []T
	entities []Entity
	sparse   []int32
}

var _ store = (*Store[int])(nil)

// StoreFor returns the Store for component type T, registering the type on
// first use.
func StoreFor[T any](w *World) *Store[T] {
	id := w.typeID(reflect.TypeOf((*T)(nil)).Elem())
	entry := &w.stores[id]
	if entry.store == nil {
		entry.store = &Store[T]{sparse: make([]int32, 0, len(w.metas))}
	}
	return entry.store.(*Store[T])
}

// Attach sets the T value for e, inserting or overwriting. Returns false and
// does nothing if the handle is stale or unknown.
func Attach[T any](w *World, e Entity, value T) bool {
	if !w.Alive(e) {
		return false
	}
	s := StoreFor[T](w)
	if idx, ok := s.index(e); ok {
		s.dense[idx] = value
		return true
	}
	s.ensure(e.ID)
	s.dense = append(s.dense, value)
	s.entities = append(s.entities, e)
	s.sparse[e.ID] = int32(len(s.dense) - 1)
	return true
}

// Detach removes the T value for e. Returns false if e is stale, unknown, or
// has no T attached.
func Detach[T any](w *World, e Entity) bool {
	if !w.Alive(e) {
		return false
	}
	return StoreFor[T](w).remove(e)
}

// Get returns a pointer to e's T value. The pointer stays valid until the
// next structural change to this store.
func Get[T any](w *World, e Entity) (*T, bool) {
	if !w.Alive(e) {
		return nil, false
	}
	s := StoreFor[T](w)
	idx, ok := s.index(e)
	if !ok {
		return nil, false
	}
	return &s.dense[idx], true
}

// Has reports whether e currently has a T attached.
func Has[T any](w *World, e Entity) bool {
	if !w.Alive(e) {
		return false
	}
	_, ok := StoreFor[T](w).index(e)
	return ok
}

// Len returns the number of attached components.
func (s *Store[T]) Len() int {
	return len(s.dense)
}

// Entities returns the dense entity list. Read-only; order is unspecified and
// changes on removal.
func (s *Store[T]) Entities() []Entity {
	return s.entities
}

// At returns a pointer to the component at dense position i, paired with its
// owning entity.
func (s *Store[T]) At(i int) (Entity, *T) {
	return s.entities[i], &s.dense[i]
}

// index resolves e to its dense position, verifying the stored handle so a
// stale handle over a reused slot never resolves.
func (s *Store[T]) index(e Entity) (int, bool) {
	if int(e.ID) >= len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[e.ID]
	if idx < 0 || s.entities[idx] != e {
		return 0, false
	}
	return int(idx), true
}

func (s *Store[T]) ensure(id uint32) {
	for int(id) >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
}

func (s *Store[T]) remove(e Entity) bool {
	idx, ok := s.index(e)
	if !ok {
		return false
	}
	last := len(s.dense) - 1
	if idx < last {
		moved := s.entities[last]
		s.dense[idx] = s.dense[last]
		s.entities[idx] = moved
		s.sparse[moved.ID] = int32(idx)
	}
	var zero T
	s.dense[last] = zero
	s.dense = s.dense[:last]
	s.entities = s.entities[:last]
	s.sparse[e.ID] = -1
	return true
}

func (s *Store[T]) clear() {
	var zero T
	for i := range s.dense {
		s.dense[i] = zero
	}
	s.dense = s.dense[:0]
	s.entities = s.entities[:0]
	for i := range s.sparse {
		s.sparse[i] = -1
	}
}

func (s *Store[T]) size() int {
	return len(s.dense)
}
