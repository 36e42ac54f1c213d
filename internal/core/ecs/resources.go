package ecs

import "reflect"

// Resources is a world-scoped singleton store keyed by type: shared rng,
// world bounds, tuning tables. At most one value per type.
type Resources struct {
	items map[reflect.Type]any
}

// AddResource stores the value for type T. Returns false if a T is already
// present; duplicate resources indicate a wiring mistake and the first one
// wins.
func AddResource[T any](r *Resources, value T) bool {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if r.items == nil {
		r.items = make(map[reflect.Type]any, 8)
	}
	if _, ok := r.items[t]; ok {
		return false
	}
	r.items[t] = value
	return true
}

// GetResource fetches the stored T, if any.
func GetResource[T any](r *Resources) (T, bool) {
	var zero T
	if r.items == nil {
		return zero, false
	}
	v, ok := r.items[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return zero, false
	}
	return v.(T), true
}

// RemoveResource drops the stored T.
func RemoveResource[T any](r *Resources) {
	if r.items != nil {
		delete(r.items, reflect.TypeOf((*T)(nil)).Elem())
	}
}

// Clear drops everything.
func (r *Resources) Clear() {
	r.items = nil
}
