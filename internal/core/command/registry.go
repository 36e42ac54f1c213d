package command

import (
	"fmt"
	"reflect"

	"github.com/framestep/framestep/internal/core/ecs"
)

// Registry maps each concrete command type to its single dispatcher. Filled
// once during engine assembly, read-only afterwards.
type Registry struct {
	dispatchers map[reflect.Type]Dispatcher
}

// NewRegistry creates an empty dispatcher registry.
func NewRegistry() *Registry {
	return &Registry{dispatchers: make(map[reflect.Type]Dispatcher, 16)}
}

// Register binds the dispatcher for command type T. A second registration for
// the same type is a configuration error.
func Register[T any](r *Registry, fn func(w *ecs.World, target ecs.Entity, cmd T) error) error {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if _, ok := r.dispatchers[t]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateDispatcher, t)
	}
	r.dispatchers[t] = func(w *ecs.World, target ecs.Entity, cmd Command) error {
		return fn(w, target, cmd.(T))
	}
	return nil
}

// MustRegister is Register that panics on misconfiguration. Intended for
// static setup code where a duplicate means a programming mistake.
func MustRegister[T any](r *Registry, fn func(w *ecs.World, target ecs.Entity, cmd T) error) {
	if err := Register(r, fn); err != nil {
		panic(err)
	}
}

// lookup resolves the dispatcher for a concrete command value.
func (r *Registry) lookup(cmd Command) (Dispatcher, bool) {
	d, ok := r.dispatchers[reflect.TypeOf(cmd)]
	return d, ok
}

// Registered reports whether a dispatcher exists for command type T.
func Registered[T any](r *Registry) bool {
	_, ok := r.dispatchers[reflect.TypeOf((*T)(nil)).Elem()]
	return ok
}
