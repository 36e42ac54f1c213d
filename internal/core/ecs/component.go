package ecs

// Cloner is the capability interface for value-semantic duplication of a
// component payload without the caller knowing its concrete type. Prefabs use
// it to stamp fresh copies of their template components onto acquired
// entities; component types holding reference state (slices, maps) implement
// it with a deep copy, plain value types can rely on assignment instead.
type Cloner interface {
	CloneComponent() any
}

// CloneValue duplicates v through its Cloner implementation when it has one,
// falling back to plain value copy otherwise.
func CloneValue[T any](v T) T {
	if c, ok := any(v).(Cloner); ok {
		return c.CloneComponent().(T)
	}
	return v
}
