package ecs

// Entity is a generation-tagged handle for a simulated object. It combines a
// recyclable 32-bit slot ID with a 32-bit version so that a handle kept across
// a destroy/create cycle resolves to "not found" instead of aliasing the new
// occupant of the slot.
type Entity struct {
	ID      uint32
	Version uint32
}

// Nil is the zero Entity. No live entity ever has Version 0, so the zero value
// is always invalid.
var Nil = Entity{}

// IsNil reports whether e is the zero handle.
func (e Entity) IsNil() bool {
	return e.Version == 0
}

// entityMeta holds per-slot registry state. Version 0 marks a dead slot.
type entityMeta struct {
	version uint32
}
