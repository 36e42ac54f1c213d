package command

import (
	"errors"

	"github.com/framestep/framestep/internal/core/ecs"
)

// Command is any value describing a deferred action. Systems emit intents
// ("spawn", "despawn", "move") as plain structs; the buffer routes each one by
// its concrete type to the dispatcher registered for that type at setup.
type Command = any

// Dispatcher converts one command value into direct world mutation. target is
// ecs.Nil for world-scoped commands. Registered through the generic Register
// so implementations stay fully typed.
type Dispatcher func(w *ecs.World, target ecs.Entity, cmd Command) error

var (
	// ErrDuplicateDispatcher reports a second registration for the same
	// command type. Setup mistake, surfaced loudly.
	ErrDuplicateDispatcher = errors.New("command: dispatcher already registered for type")
	// ErrNoDispatcher reports an enqueue for a command type nobody
	// registered a dispatcher for. Setup mistake, surfaced at the earliest
	// point the concrete type is known.
	ErrNoDispatcher = errors.New("command: no dispatcher registered for type")
)
