package loop

import (
	"errors"
	"time"
)

// System is a per-frame processor. Update runs synchronously inside its pass,
// in declared registration order; a returned error aborts the remaining
// systems of the pass for the current frame only.
type System interface {
	Name() string
	Update(ctx *Context) error
}

// SystemFunc adapts a bare function to System.
type SystemFunc struct {
	SystemName string
	Fn         func(ctx *Context) error
}

func (s SystemFunc) Name() string              { return s.SystemName }
func (s SystemFunc) Update(ctx *Context) error { return s.Fn(ctx) }

// Manager holds deferred structural work accumulated during a frame (pool
// release queues, spawn grants). The loop flushes every registered manager at
// structural commit points, after the command flush and event swap.
type Manager interface {
	Name() string
	Flush(ctx *Context) error
}

// CommitKind declares what a pass guarantees once its last system returns.
type CommitKind uint8

const (
	// CommitNone: no barrier; deferred state stays deferred.
	CommitNone CommitKind = iota
	// CommitDefault flushes the command buffer and swaps the event bus.
	// It gives no guarantee about entity or component existence changes.
	CommitDefault
	// CommitStructural additionally flushes registered managers, making
	// entity creation/destruction and attach/detach requested this pass
	// visible to subsequent passes.
	CommitStructural
)

func (c CommitKind) String() string {
	switch c {
	case CommitNone:
		return "none"
	case CommitDefault:
		return "default"
	case CommitStructural:
		return "structural"
	default:
		return "unknown"
	}
}

// SystemStats is per-system execution accounting kept by the loop.
type SystemStats struct {
	Name      string
	Phase     string
	Pass      string
	Calls     uint64
	Errors    uint64
	LastTime  time.Duration
	TotalTime time.Duration
}

var (
	// ErrDuplicateSystem reports two systems registered under one name.
	ErrDuplicateSystem = errors.New("loop: duplicate system name")
	// ErrDuplicateManager reports two managers registered under one name.
	ErrDuplicateManager = errors.New("loop: duplicate manager name")
	// ErrEmptyTopology reports a phase or pass with nothing to run.
	ErrEmptyTopology = errors.New("loop: empty phase or pass")
)
