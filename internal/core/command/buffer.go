package command

import (
	"fmt"
	"reflect"

	"github.com/framestep/framestep/internal/core/ecs"
	"github.com/framestep/framestep/internal/core/observability/log"
	"github.com/framestep/framestep/pkg/generic"
)

// queued is one pending command with its target. A Nil target means the
// command is world-scoped.
type queued struct {
	target ecs.Entity
	cmd    Command
}

// queuePool recycles drained queue slices across flushes.
var queuePool = generic.NewPool(func() []queued { return make([]queued, 0, 64) })

// Buffer accumulates deferred commands during a pass and replays them, in
// insertion order, when the frame loop reaches a commit point. Commands
// enqueued by a dispatcher during a flush land in the next flush, never the
// running one.
type Buffer struct {
	registry *Registry
	queue    []queued
	logger   log.Log
	dropped  uint64
	applied  uint64
}

// NewBuffer creates a Buffer routing through the given registry.
func NewBuffer(registry *Registry, logger log.Log) *Buffer {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Buffer{
		registry: registry,
		queue:    queuePool.Get(),
		logger:   logger.Scope("command"),
	}
}

// Add enqueues a command against a specific entity, O(1). The target need not
// be alive at flush time; a dead target drops the command silently. An
// unregistered command type is a configuration error and is rejected here.
func (b *Buffer) Add(target ecs.Entity, cmd Command) error {
	return b.push(target, cmd)
}

// AddWorld enqueues a command with no entity target.
func (b *Buffer) AddWorld(cmd Command) error {
	return b.push(ecs.Nil, cmd)
}

// Len reports the number of pending commands.
func (b *Buffer) Len() int {
	return len(b.queue)
}

// Applied returns the total number of commands dispatched over the buffer's
// lifetime.
func (b *Buffer) Applied() uint64 {
	return b.applied
}

// Dropped returns the total number of commands discarded for dead targets.
func (b *Buffer) Dropped() uint64 {
	return b.dropped
}

// Flush replays every queued command in insertion order against w and returns
// the number applied. Entity-scoped commands whose target died earlier in the
// frame are dropped with a diagnostic; dispatcher errors are logged and do
// not stop the replay.
func (b *Buffer) Flush(w *ecs.World) int {
	if len(b.queue) == 0 {
		return 0
	}
	batch := b.queue
	b.queue = queuePool.Get()

	n := 0
	for _, q := range batch {
		if !q.target.IsNil() && !w.Alive(q.target) {
			b.dropped++
			b.logger.Debug("dropping command for dead target",
				log.String("command", reflect.TypeOf(q.cmd).String()),
				log.Uint32("entity", q.target.ID))
			continue
		}
		d, ok := b.registry.lookup(q.cmd)
		if !ok {
			// Add already rejected unknown types; reaching this means the
			// registry changed underfoot.
			b.logger.Error("no dispatcher at flush time",
				log.String("command", reflect.TypeOf(q.cmd).String()))
			continue
		}
		if err := d(w, q.target, q.cmd); err != nil {
			b.logger.Warn("command dispatch failed",
				log.String("command", reflect.TypeOf(q.cmd).String()),
				log.Error(err))
			continue
		}
		b.applied++
		n++
	}

	queuePool.Put(batch[:0])
	return n
}

// Discard drops all pending commands without dispatching them.
func (b *Buffer) Discard() {
	b.queue = b.queue[:0]
}

func (b *Buffer) push(target ecs.Entity, cmd Command) error {
	if cmd == nil {
		return fmt.Errorf("%w: nil command", ErrNoDispatcher)
	}
	if _, ok := b.registry.lookup(cmd); !ok {
		b.logger.Error("rejecting command with no dispatcher",
			log.String("command", reflect.TypeOf(cmd).String()))
		return fmt.Errorf("%w: %s", ErrNoDispatcher, reflect.TypeOf(cmd))
	}
	b.queue = append(b.queue, queued{target: target, cmd: cmd})
	return nil
}
