package loop

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/framestep/framestep/internal/core/command"
	"github.com/framestep/framestep/internal/core/ecs"
	"github.com/framestep/framestep/internal/core/events/bus"
	"github.com/framestep/framestep/internal/core/observability/log"
	"github.com/framestep/framestep/internal/core/pool"
)

// Builder assembles the loop topology programmatically at startup: phases in
// declaration order, passes inside each phase, systems inside each pass, plus
// the commit kind each pass ends with. Misconfiguration (duplicate names,
// empty topology) is reported by Build, not at runtime.
type Builder struct {
	world    *ecs.World
	buffer   *command.Buffer
	bus      *bus.Bus
	pools    *pool.Registry
	logger   log.Log
	phases   []*phase
	managers []Manager
}

type phase struct {
	name   string
	passes []*pass
}

type pass struct {
	name    string
	commit  CommitKind
	systems []System
}

// NewBuilder starts a topology over the given collaborators. Nil bus, pools
// and logger get working defaults; world and buffer are required.
func NewBuilder(world *ecs.World, buffer *command.Buffer, eventBus *bus.Bus, pools *pool.Registry, logger log.Log) *Builder {
	if eventBus == nil {
		eventBus = bus.New()
	}
	if pools == nil {
		pools = pool.NewRegistry(logger)
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Builder{
		world:  world,
		buffer: buffer,
		bus:    eventBus,
		pools:  pools,
		logger: logger,
	}
}

// Phase opens a new phase. Phases run in the order they are declared.
func (b *Builder) Phase(name string) *PhaseBuilder {
	p := &phase{name: name}
	b.phases = append(b.phases, p)
	return &PhaseBuilder{builder: b, phase: p}
}

// Manager registers a manager to be flushed at structural commit points.
func (b *Builder) Manager(m Manager) *Builder {
	b.managers = append(b.managers, m)
	return b
}

// Build validates the declared topology and returns the runnable loop.
func (b *Builder) Build() (*Loop, error) {
	if len(b.phases) == 0 {
		return nil, fmt.Errorf("%w: no phases declared", ErrEmptyTopology)
	}
	systemNames := make(map[string]string)
	for _, ph := range b.phases {
		if len(ph.passes) == 0 {
			return nil, fmt.Errorf("%w: phase %q has no passes", ErrEmptyTopology, ph.name)
		}
		for _, pa := range ph.passes {
			if len(pa.systems) == 0 {
				return nil, fmt.Errorf("%w: pass %q/%q has no systems", ErrEmptyTopology, ph.name, pa.name)
			}
			for _, s := range pa.systems {
				if where, ok := systemNames[s.Name()]; ok {
					return nil, fmt.Errorf("%w: %q already in %s", ErrDuplicateSystem, s.Name(), where)
				}
				systemNames[s.Name()] = ph.name + "/" + pa.name
			}
		}
	}
	managerNames := make(map[string]struct{}, len(b.managers))
	for _, m := range b.managers {
		if _, ok := managerNames[m.Name()]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateManager, m.Name())
		}
		managerNames[m.Name()] = struct{}{}
	}

	id := uuid.NewString()
	l := &Loop{
		id:       id,
		phases:   b.phases,
		managers: b.managers,
		logger:   b.logger.Scope("loop").With(log.String("instance", id)),
		ctx: Context{
			world:  b.world,
			buffer: b.buffer,
			bus:    b.bus,
			pools:  b.pools,
		},
		stats: make(map[string]*SystemStats, len(systemNames)),
	}
	l.ctx.logger = l.logger
	for _, ph := range b.phases {
		for _, pa := range ph.passes {
			for _, s := range pa.systems {
				l.stats[s.Name()] = &SystemStats{Name: s.Name(), Phase: ph.name, Pass: pa.name}
			}
		}
	}
	return l, nil
}

// PhaseBuilder declares the passes of one phase.
type PhaseBuilder struct {
	builder *Builder
	phase   *phase
}

// Pass appends a pass with its systems and the commit kind that closes it.
func (pb *PhaseBuilder) Pass(name string, commit CommitKind, systems ...System) *PhaseBuilder {
	pb.phase.passes = append(pb.phase.passes, &pass{name: name, commit: commit, systems: systems})
	return pb
}

// Phase closes this phase and opens the next one.
func (pb *PhaseBuilder) Phase(name string) *PhaseBuilder {
	return pb.builder.Phase(name)
}

// Manager forwards to the underlying builder.
func (pb *PhaseBuilder) Manager(m Manager) *Builder {
	return pb.builder.Manager(m)
}

// Build forwards to the underlying builder.
func (pb *PhaseBuilder) Build() (*Loop, error) {
	return pb.builder.Build()
}
