package runtime

import (
	"fmt"
	"math"
	"os"

	"github.com/framestep/framestep/internal/config"
	"github.com/framestep/framestep/internal/core/command"
	"github.com/framestep/framestep/internal/core/ecs"
	"github.com/framestep/framestep/internal/core/events/bus"
	"github.com/framestep/framestep/internal/core/loop"
	"github.com/framestep/framestep/internal/core/observability/log"
	"github.com/framestep/framestep/internal/core/pool"
	"github.com/framestep/framestep/internal/core/spawn"
)

// Simulation wires a configuration into a runnable world: entity store,
// pools, command buffer, event bus, spawn scheduler and the frame loop.
type Simulation struct {
	World     *ecs.World
	Pools     *pool.Registry
	Commands  *command.Buffer
	Events    *bus.Bus
	Spawner   spawnManager
	Loop      *loop.Loop
	Telemetry *TelemetrySystem

	closers []func()
}

// spawnManager is satisfied by both the plain and the cyclic scheduler.
type spawnManager interface {
	loop.Manager
	Tick(w *ecs.World, delta float64) int
	Spawned() uint64
}

// NewSimulation assembles a simulation from a validated configuration.
func NewSimulation(cfg config.Config, logger log.Log) (*Simulation, error) {
	if logger == nil {
		logger = log.NewNop()
	}

	capacity := 0
	for _, p := range cfg.Pools {
		capacity += p.Capacity
	}
	world := ecs.NewWorld(capacity+16, logger)
	pools := pool.NewRegistry(logger)
	events := bus.New()

	for _, pc := range cfg.Pools {
		prefab := pool.NewPrefab()
		pool.Component(prefab, Position{})
		pool.Component(prefab, Velocity{})
		// Stripped on release along with the rest of the prefab; rules
		// with a configured lifetime overwrite Remaining on spawn.
		pool.Component(prefab, Lifetime{Remaining: math.Inf(1)})
		if err := pools.Register(pool.New(pc.Name, world, pc.Capacity, prefab, logger)); err != nil {
			return nil, err
		}
	}

	sim := &Simulation{World: world, Pools: pools, Events: events}

	sched, base, err := sim.buildScheduler(cfg, pools, logger)
	if err != nil {
		sim.Close()
		return nil, err
	}
	sim.Spawner = sched

	registry := command.NewRegistry()
	if err = spawn.RegisterDispatchers(registry, base, pools); err != nil {
		sim.Close()
		return nil, err
	}
	sim.Commands = command.NewBuffer(registry, logger)

	movement := NewMovementSystem(world)
	sim.Telemetry = &TelemetrySystem{}

	sim.Loop, err = loop.NewBuilder(world, sim.Commands, events, pools, logger).
		Phase("simulate").
		Pass("integrate", loop.CommitNone, movement).
		Pass("lifecycle", loop.CommitDefault, LifetimeSystem{}).
		Phase("maintain").
		Pass("observe", loop.CommitStructural, sim.Telemetry).
		Manager(sched).
		Build()
	if err != nil {
		sim.Close()
		return nil, err
	}
	return sim, nil
}

func (s *Simulation) buildScheduler(cfg config.Config, pools *pool.Registry, logger log.Log) (spawnManager, *spawn.Scheduler, error) {
	var sched spawnManager
	var base *spawn.Scheduler
	addRule := func(r spawn.Rule) error {
		_, err := base.AddRule(r)
		return err
	}
	if cfg.Engine.SpawnBuckets > 1 {
		cyc := spawn.NewCyclicScheduler("spawn", pools, cfg.Engine.SpawnBuckets, cfg.Engine.Seed, logger)
		sched, base = cyc, cyc.Scheduler
		addRule = func(r spawn.Rule) error {
			_, err := cyc.AddRule(r)
			return err
		}
	} else {
		base = spawn.NewScheduler("spawn", pools, cfg.Engine.Seed, logger)
		sched = base
	}

	for _, sc := range cfg.Spawns {
		if err := base.AddProfile(s.buildProfile(sc)); err != nil {
			return nil, nil, err
		}
		cond, err := s.buildCondition(sc, logger)
		if err != nil {
			return nil, nil, err
		}
		var amount spawn.AmountProvider = spawn.FixedAmount(sc.Amount.Min)
		if sc.Amount.Max > sc.Amount.Min {
			amount = spawn.RangeAmount{Min: sc.Amount.Min, Max: sc.Amount.Max}
		}
		if err = addRule(spawn.Rule{ID: sc.ID, Profile: sc.ID, Condition: cond, Amount: amount}); err != nil {
			return nil, nil, err
		}
	}
	return sched, base, nil
}

func (s *Simulation) buildProfile(sc config.SpawnConfig) spawn.Profile {
	inits := []spawn.Initializer{
		spawn.AttachInit(func(at spawn.Placement) Position {
			return Position{X: at.X, Y: at.Y, Angle: at.Angle}
		}),
		spawn.InitFunc(func(ctx *spawn.SpawnContext, e ecs.Entity, at spawn.Placement) error {
			if sc.Speed > 0 {
				speed := ctx.Rand.Float64() * sc.Speed
				ecs.Attach(ctx.World, e, Velocity{
					DX: math.Cos(at.Angle) * speed,
					DY: math.Sin(at.Angle) * speed,
				})
			}
			if sc.Lifetime > 0 {
				ecs.Attach(ctx.World, e, Lifetime{Remaining: sc.Lifetime})
			}
			bus.Push(s.Events, Spawned{Profile: sc.ID, Entity: e})
			return nil
		}),
	}
	return spawn.Profile{
		ID:   sc.ID,
		Pool: sc.Pool,
		Placer: spawn.RandomInBounds{
			MinX: sc.Bounds.MinX, MinY: sc.Bounds.MinY,
			MaxX: sc.Bounds.MaxX, MaxY: sc.Bounds.MaxY,
		},
		Initializers: inits,
	}
}

func (s *Simulation) buildCondition(sc config.SpawnConfig, logger log.Log) (spawn.Condition, error) {
	conds := spawn.All{}
	if sc.Interval > 0 {
		// A timer grants one budget unit per elapsed interval; scale the
		// grant so each activation can cover a full amount draw.
		per := sc.Amount.Max
		if per < sc.Amount.Min {
			per = sc.Amount.Min
		}
		if per < 1 {
			per = 1
		}
		timer := spawn.NewTimer(sc.Interval)
		conds = append(conds, spawn.ConditionFunc(func(t *spawn.Tick) int {
			return timer.Evaluate(t) * per
		}))
	}
	conds = append(conds, spawn.Availability{Pool: sc.Pool, Reserve: sc.Reserve})
	if sc.Script != "" {
		src, err := os.ReadFile(sc.Script)
		if err != nil {
			return nil, fmt.Errorf("spawn rule %s: %w", sc.ID, err)
		}
		script, err := spawn.NewScriptCondition(string(src), logger)
		if err != nil {
			return nil, fmt.Errorf("spawn rule %s: %w", sc.ID, err)
		}
		s.closers = append(s.closers, script.Close)
		conds = append(conds, script)
	}
	return conds, nil
}

// Close releases resources held by the simulation, script interpreters
// included.
func (s *Simulation) Close() {
	for _, fn := range s.closers {
		fn()
	}
	s.closers = nil
}
