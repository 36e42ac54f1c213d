package runtime

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/framestep/framestep/internal/config"
	"github.com/framestep/framestep/internal/core/loop"
	"github.com/framestep/framestep/internal/core/observability/log"
	"github.com/framestep/framestep/internal/core/pool"
)

// Runtime drives a Simulation at a fixed timestep on a background
// goroutine. Start and Stop bracket one run; Close releases the
// simulation for good.
type Runtime struct {
	cfg    config.Config
	logger log.Log
	sim    *Simulation

	running int32
	closed  int32

	stopChan chan struct{}
	group    *errgroup.Group
}

// New builds a runtime from a validated configuration.
func New(cfg config.Config, logger log.Log) (*Runtime, error) {
	if logger == nil {
		logger = log.NewNop()
	}
	logger = logger.With(log.String("component", "runtime"))

	sim, err := NewSimulation(cfg, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Runtime created",
		log.Int("tick_rate", cfg.Engine.TickRate),
		log.Int("pools", len(cfg.Pools)),
		log.Int("spawn_rules", len(cfg.Spawns)))

	return &Runtime{
		cfg:      cfg,
		logger:   logger,
		sim:      sim,
		stopChan: make(chan struct{}),
	}, nil
}

// Simulation exposes the assembled world for inspection and tests.
func (r *Runtime) Simulation() *Simulation { return r.sim }

// Start launches the fixed-step frame driver. It returns immediately;
// use Wait to block until the run ends.
func (r *Runtime) Start(ctx context.Context) error {
	if atomic.LoadInt32(&r.closed) == 1 {
		return ErrRuntimeClosed
	}
	if !atomic.CompareAndSwapInt32(&r.running, 0, 1) {
		return ErrRuntimeAlreadyRunning
	}

	r.logger.Info("Runtime starting",
		log.Duration("step", r.cfg.Engine.Step()),
		log.Uint64("max_frames", r.cfg.Engine.MaxFrames))

	group, ctx := errgroup.WithContext(ctx)
	r.group = group
	group.Go(func() error { return r.tickLoop(ctx) })
	return nil
}

// Wait blocks until the frame driver exits.
func (r *Runtime) Wait() error {
	if r.group == nil {
		return ErrRuntimeNotRunning
	}
	return r.group.Wait()
}

// Stop ends the run and waits for the frame driver to drain.
func (r *Runtime) Stop() error {
	if !atomic.CompareAndSwapInt32(&r.running, 1, 0) {
		return ErrRuntimeNotRunning
	}
	r.logger.Info("Runtime stopping")
	close(r.stopChan)
	err := r.group.Wait()
	r.logger.Info("Runtime stopped", log.Uint64("frames", r.sim.Loop.Frame()))
	return err
}

// Close stops the runtime if needed and releases simulation resources.
func (r *Runtime) Close() error {
	if !atomic.CompareAndSwapInt32(&r.closed, 0, 1) {
		return nil
	}
	if atomic.LoadInt32(&r.running) == 1 {
		_ = r.Stop()
	}
	r.sim.Close()
	return nil
}

func (r *Runtime) tickLoop(ctx context.Context) error {
	step := r.cfg.Engine.Step()
	dt := step.Seconds()
	input := loop.NewInputSnapshot(nil, nil)

	ticker := time.NewTicker(step)
	defer ticker.Stop()

	statsEvery := uint64(0)
	if r.cfg.Engine.StatsInterval > 0 {
		statsEvery = uint64(r.cfg.Engine.StatsInterval / step)
	}

	r.logger.Debug("Frame driver started")
	defer r.logger.Debug("Frame driver stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.stopChan:
			return nil
		case <-ticker.C:
		}

		r.sim.Loop.Update(dt, input)
		frame := r.sim.Loop.Frame()

		if statsEvery > 0 && frame%statsEvery == 0 {
			r.logStats(frame)
		}
		if r.cfg.Engine.MaxFrames > 0 && frame >= r.cfg.Engine.MaxFrames {
			r.logger.Info("Frame budget reached", log.Uint64("frames", frame))
			atomic.StoreInt32(&r.running, 0)
			return nil
		}
	}
}

func (r *Runtime) logStats(frame uint64) {
	live, free := 0, 0
	r.sim.Pools.Each(func(p *pool.GameObjectPool) {
		live += p.LiveCount()
		free += p.FreeCount()
	})
	r.logger.Info("Frame stats",
		log.Uint64("frame", frame),
		log.Int("entities", r.sim.World.EntityCount()),
		log.Int("live", live),
		log.Int("free", free),
		log.Uint64("spawned", r.sim.Spawner.Spawned()),
		log.Uint64("commands_applied", r.sim.Commands.Applied()),
		log.Uint64("commands_dropped", r.sim.Commands.Dropped()))
}
