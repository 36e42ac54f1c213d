package loop

import (
	"time"

	"github.com/framestep/framestep/internal/core/observability/log"
)

// Loop drives the frame: phases in declared order, each phase's passes in
// order, each pass's systems in order, with command flushes, event swaps and
// manager flushes at the commit points the topology declares. Strictly
// single-threaded and deterministic given identical input and configuration.
type Loop struct {
	id       string
	phases   []*phase
	managers []Manager
	logger   log.Log
	ctx      Context
	stats    map[string]*SystemStats
}

// ID returns the instance id assigned at build time.
func (l *Loop) ID() string { return l.id }

// Frame returns the number of completed frames.
func (l *Loop) Frame() uint64 { return l.ctx.frame }

// Update runs one frame with the given time step (seconds) and device
// snapshot. A frame always runs to completion; there is no mid-frame
// cancellation.
func (l *Loop) Update(delta float64, input InputSnapshot) {
	l.ctx.frame++
	l.ctx.delta = delta
	l.ctx.input = input

	for _, ph := range l.phases {
		for _, pa := range ph.passes {
			l.runPass(ph, pa)
			l.commit(ph, pa)
		}
	}
}

// runPass executes the pass's systems in declared order. A failing system
// aborts the remaining systems of this pass for this frame only; the fault is
// contained, never swallowed.
func (l *Loop) runPass(ph *phase, pa *pass) {
	for _, s := range pa.systems {
		st := l.stats[s.Name()]
		began := time.Now()
		err := s.Update(&l.ctx)
		st.LastTime = time.Since(began)
		st.TotalTime += st.LastTime
		st.Calls++
		if err != nil {
			st.Errors++
			l.logger.Error("system failed, aborting rest of pass for this frame",
				log.String("phase", ph.name),
				log.String("pass", pa.name),
				log.String("system", s.Name()),
				log.Uint64("frame", l.ctx.frame),
				log.Error(err))
			return
		}
	}
}

// commit applies the pass's declared barrier. The command flush and event
// swap run for both commit kinds; only a structural commit flushes managers,
// so only a structural commit guarantees entity and component existence
// changes are visible to later passes.
func (l *Loop) commit(ph *phase, pa *pass) {
	if pa.commit == CommitNone {
		return
	}
	applied := l.ctx.buffer.Flush(l.ctx.world)
	l.ctx.bus.SwapBuffers()
	if pa.commit == CommitStructural {
		for _, m := range l.managers {
			if err := m.Flush(&l.ctx); err != nil {
				l.logger.Error("manager flush failed",
					log.String("manager", m.Name()),
					log.Error(err))
			}
		}
	}
	if applied > 0 {
		l.logger.Debug("commit point",
			log.String("phase", ph.name),
			log.String("pass", pa.name),
			log.String("kind", pa.commit.String()),
			log.Int("applied", applied))
	}
}

// Stats returns a snapshot of per-system execution accounting.
func (l *Loop) Stats() []SystemStats {
	out := make([]SystemStats, 0, len(l.stats))
	for _, ph := range l.phases {
		for _, pa := range ph.passes {
			for _, s := range pa.systems {
				out = append(out, *l.stats[s.Name()])
			}
		}
	}
	return out
}
