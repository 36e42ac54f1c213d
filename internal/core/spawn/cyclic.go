package spawn

import (
	"github.com/cespare/xxhash/v2"

	"github.com/framestep/framestep/internal/core/ecs"
	"github.com/framestep/framestep/internal/core/loop"
	"github.com/framestep/framestep/internal/core/observability/log"
	"github.com/framestep/framestep/internal/core/pool"
)

// CyclicScheduler spreads rule evaluation across N buckets, visiting one
// bucket per tick, so a large rule set never fires synchronized bursts on a
// single frame. Rules are assigned to buckets by hashing their id, which
// keeps the assignment stable across runs and restarts. Skipped ticks are not
// lost: each bucket accumulates the delta since it last ran and hands the sum
// to its conditions, so timers keep correct wall-clock behavior.
type CyclicScheduler struct {
	*Scheduler
	bucketRules [][]*Rule
	bucketDelta []float64
	cursor      int
}

// NewCyclicScheduler creates a cyclic scheduler with the given bucket count
// (minimum 1).
func NewCyclicScheduler(name string, pools *pool.Registry, buckets int, seed int64, logger log.Log) *CyclicScheduler {
	if buckets < 1 {
		buckets = 1
	}
	return &CyclicScheduler{
		Scheduler:   NewScheduler(name, pools, seed, logger),
		bucketRules: make([][]*Rule, buckets),
		bucketDelta: make([]float64, buckets),
	}
}

// Buckets returns the configured bucket count.
func (s *CyclicScheduler) Buckets() int { return len(s.bucketRules) }

// AddRule registers the rule and assigns it to its hash bucket.
func (s *CyclicScheduler) AddRule(r Rule) (*Rule, error) {
	added, err := s.Scheduler.AddRule(r)
	if err != nil {
		return nil, err
	}
	b := int(xxhash.Sum64String(added.ID) % uint64(len(s.bucketRules)))
	s.bucketRules[b] = append(s.bucketRules[b], added)
	return added, nil
}

// Flush implements loop.Manager with the bucket rotation applied.
func (s *CyclicScheduler) Flush(ctx *loop.Context) error {
	if ctx.Frame() == s.lastFrame {
		return nil
	}
	s.tick(ctx.World(), ctx.Delta(), ctx.Frame())
	return nil
}

// Tick advances the clock and delayed work with the full delta, then
// evaluates only the current bucket, handing it the delta accumulated since
// its last turn. Like the base scheduler, direct driving advances the frame
// ordinal itself.
func (s *CyclicScheduler) Tick(w *ecs.World, delta float64) int {
	return s.tick(w, delta, s.lastFrame+1)
}

func (s *CyclicScheduler) tick(w *ecs.World, delta float64, frame uint64) int {
	s.lastFrame = frame
	s.advanceClock(w, delta)
	for i := range s.bucketDelta {
		s.bucketDelta[i] += delta
	}
	b := s.cursor
	s.cursor = (s.cursor + 1) % len(s.bucketRules)
	spawned := s.runRules(w, s.bucketRules[b], s.bucketDelta[b])
	s.bucketDelta[b] = 0
	return spawned
}
