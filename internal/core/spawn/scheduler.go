package spawn

import (
	"fmt"
	"math/rand"

	"github.com/framestep/framestep/internal/core/ecs"
	"github.com/framestep/framestep/internal/core/loop"
	"github.com/framestep/framestep/internal/core/observability/log"
	"github.com/framestep/framestep/internal/core/pool"
	"github.com/framestep/framestep/pkg/sequence"
)

// Scheduler evaluates its rules once per frame and converts granted budget
// into pooled entity acquisitions: placement, then the profile's initializer
// chain. It implements loop.Manager so the conversion happens at structural
// commit points, never mid-pass.
type Scheduler struct {
	name     string
	pools    *pool.Registry
	profiles map[string]*Profile
	rules    []*Rule
	rng      *rand.Rand
	logger   log.Log

	delayed   *sequence.PriorityQueue[delayedWork]
	clock     float64
	lastFrame uint64
	spawned   uint64
}

// delayedWork is initializer work due at a simulation timestamp. For pooled
// targets the Member tag at defer time is captured, so work armed against one
// Live incarnation never lands on a freed slot or its next acquisition.
type delayedWork struct {
	due    float64
	e      ecs.Entity
	tag    pool.Member
	tagged bool
	fn     func(*ecs.World, ecs.Entity)
}

// NewScheduler creates a scheduler spawning from the given pool registry.
// The seed fixes the rng so identical configuration replays identically.
func NewScheduler(name string, pools *pool.Registry, seed int64, logger log.Log) *Scheduler {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Scheduler{
		name:     name,
		pools:    pools,
		profiles: make(map[string]*Profile, 8),
		rng:      rand.New(rand.NewSource(seed)),
		logger:   logger.Scope("spawn").With(log.String("scheduler", name)),
		delayed:  sequence.NewPriorityQueue[delayedWork](),
	}
}

// Name implements loop.Manager.
func (s *Scheduler) Name() string { return s.name }

// AddProfile registers a spawn profile. Duplicate ids are a configuration
// error.
func (s *Scheduler) AddProfile(p Profile) error {
	if _, ok := s.profiles[p.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateProfile, p.ID)
	}
	cp := p
	s.profiles[p.ID] = &cp
	return nil
}

// AddRule registers a spawn rule. The referenced profile must already exist.
func (s *Scheduler) AddRule(r Rule) (*Rule, error) {
	r = r.normalized()
	for _, existing := range s.rules {
		if existing.ID == r.ID {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRule, r.ID)
		}
	}
	if _, ok := s.profiles[r.Profile]; !ok {
		return nil, fmt.Errorf("%w: rule %q wants %q", ErrUnknownProfile, r.ID, r.Profile)
	}
	cp := r
	s.rules = append(s.rules, &cp)
	return &cp, nil
}

// Flush implements loop.Manager: one tick per frame, no matter how many
// structural commit points the frame declares.
func (s *Scheduler) Flush(ctx *loop.Context) error {
	if ctx.Frame() == s.lastFrame {
		return nil
	}
	s.tick(ctx.World(), ctx.Delta(), ctx.Frame())
	return nil
}

// Tick advances the clock, runs due delayed work, evaluates every rule in
// declared order, and returns how many entities were spawned. Driving the
// scheduler directly advances the frame ordinal itself; under a loop the
// ordinal is the loop's frame number.
func (s *Scheduler) Tick(w *ecs.World, delta float64) int {
	return s.tick(w, delta, s.lastFrame+1)
}

func (s *Scheduler) tick(w *ecs.World, delta float64, frame uint64) int {
	s.lastFrame = frame
	s.advanceClock(w, delta)
	return s.runRules(w, s.rules, delta)
}

// Spawned returns the lifetime spawn count.
func (s *Scheduler) Spawned() uint64 { return s.spawned }

// SpawnNow acquires and initializes count units of the named profile
// immediately. Intended for command dispatchers running at a commit point;
// returns the number actually spawned (pool exhaustion stops early).
func (s *Scheduler) SpawnNow(w *ecs.World, profileID string, count int) int {
	p, ok := s.profiles[profileID]
	if !ok {
		s.logger.Warn("spawn for unknown profile", log.String("profile", profileID))
		return 0
	}
	return s.spawnUnits(w, p, count)
}

// advanceClock moves simulation time forward and drains delayed initializer
// work that has come due. Work is skipped when the target is dead, or when a
// pooled target no longer carries the Member tag it was armed with (released,
// or released and re-acquired since).
func (s *Scheduler) advanceClock(w *ecs.World, delta float64) {
	s.clock += delta
	for {
		item, ok := s.delayed.Peek()
		if !ok || item.due > s.clock {
			return
		}
		item, _ = s.delayed.Dequeue()
		if !w.Alive(item.e) {
			continue
		}
		if item.tagged {
			m, live := ecs.Get[pool.Member](w, item.e)
			if !live || *m != item.tag {
				continue
			}
		}
		item.fn(w, item.e)
	}
}

func (s *Scheduler) runRules(w *ecs.World, rules []*Rule, delta float64) int {
	tick := Tick{Delta: delta, Elapsed: s.clock, Frame: s.lastFrame, Pools: s.pools}
	total := 0
	for _, r := range rules {
		budget := r.Condition.Evaluate(&tick)
		if budget <= 0 {
			continue
		}
		want := r.Amount.Amount(s.rng)
		if want < budget {
			budget = want
		}
		if budget <= 0 {
			continue
		}
		p := s.profiles[r.Profile]
		total += s.spawnUnits(w, p, budget)
	}
	return total
}

func (s *Scheduler) spawnUnits(w *ecs.World, p *Profile, n int) int {
	gp, err := s.pools.Get(p.Pool)
	if err != nil {
		s.logger.Warn("profile references unknown pool",
			log.String("profile", p.ID), log.Error(err))
		return 0
	}
	ctx := &SpawnContext{World: w, Rand: s.rng, scheduler: s}
	spawned := 0
	for i := 0; i < n; i++ {
		e, ok := gp.Acquire()
		if !ok {
			s.logger.Debug("pool exhausted mid-grant",
				log.String("profile", p.ID),
				log.Int("granted", n),
				log.Int("spawned", spawned))
			break
		}
		at := Placement{}
		if p.Placer != nil {
			at = p.Placer.Place(i, n, s.rng)
		}
		for _, init := range p.Initializers {
			if err := init.Init(ctx, e, at); err != nil {
				s.logger.Warn("initializer failed",
					log.String("profile", p.ID),
					log.Uint32("entity", e.ID),
					log.Error(err))
			}
		}
		spawned++
		s.spawned++
	}
	return spawned
}

// deferWork queues fn against e at clock+delay, stamping the work with e's
// current Member tag when e is pooled. The priority queue is max-first, so due
// times are negated into millisecond priorities.
func (s *Scheduler) deferWork(w *ecs.World, delay float64, e ecs.Entity, fn func(*ecs.World, ecs.Entity)) {
	due := s.clock + delay
	item := delayedWork{due: due, e: e, fn: fn}
	if m, ok := ecs.Get[pool.Member](w, e); ok {
		item.tag = *m
		item.tagged = true
	}
	s.delayed.Enqueue(item, -int(due*1000))
}
