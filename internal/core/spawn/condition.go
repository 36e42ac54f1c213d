package spawn

import (
	"github.com/framestep/framestep/internal/core/pool"
)

// Tick is the per-evaluation view a condition or amount provider receives:
// the time step accumulated since the rule was last evaluated, the running
// simulation clock, the frame counter, and pool occupancy for availability
// checks.
type Tick struct {
	Delta   float64
	Elapsed float64
	Frame   uint64
	Pools   *pool.Registry
}

// FreeIn returns the free slot count of the named pool, 0 when unknown.
func (t *Tick) FreeIn(poolID string) int {
	if t.Pools == nil {
		return 0
	}
	p, err := t.Pools.Get(poolID)
	if err != nil {
		return 0
	}
	return p.FreeCount()
}

// Condition decides whether, and how many times, a rule may fire this tick.
// The returned value is a budget: 0 means no spawn, n means up to n units.
// Conditions may keep state between evaluations (timers do).
type Condition interface {
	Evaluate(t *Tick) int
}

// ConditionFunc adapts a function to Condition.
type ConditionFunc func(t *Tick) int

func (f ConditionFunc) Evaluate(t *Tick) int { return f(t) }

// Always grants a fixed budget every tick.
type Always struct {
	Budget int
}

func (a Always) Evaluate(*Tick) int { return a.Budget }

// Timer grants one unit of budget per elapsed interval, accumulating the
// delta handed to it. With a 5 second interval and deltas of 2, 2, 2 the
// budget sequence is 0, 0, 1.
type Timer struct {
	Interval float64
	acc      float64
}

// NewTimer creates a Timer with the given interval in seconds.
func NewTimer(interval float64) *Timer {
	return &Timer{Interval: interval}
}

func (c *Timer) Evaluate(t *Tick) int {
	if c.Interval <= 0 {
		return 0
	}
	c.acc += t.Delta
	n := 0
	for c.acc >= c.Interval {
		c.acc -= c.Interval
		n++
	}
	return n
}

// Availability grants budget only while the target pool has at least Reserve
// free slots, and never more than the surplus above the reserve.
type Availability struct {
	Pool    string
	Reserve int
}

func (c Availability) Evaluate(t *Tick) int {
	free := t.FreeIn(c.Pool)
	if free <= c.Reserve {
		return 0
	}
	return free - c.Reserve
}

// All combines conditions as an AND: the granted budget is the minimum over
// every member, so any member returning 0 vetoes the tick.
type All []Condition

func (cs All) Evaluate(t *Tick) int {
	if len(cs) == 0 {
		return 0
	}
	budget := cs[0].Evaluate(t)
	for _, c := range cs[1:] {
		n := c.Evaluate(t)
		if n < budget {
			budget = n
		}
	}
	if budget < 0 {
		return 0
	}
	return budget
}
