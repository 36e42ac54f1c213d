package spawn

import "math/rand"

// AmountProvider yields the number of units a rule requests once its
// condition grants budget. The effective spawn count is the minimum of the
// two.
type AmountProvider interface {
	Amount(rng *rand.Rand) int
}

// FixedAmount always requests n.
type FixedAmount int

func (a FixedAmount) Amount(*rand.Rand) int { return int(a) }

// RangeAmount requests a uniform random count in [Min, Max].
type RangeAmount struct {
	Min, Max int
}

func (a RangeAmount) Amount(rng *rand.Rand) int {
	if a.Max <= a.Min {
		return a.Min
	}
	return a.Min + rng.Intn(a.Max-a.Min+1)
}
