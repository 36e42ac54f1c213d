package spawn

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrDuplicateProfile reports two profiles registered under one id.
	ErrDuplicateProfile = errors.New("spawn: duplicate profile id")
	// ErrDuplicateRule reports two rules registered under one id.
	ErrDuplicateRule = errors.New("spawn: duplicate rule id")
	// ErrUnknownProfile reports a rule referencing a profile nobody
	// registered.
	ErrUnknownProfile = errors.New("spawn: rule references unknown profile")
)

// Profile binds a pool to a placement strategy and an initializer chain. One
// profile describes one kind of spawnable thing.
type Profile struct {
	ID           string
	Pool         string
	Placer       Placer
	Initializers []Initializer
}

// Rule binds a condition and an amount provider to a profile. Each tick the
// scheduler evaluates the condition for a budget and grants
// min(budget, amount) units.
type Rule struct {
	ID        string
	Profile   string
	Condition Condition
	Amount    AmountProvider
}

// normalized fills defaults: generated id, Always-zero condition guard,
// fixed amount of one.
func (r Rule) normalized() Rule {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Amount == nil {
		r.Amount = FixedAmount(1)
	}
	if r.Condition == nil {
		r.Condition = Always{Budget: 0}
	}
	return r
}
