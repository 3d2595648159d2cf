package squads

import (
	"strings"

	"github.com/matzehuels/orgmorph/pkg/errors"
)

// Strategy selects how card animations are staggered when switching views.
type Strategy string

// Stagger strategies.
const (
	// BySquad moves every card of a squad together, squads 100ms apart.
	BySquad Strategy = "by-squad"
	// ByCard sends cards one by one, 20ms apart, as a wave.
	ByCard Strategy = "by-card"
	// SlowThenFast spaces the first squads widely, then speeds up.
	SlowThenFast Strategy = "slow-then-fast"
)

// DefaultStrategy is used when none is configured.
const DefaultStrategy = SlowThenFast

// Stagger parameters, in seconds.
const (
	squadDelay     = 0.1
	cardDelay      = 0.02
	slowDelay      = 0.3
	fastDelay      = 0.1
	slowThreshold  = 2
	slowPhaseTotal = slowThreshold * slowDelay
)

// Strategies lists every known strategy.
var Strategies = []Strategy{BySquad, ByCard, SlowThenFast}

// ParseStrategy accepts the hyphenated names and their underscore spellings.
func ParseStrategy(s string) (Strategy, error) {
	st := Strategy(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	switch st {
	case BySquad, ByCard, SlowThenFast:
		return st, nil
	case "":
		return DefaultStrategy, nil
	}
	return "", errors.New(errors.ErrCodeInvalidStrategy, "unknown stagger strategy %q (want by-squad, by-card or slow-then-fast)", s)
}

// Delay returns the animation delay in seconds of the card at globalIndex,
// the indexInGroup-th member of group groupIndex. No strategy currently
// varies within a group. Unknown strategies yield 0.
func Delay(s Strategy, globalIndex, groupIndex, indexInGroup int) float64 {
	switch s {
	case BySquad:
		return float64(groupIndex) * squadDelay
	case ByCard:
		return float64(globalIndex) * cardDelay
	case SlowThenFast:
		if groupIndex < slowThreshold {
			return float64(groupIndex) * slowDelay
		}
		return slowPhaseTotal + float64(groupIndex-slowThreshold)*fastDelay
	}
	return 0
}

// Transition is the timing of the morph animation between views.
type Transition struct {
	Duration float64    `json:"duration" bson:"duration"`
	Ease     [4]float64 `json:"ease" bson:"ease"`
}

// DefaultTransition is 0.8s on an ease-in-out cubic bezier.
var DefaultTransition = Transition{
	Duration: 0.8,
	Ease:     [4]float64{0.43, 0.13, 0.23, 0.96},
}
