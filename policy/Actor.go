package policy

import "fmt"

// Actor maps a state to the parameters of a Gaussian action
// distribution
type Actor interface {
	Forward(state []float64) (Params, error)
}

// Snapshotter is an Actor that can freeze a copy of itself. The
// returned Actor must be fully independent of the live Actor: later
// changes to the live Actor's parameters are never visible through the
// snapshot. An implementation may reuse the same storage for every
// snapshot, in which case taking a new snapshot overwrites the
// previous one.
type Snapshotter interface {
	Actor
	Snapshot() (Actor, error)
}

// ActorFunc adapts a function to the Actor interface
type ActorFunc func(state []float64) (Params, error)

// Forward returns f(state)
func (f ActorFunc) Forward(state []float64) (Params, error) {
	return f(state)
}

// StateRatio computes the distribution parameters of current and old
// in state and returns the ratio of the densities of action under
// both
func StateRatio(current, old Actor, state []float64,
	action float64) (float64, error) {
	currentParams, err := current.Forward(state)
	if err != nil {
		return 0, fmt.Errorf("stateRatio: current actor: %w", err)
	}
	oldParams, err := old.Forward(state)
	if err != nil {
		return 0, fmt.Errorf("stateRatio: old actor: %w", err)
	}

	return Ratio(currentParams, oldParams, action)
}
