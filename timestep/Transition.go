package timestep

import "gonum.org/v1/gonum/mat"

// Transition is a single (state, action, reward, next state) tuple
// produced by one environment step. A Transition owns copies of its
// state vectors and should be treated as immutable once stored.
type Transition struct {
	State     []float64
	Action    float64
	Reward    float64
	NextState []float64
}

// NewTransition returns the Transition of taking action in state and
// arriving at next. The reward of the transition is the reward of next.
func NewTransition(state mat.Vector, action float64,
	next TimeStep) Transition {
	return Transition{
		State:     raw(state),
		Action:    action,
		Reward:    next.Reward,
		NextState: raw(next.Observation),
	}
}

// raw returns a copy of the elements of v
func raw(v mat.Vector) []float64 {
	data := make([]float64, v.Len())
	for i := range data {
		data[i] = v.AtVec(i)
	}
	return data
}
