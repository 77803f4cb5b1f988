package pendulum

import (
	"math"

	"github.com/samuelfneumann/goppo/environment"
	"github.com/samuelfneumann/goppo/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// Cost weights of the SwingUp task
const (
	SpeedCost  float64 = 0.1
	TorqueCost float64 = 0.001
)

// SwingUp implements a task where the agent must swing the pendulum up
// and hold it in a vertical position. Rewards are the negative of a
// quadratic cost in the normalized angle, the angular velocity, and
// the applied torque:
//
//	r = -(θ² + 0.1θ̇² + 0.001u²)
//
// The goal state is the pendulum at rest pointing straight up, where
// the agent receives a reward of 0.
type SwingUp struct {
	environment.Starter
	environment.Ender
}

// NewSwingUp creates and returns a new SwingUp task
func NewSwingUp(s environment.Starter, maxSteps int) *SwingUp {
	ender := environment.NewStepLimit(maxSteps)
	return &SwingUp{s, ender}
}

// NewStarter returns the default SwingUp Starter, which samples θ
// uniformly from [-π, π] and θ̇ uniformly from [-1, 1]
func NewStarter(seed uint64) *environment.UniformStarter {
	bounds := []r1.Interval{
		{Min: -AngleBound, Max: AngleBound},
		{Min: -1, Max: 1},
	}
	return environment.NewUniformStarter(bounds, seed)
}

// GetReward returns the reward for applying action in state, where
// state is the underlying [θ, θ̇] of the pendulum
func (s *SwingUp) GetReward(state, action mat.Vector) float64 {
	th := floatutils.NormalizeAngle(state.AtVec(0))
	thdot := state.AtVec(1)
	u := action.AtVec(0)

	return -(th*th + SpeedCost*thdot*thdot + TorqueCost*u*u)
}

// Min returns the minimum possible reward
func (s *SwingUp) Min() float64 {
	return -(math.Pi*math.Pi + SpeedCost*SpeedBound*SpeedBound +
		TorqueCost*TorqueBound*TorqueBound)
}

// Max returns the maximum possible reward
func (s *SwingUp) Max() float64 {
	return 0.0
}
