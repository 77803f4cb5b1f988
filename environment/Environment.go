// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"github.com/samuelfneumann/goppo/timestep"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when episodes end. If the argument timestep ends
// an episode, End sets its StepType to timestep.Last and returns true.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Task implements the reward scheme for taking actions in some
// environment, together with its start state distribution and episode
// cutoff
type Task interface {
	Starter
	Ender

	// GetReward returns the reward for taking action in the underlying
	// (not necessarily observed) environment state
	GetReward(state, action mat.Vector) float64

	// Min and Max bound the rewards of the Task
	Min() float64
	Max() float64
}

// Environment implements a simulated environment. Environments are
// ready to use once constructed.
type Environment interface {
	// Reset resets the environment between episodes
	Reset() (timestep.TimeStep, error)

	// Step takes one environmental step with action, returning the
	// next timestep and whether the episode has ended
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)

	// Render draws the current state of the environment
	Render() error

	CurrentTimeStep() timestep.TimeStep
	RewardSpec() Spec
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
