//go:build gym

// Package gym provides access to OpenAI Gym's Pendulum-v1 environment
// through the Go bindings for OpenAI Gym, found at
// https://github.com/samuelfneumann/GoGym.
//
// The environment only works with its default task and episode cutoff
// of 200 steps. Building this package requires the gym build tag, cgo
// and a Python installation with gym available.
package gym

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gogym"
	env "github.com/samuelfneumann/goppo/environment"
	ts "github.com/samuelfneumann/goppo/timestep"
	"gonum.org/v1/gonum/mat"
)

// PendulumV1 is the name of the gym pendulum swing-up environment
const PendulumV1 = "Pendulum-v1"

// Reward bounds of Pendulum-v1
const (
	minReward = -(math.Pi*math.Pi + 0.1*8*8 + 0.001*2*2)
	maxReward = 0.0
)

// GymEnv implements access to an OpenAI Gym environment using GoGym
type GymEnv struct {
	gogym.Environment

	currentStep ts.TimeStep
	discount    float64
}

// New returns a new GymEnv with the given name, which must be a legal
// name from the OpenAI Gym suite.
func New(name string, discount float64, seed uint64) (*GymEnv, error) {
	goGymEnv, err := gogym.Make(name)
	if err != nil {
		return nil, fmt.Errorf("new: could not create environment: %w", err)
	}

	goGymEnv.Seed(int(seed))
	gymEnv := &GymEnv{
		Environment: goGymEnv,
		discount:    discount,
	}

	if _, err := gymEnv.Reset(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	return gymEnv, nil
}

// Step takes a single environmental step
func (g *GymEnv) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	obs, reward, done, err := g.Environment.Step(a)
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: could not step "+
			"GoGym environment: %w", err)
	}

	t := ts.New(ts.Mid, reward, g.discount, obs, g.currentStep.Number+1)
	if done {
		t.StepType = ts.Last
	}
	g.currentStep = t

	return t, done, nil
}

// Reset resets the environment to some starting state
func (g *GymEnv) Reset() (ts.TimeStep, error) {
	obs, err := g.Environment.Reset()
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: could not reset "+
			"environment: %w", err)
	}

	t := ts.New(ts.First, 0, g.discount, obs, 0)
	g.currentStep = t

	return t, nil
}

// Render implements the environment.Environment interface. Gym
// rendering opens a window, so GymEnv does not draw anything.
func (g *GymEnv) Render() error {
	return nil
}

// CurrentTimeStep returns the current timestep in the environment
func (g *GymEnv) CurrentTimeStep() ts.TimeStep {
	return g.currentStep
}

// ObservationSpec returns the observation spec of the environment
func (g *GymEnv) ObservationSpec() env.Spec {
	space := g.ObservationSpace()
	if _, ok := space.(*gogym.BoxSpace); !ok {
		panic("observationSpec: invalid space type, package gym supports " +
			"only GoGym's BoxSpace")
	}
	low, high := space.Low()[0], space.High()[0]
	shape := mat.NewVecDense(low.Len(), nil)

	return env.NewSpec(shape, env.Observation, low, high, env.Continuous)
}

// ActionSpec returns the action specification of the environment
func (g *GymEnv) ActionSpec() env.Spec {
	space := g.ActionSpace()
	if _, ok := space.(*gogym.BoxSpace); !ok {
		panic("actionSpec: invalid space type, package gym supports " +
			"only GoGym's BoxSpace")
	}
	low, high := space.Low()[0], space.High()[0]
	shape := mat.NewVecDense(low.Len(), nil)

	return env.NewSpec(shape, env.Action, low, high, env.Continuous)
}

// DiscountSpec returns the discount specification of the environment
func (g *GymEnv) DiscountSpec() env.Spec {
	return env.NewScalarSpec(env.Discount, g.discount, g.discount)
}

// RewardSpec returns the reward specification of the environment
func (g *GymEnv) RewardSpec() env.Spec {
	return env.NewScalarSpec(env.Reward, minReward, maxReward)
}

// Close performs resource cleanup after the environment is no longer
// needed
func (g *GymEnv) Close() error {
	g.Environment.Close()
	return nil
}

