// Package pendulum implements the pendulum swing-up classic control
// environment
package pendulum

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/goppo/environment"
	"github.com/samuelfneumann/goppo/timestep"
	"github.com/samuelfneumann/goppo/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// default physical constants
const (
	AngleBound  float64 = math.Pi // +/- Angle bounds
	SpeedBound  float64 = 8.0     // +/- Speed bounds
	TorqueBound float64 = 2.0     // +/- Torque bounds

	dt      float64 = 0.05
	Gravity float64 = 10.0
	Mass    float64 = 1.0
	Length  float64 = 1.0

	ActionDims      int = 1
	ObservationDims int = 3
	StateDims       int = 2
)

// Pendulum implements the classic control environment Pendulum. In this
// environment, a pendulum is attached to a fixed base. An agent can
// swing the pendulum back and forth, but the swinging torque is
// underpowered. In order to be able to swing the pendulum straight up,
// it must first be rocked back and forth, using the momentum to
// gradually climb higher until the pendulum can point straight up.
//
// The underlying state consists of the angle of the pendulum from the
// positive y-axis, θ, and its angular velocity θ̇. The agent observes
// [cos θ, sin θ, θ̇]. The angular velocity is clipped between
// [-SpeedBound, SpeedBound].
//
// Actions are continuous and 1-dimensional and determine the torque
// applied at the fixed base. Torques are clipped to
// [-TorqueBound, TorqueBound].
//
// Pendulum implements the environment.Environment interface
type Pendulum struct {
	environment.Task
	renderer Renderer

	dt           float64
	gravity      float64
	mass         float64
	length       float64
	speedBounds  r1.Interval
	torqueBounds r1.Interval

	state      *mat.VecDense
	lastTorque float64
	lastStep   timestep.TimeStep
	discount   float64
}

// New creates and returns a new Pendulum environment. If renderer is
// nil, Render is a no-op.
func New(t environment.Task, discount float64,
	renderer Renderer) (*Pendulum, error) {
	if renderer == nil {
		renderer = NopRenderer{}
	}

	p := &Pendulum{
		Task:         t,
		renderer:     renderer,
		dt:           dt,
		gravity:      Gravity,
		mass:         Mass,
		length:       Length,
		speedBounds:  r1.Interval{Min: -SpeedBound, Max: SpeedBound},
		torqueBounds: r1.Interval{Min: -TorqueBound, Max: TorqueBound},
		discount:     discount,
	}

	if _, err := p.Reset(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	return p, nil
}

// Reset resets the environment and returns a starting state drawn from
// the Task's Starter
func (p *Pendulum) Reset() (timestep.TimeStep, error) {
	state := p.Start()
	if err := p.validateState(state); err != nil {
		return timestep.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	p.state = state
	p.lastTorque = 0
	p.lastStep = timestep.New(timestep.First, 0, p.discount,
		p.observation(), 0)

	return p.lastStep, nil
}

// Step takes one environmental step given action and returns the next
// timestep together with whether or not the episode has ended.
func (p *Pendulum) Step(action *mat.VecDense) (timestep.TimeStep, bool,
	error) {
	if action.Len() != ActionDims {
		return timestep.TimeStep{}, false, fmt.Errorf("step: actions "+
			"should be %v-dimensional but got %v", ActionDims, action.Len())
	}
	if u := action.AtVec(0); math.IsNaN(u) {
		return timestep.TimeStep{}, false, fmt.Errorf("step: action is NaN")
	}

	torque := floatutils.ClipInterval(action.AtVec(0), p.torqueBounds)
	clipped := mat.NewVecDense(ActionDims, []float64{torque})

	// Rewards are computed on the state the action was taken in
	reward := p.GetReward(p.state, clipped)

	p.state = p.nextState(p.state, torque)
	p.lastTorque = torque

	nextStep := timestep.New(timestep.Mid, reward, p.discount,
		p.observation(), p.lastStep.Number+1)
	p.End(&nextStep)

	p.lastStep = nextStep
	return nextStep, nextStep.Last(), nil
}

// nextState computes the next state of the environment given a state
// and an amount of torque to apply to the fixed base of the pendulum
func (p *Pendulum) nextState(state mat.Vector, torque float64) *mat.VecDense {
	th, thdot := state.AtVec(0), state.AtVec(1)

	newthdot := thdot + (3*p.gravity/(2*p.length)*math.Sin(th)+
		3.0/(p.mass*p.length*p.length)*torque)*p.dt
	newthdot = floatutils.ClipInterval(newthdot, p.speedBounds)

	newth := th + newthdot*p.dt

	return mat.NewVecDense(StateDims, []float64{newth, newthdot})
}

// observation returns the observation of the current underlying state
func (p *Pendulum) observation() *mat.VecDense {
	th, thdot := p.state.AtVec(0), p.state.AtVec(1)
	return mat.NewVecDense(ObservationDims, []float64{
		math.Cos(th),
		math.Sin(th),
		thdot,
	})
}

// State returns a copy of the underlying [θ, θ̇] state, with θ
// normalized to [-π, π)
func (p *Pendulum) State() *mat.VecDense {
	return mat.NewVecDense(StateDims, []float64{
		floatutils.NormalizeAngle(p.state.AtVec(0)),
		p.state.AtVec(1),
	})
}

// CurrentTimeStep returns the last TimeStep that occurred in the
// environment
func (p *Pendulum) CurrentTimeStep() timestep.TimeStep {
	return p.lastStep
}

// Render draws the current state of the pendulum with the environment's
// Renderer
func (p *Pendulum) Render() error {
	frame := Frame{
		Angle:    floatutils.NormalizeAngle(p.state.AtVec(0)),
		Speed:    p.state.AtVec(1),
		Torque:   p.lastTorque,
		Step:     p.lastStep.Number,
		StepType: p.lastStep.StepType,
	}
	if err := p.renderer.Render(frame); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// RewardSpec returns the reward specification of the environment
func (p *Pendulum) RewardSpec() environment.Spec {
	return environment.NewScalarSpec(environment.Reward, p.Min(), p.Max())
}

// DiscountSpec returns the discount specification of the environment
func (p *Pendulum) DiscountSpec() environment.Spec {
	return environment.NewScalarSpec(environment.Discount, p.discount,
		p.discount)
}

// ObservationSpec returns the observation specification of the
// environment
func (p *Pendulum) ObservationSpec() environment.Spec {
	shape := mat.NewVecDense(ObservationDims, nil)

	lowerBound := mat.NewVecDense(ObservationDims,
		[]float64{-1, -1, p.speedBounds.Min})
	upperBound := mat.NewVecDense(ObservationDims,
		[]float64{1, 1, p.speedBounds.Max})

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Continuous)
}

// ActionSpec returns the action specification of the environment
func (p *Pendulum) ActionSpec() environment.Spec {
	return environment.NewScalarSpec(environment.Action, p.torqueBounds.Min,
		p.torqueBounds.Max)
}

// String converts the environment to a string representation
func (p *Pendulum) String() string {
	str := "Pendulum  |  theta: %v  |  theta dot: %v"
	s := p.State()
	return fmt.Sprintf(str, s.AtVec(0), s.AtVec(1))
}

// validateState validates the state to ensure that the angle and angular
// velocity are within the environmental limits
func (p *Pendulum) validateState(state mat.Vector) error {
	if state.Len() != StateDims {
		return fmt.Errorf("starting state should be %v-dimensional but "+
			"got %v", StateDims, state.Len())
	}
	if th := state.AtVec(0); math.IsNaN(th) || math.IsInf(th, 0) {
		return fmt.Errorf("theta %v is not finite", th)
	}
	thdot := state.AtVec(1)
	if thdot < p.speedBounds.Min || thdot > p.speedBounds.Max ||
		math.IsNaN(thdot) {
		return fmt.Errorf("theta dot %v is not within bounds %v", thdot,
			p.speedBounds)
	}
	return nil
}
