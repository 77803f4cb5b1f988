package solver

import (
	"errors"
	"fmt"
	"math"

	G "gorgonia.org/gorgonia"
)

// ErrNonFiniteLoss is returned by Optimizer.Backward when given a NaN
// or infinite loss
var ErrNonFiniteLoss = errors.New("loss is not finite")

// Optimizer applies a Gorgonia Solver to the learnable parameters of a
// model. An update is performed in three phases: ZeroGrad, Backward,
// and Step.
//
// Backward records the scalar loss of the update. A loss computed
// outside of the model's computational graph carries no gradient path
// to the model, so Backward leaves the gradients unchanged and Step
// updates only those parameters that hold a gradient.
type Optimizer struct {
	solver G.Solver
	model  []G.ValueGrad

	loss  float64
	steps int
}

// NewOptimizer returns a new Optimizer updating model with solver
func NewOptimizer(solver G.Solver, model []G.ValueGrad) *Optimizer {
	return &Optimizer{solver: solver, model: model, loss: math.NaN()}
}

// ZeroGrad zeroes the gradients of all parameters that hold one
func (o *Optimizer) ZeroGrad() error {
	for _, param := range o.withGrad() {
		grad, _ := param.Grad()
		zeroer, ok := grad.(interface{ Zero() })
		if !ok {
			return fmt.Errorf("zeroGrad: cannot zero gradient of type %T",
				grad)
		}
		zeroer.Zero()
	}
	return nil
}

// Backward records loss as the loss of the current update
func (o *Optimizer) Backward(loss float64) error {
	if math.IsNaN(loss) || math.IsInf(loss, 0) {
		return fmt.Errorf("backward: %w: %v", ErrNonFiniteLoss, loss)
	}
	o.loss = loss
	return nil
}

// Step updates the parameters of the model that hold a gradient
func (o *Optimizer) Step() error {
	o.steps++

	params := o.withGrad()
	if len(params) == 0 {
		return nil
	}
	if err := o.solver.Step(params); err != nil {
		return fmt.Errorf("step: %w", err)
	}
	return nil
}

// Loss returns the loss recorded by the last call to Backward, or NaN
// if Backward has not been called
func (o *Optimizer) Loss() float64 {
	return o.loss
}

// Steps returns the number of calls to Step
func (o *Optimizer) Steps() int {
	return o.steps
}

// Model returns the parameters updated by the Optimizer
func (o *Optimizer) Model() []G.ValueGrad {
	return o.model
}

// withGrad returns the parameters of the model that hold a gradient
func (o *Optimizer) withGrad() []G.ValueGrad {
	params := make([]G.ValueGrad, 0, len(o.model))
	for _, param := range o.model {
		if _, err := param.Grad(); err == nil {
			params = append(params, param)
		}
	}
	return params
}
