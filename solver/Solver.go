// Package solver implements functionality to describe Gorgonia Solvers
// by name so that they can be chosen in configuration files, together
// with an Optimizer that applies a Solver to a model.
package solver

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// Type describes different types of solvers that are available
type Type string

// Available solver types
const (
	Adam    Type = "Adam"
	Vanilla Type = "Vanilla"
)

// Solver wraps a Gorgonia Solver together with the configuration that
// created it
type Solver struct {
	G.Solver
	Type
	Config
}

// newSolver returns a new solver with the given type and configuration.
func newSolver(t Type, c Config) (*Solver, error) {
	if !c.ValidType(t) {
		return nil, fmt.Errorf("newSolver: invalid solver type %v for "+
			"configuration %T", t, c)
	}
	return &Solver{Solver: c.Create(), Type: t, Config: c}, nil
}

// New returns a new Solver of type t with the given step size and
// batch size. The epsilon argument is the smoothing factor of Adam and
// is ignored by Vanilla.
func New(t Type, stepSize, epsilon float64, batchSize int) (*Solver, error) {
	if stepSize <= 0 {
		return nil, fmt.Errorf("new: step size must be positive but got %v",
			stepSize)
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("new: batch size must be positive but got %v",
			batchSize)
	}

	switch t {
	case Adam:
		return NewAdam(stepSize, epsilon, 0.9, 0.999, batchSize)
	case Vanilla:
		return NewVanilla(stepSize, batchSize, 0)
	default:
		return nil, fmt.Errorf("new: no such solver type %q", t)
	}
}

// String implements the fmt.Stringer interface
func (s *Solver) String() string {
	return fmt.Sprintf("{%v Solver: %+v}", s.Type, s.Config)
}

// Config implements a Gorgonia Solver configuration and can be used to
// create the Gorgonia Solvers it describes.
type Config interface {
	Create() G.Solver

	// ValidType returns whether a specific Solver type can be created
	// with the Config
	ValidType(Type) bool
}
