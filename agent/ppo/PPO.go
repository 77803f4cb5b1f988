// Package ppo implements the function approximators and optimizers of
// a proximal policy optimization agent over 1-dimensional continuous
// actions: a Gaussian actor with a frozen snapshot, a state value
// critic, and one Optimizer for each.
package ppo

import (
	"fmt"

	"github.com/samuelfneumann/goppo/config"
	"github.com/samuelfneumann/goppo/initwfn"
	"github.com/samuelfneumann/goppo/network"
	"github.com/samuelfneumann/goppo/solver"
)

// PPO bundles the actor, critic, and optimizers of the agent
type PPO struct {
	Actor  *GaussianMLP
	Critic *ValueMLP

	ActorOptimizer  *solver.Optimizer
	CriticOptimizer *solver.Optimizer
}

// New returns a new PPO agent as described by c over states of the
// given number of features.
//
// Each Optimizer owns its own Solver. The critic Optimizer updates the
// critic's parameters unless c.AliasCriticOptimizer is set, in which
// case it is bound to the actor's parameters instead.
func New(c config.Config, features int) (*PPO, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	init, err := initwfn.New(c.Init, c.InitGain)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	hiddenSizes := c.HiddenSizes()
	biases := make([]bool, len(hiddenSizes))
	activations := make([]*network.Activation, len(hiddenSizes))
	for i := range hiddenSizes {
		biases[i] = true
		if activations[i], err = network.ParseActivation(c.Activation); err != nil {
			return nil, fmt.Errorf("new: %w", err)
		}
	}

	actor, err := NewGaussianMLP(features, hiddenSizes, biases, activations,
		init.InitWFn())
	if err != nil {
		return nil, fmt.Errorf("new: could not create actor: %w", err)
	}

	critic, err := NewValueMLP(features, hiddenSizes, biases, activations,
		init.InitWFn())
	if err != nil {
		return nil, fmt.Errorf("new: could not create critic: %w", err)
	}

	actorSolver, err := solver.New(c.Solver, c.LearningRate, c.AdamEpsilon,
		c.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("new: could not create actor solver: %w", err)
	}
	criticSolver, err := solver.New(c.Solver, c.LearningRate, c.AdamEpsilon,
		c.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("new: could not create critic solver: %w", err)
	}

	criticModel := critic.Model()
	if c.AliasCriticOptimizer {
		criticModel = actor.Model()
	}

	return &PPO{
		Actor:           actor,
		Critic:          critic,
		ActorOptimizer:  solver.NewOptimizer(actorSolver, actor.Model()),
		CriticOptimizer: solver.NewOptimizer(criticSolver, criticModel),
	}, nil
}

// Close releases the VMs of the actor and critic
func (p *PPO) Close() error {
	if err := p.Actor.Close(); err != nil {
		return err
	}
	return p.Critic.Close()
}
