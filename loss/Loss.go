// Package loss assembles the actor and critic objectives of the PPO
// agent from the transitions of a rollout
package loss

import (
	"errors"
	"fmt"

	"github.com/samuelfneumann/goppo/estimator"
	"gonum.org/v1/gonum/stat"
)

// ErrNullObjective is returned when the value of an absent Objective
// is requested
var ErrNullObjective = errors.New("objective not implemented")

// Objective is an optional scalar objective. The zero value is absent.
type Objective struct {
	value   float64
	present bool
}

// Some returns a present Objective with value v
func Some(v float64) Objective {
	return Objective{value: v, present: true}
}

// Present returns whether the Objective holds a value
func (o Objective) Present() bool {
	return o.present
}

// Float64 returns the value of the Objective, or ErrNullObjective if the
// Objective is absent
func (o Objective) Float64() (float64, error) {
	if !o.present {
		return 0, ErrNullObjective
	}
	return o.value, nil
}

func (o Objective) String() string {
	if !o.present {
		return "<absent>"
	}
	return fmt.Sprintf("%v", o.value)
}

// RewardToGoer computes rewards-to-go over a trajectory
type RewardToGoer interface {
	RewardToGo(tr estimator.Trajectory, from int) (float64, error)
}

// Critic returns the mean squared difference between the realized
// reward at each timestep of tr and the reward-to-go from that
// timestep. The loss of an empty trajectory is 0.
func Critic(tr estimator.Trajectory, r RewardToGoer) (float64, error) {
	n := tr.Len()
	if n == 0 {
		return 0, nil
	}

	sqErrs := make([]float64, n)
	for t := 0; t < n; t++ {
		transition, err := tr.At(t)
		if err != nil {
			return 0, fmt.Errorf("critic: %w", err)
		}
		toGo, err := r.RewardToGo(tr, t)
		if err != nil {
			return 0, fmt.Errorf("critic: %w", err)
		}

		diff := transition.Reward - toGo
		sqErrs[t] = diff * diff
	}

	return stat.Mean(sqErrs, nil), nil
}

// Actor combines the advantage estimate and the per-timestep policy
// ratios of a rollout into the actor's surrogate objective.
//
// The surrogate objective is not implemented: the returned Objective is
// always absent.
func Actor(advantage float64, ratios []float64) Objective {
	return Objective{}
}

// Total returns actor - critic. An absent actor objective contributes
// nothing, so the total is -critic in that case.
func Total(actor Objective, critic float64) float64 {
	a, err := actor.Float64()
	if err != nil {
		a = 0
	}
	return a - critic
}
