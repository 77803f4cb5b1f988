// Package estimator implements reward-to-go and temporal-difference
// advantage estimates over the transitions of a single rollout.
//
// Both estimates are computed over a Trajectory, a temporally ordered
// sequence of transitions such as a trajectory.Buffer. Given rewards
// r[0], r[1], ..., r[n-1], discount ℽ and critic values V[t] = v(S[t]),
// the package computes:
//
//	RewardToGo(k)         = Σ_{t=k}^{n-1} ℽ^t r[t]
//	RelativeRewardToGo(k) = Σ_{t=k}^{n-1} ℽ^(t-k) r[t]
//	Advantage(k)          = Σ_{t=k-1}^{0} r[t] + ℽV[t+1] - V[t]
//
// RewardToGo discounts by the absolute timestep rather than the offset
// from k. Advantage sums one-step TD errors over the prefix before k,
// visited in reverse order, and is therefore always 0 for k = 0.
package estimator

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/goppo/buffer/trajectory"
	ts "github.com/samuelfneumann/goppo/timestep"
	"gonum.org/v1/gonum/floats"
)

// Trajectory is a temporally ordered sequence of transitions
type Trajectory interface {
	Len() int
	At(i int) (ts.Transition, error)
}

// Critic estimates the value of a state
type Critic interface {
	Value(state []float64) (float64, error)
}

// CriticFunc adapts a function to the Critic interface
type CriticFunc func(state []float64) (float64, error)

// Value returns f(state)
func (f CriticFunc) Value(state []float64) (float64, error) {
	return f(state)
}

// Discounting determines which exponent is used to discount rewards
// when computing rewards-to-go
type Discounting string

const (
	// Absolute discounts the reward at timestep t by ℽ^t
	Absolute Discounting = "absolute"

	// Relative discounts the reward at timestep t by ℽ^(t-k) when
	// computing the reward-to-go from timestep k
	Relative Discounting = "relative"
)

// Estimator computes rewards-to-go and advantages with a fixed
// discount factor and discounting mode
type Estimator struct {
	gamma       float64
	discounting Discounting
}

// New returns a new Estimator with discount factor gamma ∈ (0, 1]
func New(gamma float64, d Discounting) (Estimator, error) {
	if gamma <= 0 || gamma > 1 || math.IsNaN(gamma) {
		return Estimator{}, fmt.Errorf("new: discount must be in (0, 1], "+
			"have(%v)", gamma)
	}
	if d != Absolute && d != Relative {
		return Estimator{}, fmt.Errorf("new: unknown discounting %q", d)
	}
	return Estimator{gamma: gamma, discounting: d}, nil
}

// Gamma returns the discount factor of the Estimator
func (e Estimator) Gamma() float64 {
	return e.gamma
}

// Discounting returns the discounting mode of the Estimator
func (e Estimator) Discounting() Discounting {
	return e.discounting
}

// RewardToGo returns the reward-to-go from timestep from using the
// Estimator's discounting mode
func (e Estimator) RewardToGo(tr Trajectory, from int) (float64, error) {
	if e.discounting == Relative {
		return RelativeRewardToGo(tr, from, e.gamma)
	}
	return RewardToGo(tr, from, e.gamma)
}

// Advantage returns the TD advantage sum before timestep from
func (e Estimator) Advantage(tr Trajectory, c Critic,
	from int) (float64, error) {
	return Advantage(tr, c, from, e.gamma)
}

// RewardToGo returns Σ_{t=from}^{len-1} ℽ^t r[t], discounting each
// reward by its absolute timestep. The sum over the empty range
// from == tr.Len() is 0.
func RewardToGo(tr Trajectory, from int, gamma float64) (float64, error) {
	rewards, err := rewardsFrom(tr, from)
	if err != nil {
		return 0, fmt.Errorf("rewardToGo: %w", err)
	}

	discounts := make([]float64, len(rewards))
	for i := range discounts {
		discounts[i] = math.Pow(gamma, float64(from+i))
	}

	return floats.Dot(rewards, discounts), nil
}

// RelativeRewardToGo returns Σ_{t=from}^{len-1} ℽ^(t-from) r[t]. The sum
// over the empty range from == tr.Len() is 0.
func RelativeRewardToGo(tr Trajectory, from int,
	gamma float64) (float64, error) {
	rewards, err := rewardsFrom(tr, from)
	if err != nil {
		return 0, fmt.Errorf("relativeRewardToGo: %w", err)
	}
	if len(rewards) == 0 {
		return 0, nil
	}

	return DiscountCumSum(rewards, gamma)[0], nil
}

// Values returns the critic's value of the state of each transition in
// tr, evaluated in temporal order
func Values(tr Trajectory, c Critic) ([]float64, error) {
	values := make([]float64, tr.Len())
	for t := range values {
		transition, err := tr.At(t)
		if err != nil {
			return nil, fmt.Errorf("values: %w", err)
		}

		values[t], err = c.Value(transition.State)
		if err != nil {
			return nil, fmt.Errorf("values: could not evaluate critic at "+
				"timestep %v: %w", t, err)
		}
	}
	return values, nil
}

// Advantage returns the sum of one-step TD errors
// r[t] + ℽV[t+1] - V[t] for t = from-1, from-2, ..., 0. Critic values
// are computed for every transition in tr before accumulating.
//
// The result is 0 whenever from <= 0. Since V[from] is needed, from
// must be less than tr.Len().
func Advantage(tr Trajectory, c Critic, from int,
	gamma float64) (float64, error) {
	values, err := Values(tr, c)
	if err != nil {
		return 0, fmt.Errorf("advantage: %w", err)
	}

	if from <= 0 {
		return 0, nil
	}
	if from >= len(values) {
		return 0, fmt.Errorf("advantage: %w: value at timestep %v needed "+
			"but trajectory has length %v", trajectory.ErrIndexOutOfRange,
			from, len(values))
	}

	advantage := 0.0
	for t := from - 1; t >= 0; t-- {
		transition, err := tr.At(t)
		if err != nil {
			return 0, fmt.Errorf("advantage: %w", err)
		}
		advantage += transition.Reward + gamma*values[t+1] - values[t]
	}

	return advantage, nil
}

// rewardsFrom returns the rewards of tr from timestep from onwards
func rewardsFrom(tr Trajectory, from int) ([]float64, error) {
	n := tr.Len()
	if from < 0 || from > n {
		return nil, fmt.Errorf("%w: timestep %v not in [0, %v]",
			trajectory.ErrIndexOutOfRange, from, n)
	}

	rewards := make([]float64, 0, n-from)
	for t := from; t < n; t++ {
		transition, err := tr.At(t)
		if err != nil {
			return nil, err
		}
		rewards = append(rewards, transition.Reward)
	}
	return rewards, nil
}
