// Package policy implements Gaussian policies over 1-dimensional
// continuous actions: action densities, the importance sampling ratio
// between a current and an old policy, and action sampling.
package policy

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNonPositiveStd is returned when a density is requested for a
	// distribution with a standard deviation <= 0
	ErrNonPositiveStd = errors.New("standard deviation must be positive")

	// ErrDegenerateDensity is returned when a density is not finite
	ErrDegenerateDensity = errors.New("non-finite density")

	// ErrDegenerateRatio is returned when a policy ratio is undefined
	// or not finite
	ErrDegenerateRatio = errors.New("degenerate policy ratio")
)

// Params holds the parameters of a Gaussian action distribution
type Params struct {
	Mean float64
	Std  float64
}

// Validate returns an error if the Params do not describe a Gaussian
func (p Params) Validate() error {
	if !(p.Std > 0) || math.IsInf(p.Std, 1) {
		return fmt.Errorf("%w: have(%v)", ErrNonPositiveStd, p.Std)
	}
	if math.IsNaN(p.Mean) || math.IsInf(p.Mean, 0) {
		return fmt.Errorf("non-finite mean %v", p.Mean)
	}
	return nil
}

// Density returns
//
//	1 / (σ √(2π) exp(-(a - μ)² / (2σ²)))
//
// for action a under the Gaussian with mean μ and standard deviation σ.
// This equals exp((a - μ)² / (2σ²)) / (σ √(2π)), the Gaussian
// probability density function with the sign of the exponent flipped.
func Density(p Params, action float64) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, fmt.Errorf("density: %w", err)
	}

	a := p.Std * math.Sqrt(2*math.Pi)
	b := math.Exp(-math.Pow(action-p.Mean, 2) / (2 * p.Std * p.Std))
	density := 1 / (a * b)

	if math.IsInf(density, 0) || math.IsNaN(density) {
		return 0, fmt.Errorf("density: %w: action %v, mean %v, std %v",
			ErrDegenerateDensity, action, p.Mean, p.Std)
	}
	return density, nil
}

// Ratio returns the importance sampling ratio of action under the
// current and old distributions:
//
//	Density(current, action) / Density(old, action)
func Ratio(current, old Params, action float64) (float64, error) {
	num, err := Density(current, action)
	if err != nil {
		return 0, fmt.Errorf("ratio: current policy: %w", err)
	}
	den, err := Density(old, action)
	if err != nil {
		return 0, fmt.Errorf("ratio: old policy: %w", err)
	}
	if den == 0 {
		return 0, fmt.Errorf("ratio: %w: old policy density is zero",
			ErrDegenerateRatio)
	}

	ratio := num / den
	if math.IsInf(ratio, 0) || math.IsNaN(ratio) {
		return 0, fmt.Errorf("ratio: %w: %v / %v", ErrDegenerateRatio, num,
			den)
	}
	return ratio, nil
}
