package policy

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler samples actions from Gaussian distributions using a single
// seeded source, so that a sequence of samples is reproducible given
// the seed.
type Sampler struct {
	src rand.Source
}

// NewSampler returns a new Sampler seeded with seed
func NewSampler(seed uint64) *Sampler {
	return &Sampler{src: rand.NewSource(seed)}
}

// Sample draws a single action from the Gaussian described by p
func (s *Sampler) Sample(p Params) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, fmt.Errorf("sample: %w", err)
	}

	normal := distuv.Normal{Mu: p.Mean, Sigma: p.Std, Src: s.src}
	return normal.Rand(), nil
}
