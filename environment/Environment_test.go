package environment

import (
	"testing"

	"github.com/samuelfneumann/goppo/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestStepLimit(t *testing.T) {
	limit := NewStepLimit(3)
	obs := mat.NewVecDense(1, nil)

	for n := 0; n < 3; n++ {
		step := timestep.New(timestep.Mid, 0, 1, obs, n)
		if limit.End(&step) || step.Last() {
			t.Errorf("step %v should not end the episode", n)
		}
	}

	step := timestep.New(timestep.Mid, 0, 1, obs, 3)
	if !limit.End(&step) || !step.Last() {
		t.Error("step 3 should end the episode")
	}
}

func TestUniformStarter(t *testing.T) {
	bounds := []r1.Interval{{Min: -1, Max: 1}, {Min: 5, Max: 6}}
	s := NewUniformStarter(bounds, 7)

	for i := 0; i < 50; i++ {
		start := s.Start()
		if start.Len() != len(bounds) {
			t.Fatalf("start: want length %v have %v", len(bounds),
				start.Len())
		}
		for j, b := range bounds {
			if v := start.AtVec(j); v < b.Min || v > b.Max {
				t.Errorf("start[%v] = %v not in %v", j, v, b)
			}
		}
	}

	a, b := NewUniformStarter(bounds, 7), NewUniformStarter(bounds, 7)
	if !mat.Equal(a.Start(), b.Start()) {
		t.Error("starters with the same seed should agree")
	}
}

func TestNewSpecMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("newSpec: expected panic on mismatched bounds")
		}
	}()
	NewSpec(mat.NewVecDense(2, nil), Observation, mat.NewVecDense(1, nil),
		mat.NewVecDense(2, nil), Continuous)
}
