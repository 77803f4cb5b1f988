package solver

import (
	"errors"
	"math"
	"testing"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// param is a G.ValueGrad with an optional gradient
type param struct {
	value *tensor.Dense
	grad  *tensor.Dense
}

func (p *param) Value() G.Value { return p.value }

func (p *param) Grad() (G.Value, error) {
	if p.grad == nil {
		return nil, errors.New("no gradient")
	}
	return p.grad, nil
}

// recorder is a G.Solver recording the parameters it was asked to step
type recorder struct {
	calls   int
	stepped []G.ValueGrad
}

func (r *recorder) Step(model []G.ValueGrad) error {
	r.calls++
	r.stepped = model
	return nil
}

func newParam(value, grad []float64) *param {
	p := &param{value: tensor.New(tensor.WithShape(len(value)),
		tensor.WithBacking(value))}
	if grad != nil {
		p.grad = tensor.New(tensor.WithShape(len(grad)),
			tensor.WithBacking(grad))
	}
	return p
}

func TestNew(t *testing.T) {
	for _, typ := range []Type{Adam, Vanilla} {
		s, err := New(typ, 1e-3, 1e-5, 10)
		if err != nil {
			t.Errorf("new %v: %v", typ, err)
			continue
		}
		if s.Type != typ || s.Solver == nil {
			t.Errorf("new: unexpected solver %v", s)
		}
	}

	adam, err := New(Adam, 1e-3, 1e-5, 10)
	if err != nil {
		t.Fatal(err)
	}
	if c := adam.Config.(AdamConfig); c.Epsilon != 1e-5 || c.Batch != 10 {
		t.Errorf("new: unexpected Adam configuration %+v", c)
	}

	if _, err := New("RMSProp", 1e-3, 1e-5, 10); err == nil {
		t.Error("new: expected error on unknown solver")
	}
	if _, err := New(Adam, 0, 1e-5, 10); err == nil {
		t.Error("new: expected error on zero step size")
	}
	if _, err := New(Adam, 1e-3, 1e-5, 0); err == nil {
		t.Error("new: expected error on zero batch size")
	}
	if _, err := newSolver(Vanilla, AdamConfig{}); err == nil {
		t.Error("newSolver: expected error on mismatched type")
	}
}

func TestOptimizerWithoutGradients(t *testing.T) {
	rec := &recorder{}
	p := newParam([]float64{1, 2}, nil)
	opt := NewOptimizer(rec, []G.ValueGrad{p})

	if !math.IsNaN(opt.Loss()) {
		t.Errorf("loss: want NaN before backward have %v", opt.Loss())
	}
	if err := opt.ZeroGrad(); err != nil {
		t.Fatalf("zeroGrad: %v", err)
	}
	if err := opt.Backward(3.5); err != nil {
		t.Fatalf("backward: %v", err)
	}
	if err := opt.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}

	if rec.calls != 0 {
		t.Errorf("step: solver should not be called without gradients")
	}
	if opt.Loss() != 3.5 || opt.Steps() != 1 {
		t.Errorf("want loss 3.5 after 1 step, have %v after %v",
			opt.Loss(), opt.Steps())
	}
	if v := p.value.Data().([]float64); v[0] != 1 || v[1] != 2 {
		t.Errorf("step: parameter changed to %v", v)
	}
}

func TestOptimizerWithGradients(t *testing.T) {
	rec := &recorder{}
	withGrad := newParam([]float64{1, 2}, []float64{0.5, -0.5})
	withoutGrad := newParam([]float64{3}, nil)
	opt := NewOptimizer(rec, []G.ValueGrad{withGrad, withoutGrad})

	if err := opt.ZeroGrad(); err != nil {
		t.Fatalf("zeroGrad: %v", err)
	}
	for _, g := range withGrad.grad.Data().([]float64) {
		if g != 0 {
			t.Errorf("zeroGrad: gradient not zeroed: %v", g)
		}
	}

	if err := opt.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if rec.calls != 1 || len(rec.stepped) != 1 {
		t.Errorf("step: expected one call with one parameter, have %v "+
			"calls with %v parameters", rec.calls, len(rec.stepped))
	}
}

func TestOptimizerNonFiniteLoss(t *testing.T) {
	opt := NewOptimizer(&recorder{}, nil)
	for _, loss := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := opt.Backward(loss); !errors.Is(err, ErrNonFiniteLoss) {
			t.Errorf("backward(%v): want ErrNonFiniteLoss have %v", loss, err)
		}
	}
}
