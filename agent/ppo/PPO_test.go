package ppo

import (
	"math"
	"testing"

	"github.com/samuelfneumann/goppo/config"
	"github.com/samuelfneumann/goppo/initwfn"
	"github.com/samuelfneumann/goppo/network"
	"github.com/samuelfneumann/goppo/policy"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// fill sets every learnable of net to value
func fill(t *testing.T, net *network.MLP, value float64) {
	t.Helper()
	for _, node := range net.Learnables() {
		w := tensor.New(tensor.WithShape(node.Shape()...),
			tensor.Of(tensor.Float64))
		if err := w.Memset(value); err != nil {
			t.Fatal(err)
		}
		if err := G.Let(node, w); err != nil {
			t.Fatal(err)
		}
	}
}

func newActor(t *testing.T) *GaussianMLP {
	t.Helper()
	actor, err := NewGaussianMLP(3, []int{4}, []bool{true},
		[]*network.Activation{network.TanH()}, G.GlorotU(1))
	if err != nil {
		t.Fatalf("newGaussianMLP: %v", err)
	}
	t.Cleanup(func() { actor.Close() })
	return actor
}

func TestGaussianMLPZeroWeights(t *testing.T) {
	actor := newActor(t)
	fill(t, actor.Network(), 0)

	params, err := actor.Forward([]float64{0.3, -0.2, 1})
	if err != nil {
		t.Fatalf("forward: %v", err)
	}

	// Zero weights predict μ = 0 and log(σ) = 0
	if params.Mean != 0 || math.Abs(params.Std-(1+stdOffset)) > 1e-12 {
		t.Errorf("forward: want {0 %v} have %+v", 1+stdOffset, params)
	}
}

func TestGaussianMLPPositiveStd(t *testing.T) {
	actor := newActor(t)

	states := [][]float64{{1, 0, 0}, {0, 1, -8}, {-1, 0, 8}}
	for _, s := range states {
		params, err := actor.Forward(s)
		if err != nil {
			t.Fatalf("forward: %v", err)
		}
		if err := params.Validate(); err != nil {
			t.Errorf("forward(%v): invalid params %+v: %v", s, params, err)
		}
	}
}

func TestSnapshotIndependent(t *testing.T) {
	actor := newActor(t)
	state := []float64{0.5, 0.5, 2}

	old, err := actor.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	before, err := actor.Forward(state)
	if err != nil {
		t.Fatal(err)
	}
	snapped, err := old.Forward(state)
	if err != nil {
		t.Fatal(err)
	}
	if before != snapped {
		t.Errorf("snapshot: want %+v have %+v", before, snapped)
	}

	// Changing the live weights must not change the snapshot
	fill(t, actor.Network(), 0)
	after, err := old.Forward(state)
	if err != nil {
		t.Fatal(err)
	}
	if after != snapped {
		t.Errorf("snapshot changed with live weights: want %+v have %+v",
			snapped, after)
	}

	// The ratio of a policy with its own snapshot is 1
	old, err = actor.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	ratio, err := policy.StateRatio(actor, old, state, 0.25)
	if err != nil {
		t.Fatalf("stateRatio: %v", err)
	}
	if math.Abs(ratio-1) > 1e-12 {
		t.Errorf("stateRatio: want 1 have %v", ratio)
	}
}

func TestValueMLP(t *testing.T) {
	critic, err := NewValueMLP(3, []int{2}, []bool{true},
		[]*network.Activation{network.Identity()}, G.Ones())
	if err != nil {
		t.Fatalf("newValueMLP: %v", err)
	}
	defer critic.Close()

	// Each hidden unit sums the state, the output sums the hidden units
	v, err := critic.Value([]float64{1, 2, 3})
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v != 12 {
		t.Errorf("value: want 12 have %v", v)
	}

	if _, err := critic.Value([]float64{1}); err == nil {
		t.Error("value: expected error on wrong state size")
	}
}

func TestNew(t *testing.T) {
	c := config.Default()
	c.Init = initwfn.GlorotN

	agent, err := New(c, c.InputSize)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer agent.Close()

	// Two hidden layers and an output layer, each with weights and bias
	want := 2 * (c.Layers + 1)
	if n := len(agent.ActorOptimizer.Model()); n != want {
		t.Errorf("actor optimizer: want %v parameters have %v", want, n)
	}

	critic := agent.CriticOptimizer.Model()
	if critic[0] != agent.Critic.Model()[0] {
		t.Error("critic optimizer should be bound to the critic")
	}
}

func TestNewAliasCriticOptimizer(t *testing.T) {
	c := config.Default()
	c.AliasCriticOptimizer = true

	agent, err := New(c, c.InputSize)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer agent.Close()

	critic := agent.CriticOptimizer.Model()
	if critic[0] != agent.Actor.Model()[0] {
		t.Error("aliased critic optimizer should be bound to the actor")
	}
}

func TestNewInvalid(t *testing.T) {
	c := config.Default()
	c.Activation = "softsign"
	if _, err := New(c, c.InputSize); err == nil {
		t.Error("new: expected error on unknown activation")
	}
}
