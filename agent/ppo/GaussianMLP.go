package ppo

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/goppo/network"
	"github.com/samuelfneumann/goppo/policy"
	G "gorgonia.org/gorgonia"
)

// For stability, the standard deviation of the Gaussian distribution
// should be offset from 0.
const stdOffset float64 = 1e-3

// head runs the forward pass of a single-sample MLP
type head struct {
	net *network.MLP
	vm  G.VM
}

func newHead(net *network.MLP) *head {
	return &head{net: net, vm: G.NewTapeMachine(net.Graph())}
}

// predict returns the output of the network given state
func (h *head) predict(state []float64) ([]float64, error) {
	if err := h.net.SetInput(state); err != nil {
		return nil, err
	}

	defer h.vm.Reset()
	if err := h.vm.RunAll(); err != nil {
		return nil, err
	}
	return h.net.Output()
}

func (h *head) close() error {
	return h.vm.Close()
}

// gaussian is a policy.Actor whose MLP predicts the mean and log
// standard deviation of a Gaussian distribution
type gaussian struct {
	*head
}

// Forward returns the parameters of the policy in state
func (g gaussian) Forward(state []float64) (policy.Params, error) {
	out, err := g.predict(state)
	if err != nil {
		return policy.Params{}, fmt.Errorf("forward: %w", err)
	}

	return policy.Params{
		Mean: out[0],
		Std:  math.Exp(out[1]) + stdOffset,
	}, nil
}

// GaussianMLP implements a Gaussian policy over 1-dimensional actions
// parameterized by an MLP with two outputs: the mean μ and the log
// standard deviation log(σ) of the policy. The standard deviation is
// computed as exp(log(σ)) + 1e-3.
//
// A GaussianMLP keeps two generations of weights: the live network,
// which is trained, and a frozen copy of it, which is overwritten by
// each call to Snapshot.
type GaussianMLP struct {
	gaussian
	frozen gaussian
}

// NewGaussianMLP returns a new GaussianMLP over states of features
// features. The hidden layers of the MLP are described by hiddenSizes,
// biases, and activations. See network.NewMLP for details.
func NewGaussianMLP(features int, hiddenSizes []int, biases []bool,
	activations []*network.Activation, init G.InitWFn) (*GaussianMLP, error) {
	net, err := network.NewMLP(features, 1, 2, G.NewGraph(), hiddenSizes,
		biases, init, activations)
	if err != nil {
		return nil, fmt.Errorf("newGaussianMLP: %w", err)
	}

	frozen, err := net.Clone()
	if err != nil {
		return nil, fmt.Errorf("newGaussianMLP: could not create frozen "+
			"network: %w", err)
	}

	return &GaussianMLP{
		gaussian: gaussian{newHead(net)},
		frozen:   gaussian{newHead(frozen)},
	}, nil
}

// Snapshot copies the current weights of the policy into the frozen
// generation and returns it. The returned Actor does not change when
// the GaussianMLP is trained, but it is overwritten by the next call
// to Snapshot.
func (g *GaussianMLP) Snapshot() (policy.Actor, error) {
	if err := g.frozen.net.Set(g.net); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return g.frozen, nil
}

// Network returns the live network of the policy
func (g *GaussianMLP) Network() *network.MLP {
	return g.net
}

// Model returns the learnable parameters of the live network
func (g *GaussianMLP) Model() []G.ValueGrad {
	return g.net.Model()
}

// Close releases the VMs of the policy
func (g *GaussianMLP) Close() error {
	if err := g.close(); err != nil {
		return err
	}
	return g.frozen.close()
}

// ValueMLP implements a state value function parameterized by an MLP
// with a single output
type ValueMLP struct {
	*head
}

// NewValueMLP returns a new ValueMLP over states of features features.
// See network.NewMLP for details on the remaining arguments.
func NewValueMLP(features int, hiddenSizes []int, biases []bool,
	activations []*network.Activation, init G.InitWFn) (*ValueMLP, error) {
	net, err := network.NewMLP(features, 1, 1, G.NewGraph(), hiddenSizes,
		biases, init, activations)
	if err != nil {
		return nil, fmt.Errorf("newValueMLP: %w", err)
	}

	return &ValueMLP{newHead(net)}, nil
}

// Value returns the predicted value of state
func (v *ValueMLP) Value(state []float64) (float64, error) {
	out, err := v.predict(state)
	if err != nil {
		return 0, fmt.Errorf("value: %w", err)
	}
	return out[0], nil
}

// Network returns the network of the value function
func (v *ValueMLP) Network() *network.MLP {
	return v.net
}

// Model returns the learnable parameters of the value function
func (v *ValueMLP) Model() []G.ValueGrad {
	return v.net.Model()
}

// Close releases the VM of the value function
func (v *ValueMLP) Close() error {
	return v.close()
}
