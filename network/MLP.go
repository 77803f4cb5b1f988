// Package network implements the feed forward neural networks used as
// function approximators by agents
package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// MLP implements a multi-layered perceptron with a single output layer
// of Outputs() nodes. The MLP owns its input node, which is set with
// SetInput before a VM bound to Graph() is run.
type MLP struct {
	g          *G.ExprGraph
	layers     []*fcLayer
	input      *G.Node
	numOutputs int
	numInputs  int
	batchSize  int

	// Needed to build architectural copies
	hiddenSizes []int
	biases      []bool
	activations []*Activation

	learnables G.Nodes

	prediction *G.Node
	predVal    G.Value
}

// NewMLP creates and returns a new multi-layered perceptron with
// outputs output nodes. The graph parameter g is populated with the
// MLP.
//
// The MLP has number of layers equal to len(hiddenSizes) + 1. A final
// linear layer with a bias unit is always added such that given any
// input, the output will be of size outputs. For index i, hiddenSizes[i]
// is the number of nodes in hidden layer i; biases[i] is true if the
// hidden layer will contain a bias unit and false otherwise; and
// activations[i] is the activation function for hidden layer i. The
// parameter init determines the weight initialization scheme.
func NewMLP(features, batch, outputs int, g *G.ExprGraph,
	hiddenSizes []int, biases []bool, init G.InitWFn,
	activations []*Activation) (*MLP, error) {
	if features <= 0 || batch <= 0 || outputs <= 0 {
		return nil, fmt.Errorf("newMLP: features (%v), batch (%v), and "+
			"outputs (%v) must be positive", features, batch, outputs)
	}

	// Ensure we have one activation per layer
	if len(hiddenSizes) != len(activations) {
		msg := "newMLP: invalid number of activations\n\twant(%d)\n\thave(%d)"
		return nil, fmt.Errorf(msg, len(hiddenSizes), len(activations))
	}

	// Ensure one bias bool per layer
	if len(hiddenSizes) != len(biases) {
		msg := "newMLP: invalid number of biases\n\twant(%d)\n\thave(%d)"
		return nil, fmt.Errorf(msg, len(hiddenSizes), len(biases))
	}

	for i, size := range hiddenSizes {
		if size <= 0 {
			return nil, fmt.Errorf("newMLP: hidden layer %v has size %v", i,
				size)
		}
	}

	input := G.NewMatrix(g, tensor.Float64, G.WithShape(batch, features),
		G.WithName("input"), G.WithInit(G.Zeroes()))

	// Copy the architecture so that callers may reuse their slices
	sizes := append(append([]int(nil), hiddenSizes...), outputs)
	bs := append(append([]bool(nil), biases...), true)
	acts := append(append([]*Activation(nil), activations...), Identity())

	network := &MLP{
		g:           g,
		layers:      addfcLayers(g, sizes, bs, acts, init, features),
		input:       input,
		numOutputs:  outputs,
		numInputs:   features,
		batchSize:   batch,
		hiddenSizes: sizes[:len(hiddenSizes)],
		biases:      bs[:len(biases)],
		activations: acts[:len(activations)],
	}

	if _, err := network.fwd(input); err != nil {
		return nil, fmt.Errorf("newMLP: could not compute forward pass: %w",
			err)
	}

	return network, nil
}

// Clone returns a new MLP with the same architecture and weights on a
// new computational graph. The weights of the clone are independent
// of those of the receiver.
func (m *MLP) Clone() (*MLP, error) {
	clone, err := NewMLP(m.numInputs, m.batchSize, m.numOutputs,
		G.NewGraph(), m.hiddenSizes, m.biases, G.Zeroes(), m.activations)
	if err != nil {
		return nil, fmt.Errorf("clone: %w", err)
	}

	if err := clone.Set(m); err != nil {
		return nil, fmt.Errorf("clone: %w", err)
	}
	return clone, nil
}

// Graph returns the computational graph of the MLP
func (m *MLP) Graph() *G.ExprGraph {
	return m.g
}

// BatchSize returns the batch size of inputs to the MLP
func (m *MLP) BatchSize() int {
	return m.batchSize
}

// Features returns the number of features in a single input vector
func (m *MLP) Features() int {
	return m.numInputs
}

// Outputs returns the number of outputs from the network
func (m *MLP) Outputs() int {
	return m.numOutputs
}

// SetInput sets the value of the input node to a copy of input before
// running the forward pass.
func (m *MLP) SetInput(input []float64) error {
	if len(input) != m.numInputs*m.batchSize {
		return fmt.Errorf("setInput: invalid number of inputs\n\twant(%v)"+
			"\n\thave(%v)", m.numInputs*m.batchSize, len(input))
	}

	inputTensor := tensor.New(
		tensor.WithBacking(append([]float64(nil), input...)),
		tensor.WithShape(m.input.Shape()...),
	)
	return G.Let(m.input, inputTensor)
}

// Set sets the weights of the receiver to be equal to a copy of the
// weights of source, which must have the same architecture
func (m *MLP) Set(source *MLP) error {
	sourceNodes := source.Learnables()
	nodes := m.Learnables()
	if len(sourceNodes) != len(nodes) {
		return fmt.Errorf("set: source has %v learnables but destination "+
			"has %v", len(sourceNodes), len(nodes))
	}

	for i, destLearnable := range nodes {
		if !destLearnable.Shape().Eq(sourceNodes[i].Shape()) {
			return fmt.Errorf("set: learnable %v has shape %v but source "+
				"has shape %v", i, destLearnable.Shape(),
				sourceNodes[i].Shape())
		}

		weights, ok := sourceNodes[i].Value().(tensor.Tensor)
		if !ok {
			return fmt.Errorf("set: learnable %v of source is not a tensor",
				i)
		}

		if err := G.Let(destLearnable, weights.Clone()); err != nil {
			return fmt.Errorf("set: %w", err)
		}
	}
	return nil
}

// Learnables returns the learnable nodes in the MLP
func (m *MLP) Learnables() G.Nodes {
	// Lazy instantiation
	if m.learnables == nil {
		learnables := make(G.Nodes, 0, 2*len(m.layers))
		for _, l := range m.layers {
			learnables = append(learnables, l.learnables()...)
		}
		m.learnables = learnables
	}
	return m.learnables
}

// Model returns the learnables nodes with their gradients.
func (m *MLP) Model() []G.ValueGrad {
	model := make([]G.ValueGrad, 0, len(m.Learnables()))
	for _, node := range m.Learnables() {
		model = append(model, node)
	}
	return model
}

// fwd performs the forward pass of the MLP on the input node
func (m *MLP) fwd(input *G.Node) (*G.Node, error) {
	pred := input
	var err error
	for i, l := range m.layers {
		if pred, err = l.fwd(pred); err != nil {
			msg := "fwd: could not compute forward pass of layer %v: %w"
			return nil, fmt.Errorf(msg, i, err)
		}
	}

	m.prediction = pred
	G.Read(m.prediction, &m.predVal)

	return pred, nil
}

// Output returns a copy of the output of the MLP computed by the last
// run of a VM on its graph, in row major order
func (m *MLP) Output() ([]float64, error) {
	if m.predVal == nil {
		return nil, fmt.Errorf("output: forward pass has not been run")
	}

	data, ok := m.predVal.Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("output: expected []float64 output but got %T",
			m.predVal.Data())
	}
	return append([]float64(nil), data...), nil
}

// Prediction returns the node of the computational graph the stores
// the output of the MLP
func (m *MLP) Prediction() *G.Node {
	return m.prediction
}
