package nn

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"digitnet/tensor"
)

// DefaultLearningRate is used when Config.LearningRate is zero.
const DefaultLearningRate = 0.01

var (
	// ErrInvalidTopology is returned for unusable layer sizes or learning rates.
	ErrInvalidTopology = errors.New("invalid network topology")
	// ErrTraceMismatch is returned when Backward is not given the trace of the
	// forward pass that immediately preceded it on the same input.
	ErrTraceMismatch = errors.New("trace does not match a preceding forward pass")
)

type Config struct {
	LayerSizes   []int
	LearningRate float64
	// Seed makes weight initialization reproducible. Zero seeds from the clock.
	Seed uint64
}

// Network is a fully connected feed-forward network with ReLU hidden layers
// and a softmax output, trained one sample at a time.
//
// Forward may be called concurrently. Backward takes an exclusive lock and
// invalidates every trace produced before it, so a trainer that shares a
// Network across goroutines will see ErrTraceMismatch rather than a corrupt
// update. Concurrent trainers should each own a Clone and merge with Average.
type Network struct {
	mu           sync.RWMutex
	layerSizes   []int
	weights      []*mat.Dense
	biases       [][]float64
	learningRate float64
	hidden       Activator
	output       Activator
	// version counts parameter updates; traces record it.
	version uint64
}

// Trace holds the per-layer pre-activation and post-activation vectors of one
// forward pass. It is consumed by Backward.
type Trace struct {
	net     *Network
	version uint64
	input   []float64
	inputs  [][]float64
	outputs [][]float64
}

// Output returns a copy of the final layer's activation, or nil for a trace
// that did not come from Forward.
func (tr *Trace) Output() []float64 {
	if tr == nil || len(tr.outputs) == 0 {
		return nil
	}
	return copyVector(tr.outputs[len(tr.outputs)-1])
}

// New builds a network with the default learning rate, e.g. New(784, 128, 10).
func New(layerSizes ...int) (*Network, error) {
	return NewNetwork(Config{LayerSizes: layerSizes})
}

func NewNetwork(c Config) (*Network, error) {
	if len(c.LayerSizes) < 2 {
		return nil, fmt.Errorf("need at least 2 layer sizes, got %d: %w", len(c.LayerSizes), ErrInvalidTopology)
	}
	for i, size := range c.LayerSizes {
		if size <= 0 {
			return nil, fmt.Errorf("layer %d has size %d: %w", i, size, ErrInvalidTopology)
		}
	}
	lr := c.LearningRate
	if lr == 0 {
		lr = DefaultLearningRate
	}
	if lr < 0 || math.IsNaN(lr) || math.IsInf(lr, 0) {
		return nil, fmt.Errorf("learning rate %v: %w", c.LearningRate, ErrInvalidTopology)
	}
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := rand.NewSource(seed)

	totalWeights := len(c.LayerSizes) - 1
	net := &Network{
		layerSizes:   append([]int(nil), c.LayerSizes...),
		weights:      make([]*mat.Dense, totalWeights),
		biases:       make([][]float64, totalWeights),
		learningRate: lr,
		hidden:       ActivatorLookup["relu"],
		output:       ActivatorLookup["softmax"],
	}
	for i := 0; i < totalWeights; i++ {
		net.weights[i] = initWeights(c.LayerSizes[i], c.LayerSizes[i+1], src)
		net.biases[i] = make([]float64, c.LayerSizes[i+1])
	}
	return net, nil
}

func (net *Network) lastIndex() int {
	return len(net.weights) - 1
}

// LayerSizes returns a copy of the sizes the network was built with.
func (net *Network) LayerSizes() []int {
	return append([]int(nil), net.layerSizes...)
}

func (net *Network) LearningRate() float64 {
	return net.learningRate
}

// Weights returns a copy of the weight matrix feeding layer i+1.
func (net *Network) Weights(i int) *mat.Dense {
	net.mu.RLock()
	defer net.mu.RUnlock()
	return mat.DenseCopyOf(net.weights[i])
}

// Biases returns a copy of the bias vector of layer i+1.
func (net *Network) Biases(i int) []float64 {
	net.mu.RLock()
	defer net.mu.RUnlock()
	return copyVector(net.biases[i])
}

// Forward propagates input through every layer and returns the output
// distribution together with the trace Backward needs.
func (net *Network) Forward(input []float64) ([]float64, *Trace, error) {
	net.mu.RLock()
	defer net.mu.RUnlock()

	if len(input) != net.layerSizes[0] {
		return nil, nil, fmt.Errorf("forward: input has %d values, network expects %d: %w",
			len(input), net.layerSizes[0], tensor.ErrDimensionMismatch)
	}

	tr := &Trace{
		net:     net,
		version: net.version,
		input:   copyVector(input),
		inputs:  make([][]float64, len(net.weights)),
		outputs: make([][]float64, len(net.weights)),
	}

	vector := tr.input
	for i := range net.weights {
		sum, err := tensor.DotProduct(vector, net.weights[i])
		if err != nil {
			return nil, nil, fmt.Errorf("forward layer %d: %w", i, err)
		}
		pre, err := tensor.AddBias(sum, net.biases[i])
		if err != nil {
			return nil, nil, fmt.Errorf("forward layer %d: %w", i, err)
		}

		act := net.hidden
		if i == net.lastIndex() {
			act = net.output
		}
		tr.inputs[i] = pre
		tr.outputs[i] = act.Activate(pre)
		vector = tr.outputs[i]
	}

	return tr.Output(), tr, nil
}

// Predict is Forward without the trace.
func (net *Network) Predict(input []float64) ([]float64, error) {
	out, _, err := net.Forward(input)
	return out, err
}

// Backward applies one gradient step for target, using the trace returned by
// the Forward call on the same input. Nothing is modified when an error is
// returned.
func (net *Network) Backward(input, target []float64, tr *Trace) error {
	net.mu.Lock()
	defer net.mu.Unlock()

	if err := net.checkTrace(input, tr); err != nil {
		return err
	}
	outSize := net.layerSizes[len(net.layerSizes)-1]
	if len(target) != outSize {
		return fmt.Errorf("backward: target has %d values, network outputs %d: %w",
			len(target), outSize, tensor.ErrDimensionMismatch)
	}

	// Errors for every layer are computed against the current weights before
	// any of them is updated.
	deltas := make([][]float64, len(net.weights))
	deltas[net.lastIndex()] = CrossEntropyLoss{}.Backward(tr.outputs[net.lastIndex()], target)
	for i := net.lastIndex(); i > 0; i-- {
		layerErrors, err := tensor.DotProductTransposed(deltas[i], net.weights[i])
		if err != nil {
			return fmt.Errorf("backward layer %d: %w", i, err)
		}
		floats.Mul(layerErrors, net.hidden.Deactivate(tr.inputs[i-1]))
		deltas[i-1] = layerErrors
	}

	for i := net.lastIndex(); i >= 0; i-- {
		layerInput := tr.input
		if i > 0 {
			layerInput = tr.outputs[i-1]
		}
		net.updateWeights(i, layerInput, deltas[i])
	}
	net.version++

	return nil
}

// Train runs Forward then Backward on one sample and returns the
// cross-entropy loss of the output seen before the update.
func (net *Network) Train(input, target []float64) (float64, error) {
	out, tr, err := net.Forward(input)
	if err != nil {
		return 0, err
	}
	if err := net.Backward(input, target, tr); err != nil {
		return 0, err
	}
	return CrossEntropyLoss{}.Loss(out, target), nil
}

// updateWeights does W[r][c] -= lr*delta[c]*layerInput[r] and b[c] -= lr*delta[c].
func (net *Network) updateWeights(i int, layerInput, delta []float64) {
	w := net.weights[i]
	rows, cols := w.Dims()
	w.RankOne(w, -net.learningRate, mat.NewVecDense(rows, layerInput), mat.NewVecDense(cols, delta))
	floats.AddScaled(net.biases[i], -net.learningRate, delta)
}

func (net *Network) checkTrace(input []float64, tr *Trace) error {
	switch {
	case tr == nil:
		return fmt.Errorf("backward: no trace: %w", ErrTraceMismatch)
	case tr.net != net:
		return fmt.Errorf("backward: trace belongs to another network: %w", ErrTraceMismatch)
	case tr.version != net.version:
		return fmt.Errorf("backward: parameters changed since the forward pass: %w", ErrTraceMismatch)
	case len(input) != net.layerSizes[0]:
		return fmt.Errorf("backward: input has %d values, network expects %d: %w",
			len(input), net.layerSizes[0], tensor.ErrDimensionMismatch)
	case !floats.Equal(tr.input, input):
		return fmt.Errorf("backward: input differs from the forward pass: %w", ErrTraceMismatch)
	}
	return nil
}
