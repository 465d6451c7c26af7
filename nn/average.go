package nn

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Clone returns an independent copy of the network's parameters.
func (net *Network) Clone() *Network {
	net.mu.RLock()
	defer net.mu.RUnlock()

	c := &Network{
		layerSizes:   append([]int(nil), net.layerSizes...),
		weights:      make([]*mat.Dense, len(net.weights)),
		biases:       make([][]float64, len(net.biases)),
		learningRate: net.learningRate,
		hidden:       net.hidden,
		output:       net.output,
	}
	for i := range net.weights {
		c.weights[i] = mat.DenseCopyOf(net.weights[i])
		c.biases[i] = copyVector(net.biases[i])
	}
	return c
}

// Average merges independently trained networks by taking the elementwise
// mean of their weights and biases. All networks must share layer sizes.
// The result uses the first network's learning rate.
func Average(nets ...*Network) (*Network, error) {
	if len(nets) == 0 {
		return nil, fmt.Errorf("average: no networks: %w", ErrInvalidTopology)
	}
	for k, n := range nets[1:] {
		if !slices.Equal(nets[0].layerSizes, n.layerSizes) {
			return nil, fmt.Errorf("average: network %d has sizes %v, want %v: %w",
				k+1, n.layerSizes, nets[0].layerSizes, ErrInvalidTopology)
		}
	}

	out := nets[0].Clone()
	for _, n := range nets[1:] {
		n.mu.RLock()
		for i := range out.weights {
			out.weights[i].Add(out.weights[i], n.weights[i])
			floats.Add(out.biases[i], n.biases[i])
		}
		n.mu.RUnlock()
	}

	scale := 1 / float64(len(nets))
	for i := range out.weights {
		out.weights[i].Scale(scale, out.weights[i])
		floats.Scale(scale, out.biases[i])
	}
	return out, nil
}
