package nn

import (
	"fmt"

	"digitnet/tensor"
)

// Activator is an elementwise (or whole-vector) activation and its derivative.
type Activator interface {
	Activate(pre []float64) []float64
	// Deactivate returns the derivative of the activation evaluated at the
	// pre-activation values.
	Deactivate(pre []float64) []float64
	fmt.Stringer
}

var ActivatorLookup = map[string]Activator{
	"relu":    ReLU{},
	"softmax": Softmax{},
}

type ReLU struct{}

func (r ReLU) Activate(pre []float64) []float64 {
	return tensor.ReluPlain(pre)
}

func (r ReLU) Deactivate(pre []float64) []float64 {
	return tensor.ReluDerivative(pre)
}

func (r ReLU) String() string {
	return "relu"
}

// Softmax is only used on the output layer, paired with cross-entropy.
type Softmax struct{}

func (s Softmax) Activate(pre []float64) []float64 {
	return tensor.Softmax(pre)
}

// Deactivate returns ones: the softmax Jacobian is already folded into the
// cross-entropy error (output - target).
func (s Softmax) Deactivate(pre []float64) []float64 {
	o := make([]float64, len(pre))
	for i := range o {
		o[i] = 1
	}
	return o
}

func (s Softmax) String() string {
	return "softmax"
}
