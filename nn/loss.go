package nn

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// probFloor keeps log() finite when a probability underflows to zero.
const probFloor = 1e-10

type CrossEntropyLoss struct{}

// Loss returns -sum(target * log(probs)).
// Both slices must have the same length.
func (c CrossEntropyLoss) Loss(probs, target []float64) float64 {
	loss := 0.0
	for i, t := range target {
		if t == 0 {
			continue
		}
		p := probs[i]
		if p < probFloor {
			p = probFloor
		}
		loss -= t * math.Log(p)
	}
	return loss
}

// Backward computes the gradient of the cross-entropy loss with softmax.
// grad = (softmax_output - one_hot_label)
func (c CrossEntropyLoss) Backward(probs, target []float64) []float64 {
	grad := make([]float64, len(probs))
	floats.SubTo(grad, probs, target)
	return grad
}
