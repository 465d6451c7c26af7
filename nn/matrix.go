package nn

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// randomArray draws size values uniformly from [-1, 1).
func randomArray(size int, src rand.Source) []float64 {
	dist := distuv.Uniform{
		Min: -1,
		Max: 1,
		Src: src,
	}

	data := make([]float64, size)
	for i := 0; i < size; i++ {
		data[i] = dist.Rand()
	}
	return data
}

// initWeights allocates an inputSize x outputSize matrix; row r holds input
// unit r's outgoing connections.
func initWeights(inputSize, outputSize int, src rand.Source) *mat.Dense {
	return mat.NewDense(inputSize, outputSize, randomArray(inputSize*outputSize, src))
}

func copyVector(v []float64) []float64 {
	return append([]float64(nil), v...)
}
