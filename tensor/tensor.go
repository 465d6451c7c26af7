package tensor

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrDimensionMismatch is returned when operand lengths disagree.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// DotProduct returns v·m: for each column c, the sum over rows r of v[r]*m[r][c].
// The result has one entry per column of m.
func DotProduct(v []float64, m mat.Matrix) ([]float64, error) {
	r, c := m.Dims()
	if len(v) != r {
		return nil, fmt.Errorf("dot product: vector has %d entries, matrix has %d rows: %w", len(v), r, ErrDimensionMismatch)
	}
	out := mat.NewVecDense(c, nil)
	out.MulVec(m.T(), mat.NewVecDense(r, append([]float64(nil), v...)))
	return out.RawVector().Data, nil
}

// DotProductTransposed returns m·e: for each row r, the sum over columns c of
// e[c]*m[r][c]. This pushes errors from a layer's outputs back onto its inputs.
func DotProductTransposed(e []float64, m mat.Matrix) ([]float64, error) {
	r, c := m.Dims()
	if len(e) != c {
		return nil, fmt.Errorf("transposed dot product: errors have %d entries, matrix has %d columns: %w", len(e), c, ErrDimensionMismatch)
	}
	out := mat.NewVecDense(r, nil)
	out.MulVec(m, mat.NewVecDense(c, append([]float64(nil), e...)))
	return out.RawVector().Data, nil
}

// AddBias returns values+bias elementwise.
func AddBias(values, bias []float64) ([]float64, error) {
	if len(values) != len(bias) {
		return nil, fmt.Errorf("add bias: %d values vs %d biases: %w", len(values), len(bias), ErrDimensionMismatch)
	}
	out := make([]float64, len(values))
	floats.AddTo(out, values, bias)
	return out, nil
}

// ReluPlain applies max(0, x) to each element, returns a new slice.
func ReluPlain(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		if v > 0 {
			out[i] = v
		}
	}
	return out
}

// ReluDerivative is 1 where x > 0 and 0 elsewhere, including at exactly 0.
func ReluDerivative(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		if v > 0 {
			out[i] = 1
		}
	}
	return out
}

// Softmax normalizes x into a probability distribution.
// The maximum is subtracted before exponentiating so large logits do not overflow.
func Softmax(x []float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}
	maxLogit := floats.Max(x)
	for i, v := range x {
		out[i] = math.Exp(v - maxLogit)
	}
	floats.Scale(1/floats.Sum(out), out)
	return out
}

// ArgMax returns the index of the largest element, the first one on ties.
// It returns -1 for an empty slice.
func ArgMax(x []float64) int {
	if len(x) == 0 {
		return -1
	}
	return floats.MaxIdx(x)
}
