package tensor

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestDotProduct(t *testing.T) {
	// 3 inputs, 2 outputs
	w := mat.NewDense(3, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
	})
	got, err := DotProduct([]float64{1, 0, -1}, w)
	require.NoError(t, err)
	want := []float64{1 - 5, 2 - 6}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("at %d, got %f, want %f", i, got[i], want[i])
		}
	}
}

func TestDotProductMismatch(t *testing.T) {
	w := mat.NewDense(4, 2, nil)
	_, err := DotProduct([]float64{1, 2, 3}, w)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDimensionMismatch))
}

func TestDotProductTransposed(t *testing.T) {
	w := mat.NewDense(3, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
	})
	got, err := DotProductTransposed([]float64{1, -1}, w)
	require.NoError(t, err)
	require.Equal(t, []float64{-1, -1, -1}, got)

	_, err = DotProductTransposed([]float64{1, 2, 3}, w)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestAddBias(t *testing.T) {
	got, err := AddBias([]float64{1, 2, 3}, []float64{4, 5, 6})
	require.NoError(t, err)
	require.Equal(t, []float64{5, 7, 9}, got)

	_, err = AddBias([]float64{1, 2}, []float64{1})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestReluPlain(t *testing.T) {
	c := ReluPlain([]float64{-1, 0, 3})
	want := []float64{0, 0, 3}
	for i := range want {
		if c[i] != want[i] {
			t.Errorf("at %d, got %f, want %f", i, c[i], want[i])
		}
	}
}

func TestReluDerivativeBoundary(t *testing.T) {
	x := []float64{-2, -1e-12, 0, 1e-12, 5}
	got := ReluDerivative(x)
	for i, v := range x {
		want := 0.0
		if v > 0 {
			want = 1
		}
		if got[i] != want {
			t.Errorf("x=%g: got %f, want %f", v, got[i], want)
		}
	}
	require.Equal(t, 0.0, got[2], "derivative at exactly 0 must be 0")
}

func TestSoftmaxSumsToOne(t *testing.T) {
	p := Softmax([]float64{0.5, -1, 2, 0})
	require.InDelta(t, 1.0, floats.Sum(p), 1e-12)
	for _, v := range p {
		require.GreaterOrEqual(t, v, 0.0)
	}
}

func TestSoftmaxShiftInvariance(t *testing.T) {
	x := []float64{1, 2, 3, -4}
	base := Softmax(x)
	for _, shift := range []float64{-100, 7.5, 1000} {
		shifted := make([]float64, len(x))
		copy(shifted, x)
		floats.AddConst(shift, shifted)
		got := Softmax(shifted)
		if !floats.EqualApprox(base, got, 1e-12) {
			t.Fatalf("shift %g: got %v, want %v", shift, got, base)
		}
	}
}

func TestSoftmaxLargeLogits(t *testing.T) {
	p := Softmax([]float64{1000, 1001, 999})
	for i, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("entry %d not finite: %v", i, v)
		}
	}
	require.Equal(t, 1, ArgMax(p))
}

func TestArgMax(t *testing.T) {
	require.Equal(t, -1, ArgMax(nil))
	require.Equal(t, 0, ArgMax([]float64{3, 3, 1}))
	require.Equal(t, 2, ArgMax([]float64{0.1, 0.2, 0.7}))
}
