package trainer

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"digitnet/dataset"
	"digitnet/nn"
	"digitnet/utils"
)

func init() {
	utils.Verbose = false
}

// separable alternates two patterns that only differ in which input is lit.
func separable(n int) dataset.Set {
	set := make(dataset.Set, n)
	for i := range set {
		if i%2 == 0 {
			set[i] = dataset.Sample{Input: []float64{1, 0, 0, 0}, Output: dataset.OneHot(0, 2)}
		} else {
			set[i] = dataset.Sample{Input: []float64{0, 0, 0, 1}, Output: dataset.OneHot(1, 2)}
		}
	}
	return set
}

func newNet(t *testing.T) *nn.Network {
	t.Helper()
	net, err := nn.NewNetwork(nn.Config{LayerSizes: []int{4, 8, 2}, LearningRate: 0.1, Seed: 17})
	require.NoError(t, err)
	return net
}

func TestTrainEpochLearnsSeparableSet(t *testing.T) {
	net := newNet(t)
	stats := &utils.TimingStats{}
	rep := TrainEpoch(net, separable(2000), Options{Stats: stats})
	require.Equal(t, 2000, rep.Samples)
	require.Zero(t, rep.Failed)
	require.Greater(t, rep.AvgLoss, 0.0)
	require.True(t, stats.ForwardPassTime > 0)

	res := Evaluate(net, separable(10), Options{Stats: stats})
	require.Equal(t, Result{Right: 10}, res)
	require.Equal(t, 1.0, res.Accuracy())
}

func TestTrainEpochSkipsBadSamples(t *testing.T) {
	net := newNet(t)
	set := separable(4)
	set[1].Input = []float64{1, 2, 3}
	set[2].Output = []float64{1, 0, 0}

	rep := TrainEpoch(net, set, Options{})
	require.Equal(t, 2, rep.Samples)
	require.Equal(t, 2, rep.Failed)
}

func TestEvaluateCountsMistakes(t *testing.T) {
	net := newNet(t)
	set := separable(6)
	right := Evaluate(net, set, Options{})

	flipped := make(dataset.Set, len(set))
	for i, s := range set {
		flipped[i] = dataset.Sample{Input: s.Input, Output: dataset.OneHot(1-s.Label(), 2)}
	}
	wrong := Evaluate(net, flipped, Options{})
	require.Equal(t, 6, right.Total())
	require.Equal(t, right.Right, wrong.Mistake)
	require.Equal(t, right.Mistake, wrong.Right)

	bad := Evaluate(net, dataset.Set{{Input: []float64{1}, Output: []float64{1, 0}}}, Options{})
	require.Equal(t, Result{Mistake: 1}, bad)
	require.Zero(t, Result{}.Accuracy())
}

func TestTrainParallel(t *testing.T) {
	base := newNet(t)
	before := base.Weights(0)

	merged, reports, err := TrainParallel(base, separable(4000), 4, Options{})
	require.NoError(t, err)
	require.Len(t, reports, 4)
	for _, r := range reports {
		require.Equal(t, 1000, r.Samples)
	}
	require.True(t, mat.Equal(before, base.Weights(0)), "base network must not be trained")

	res := Evaluate(merged, separable(10), Options{})
	require.Equal(t, 1.0, res.Accuracy())

	_, _, err = TrainParallel(base, separable(4), 0, Options{})
	require.Error(t, err)
}
