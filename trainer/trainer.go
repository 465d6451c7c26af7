// Package trainer drives a network through one online-SGD epoch over a
// training set and scores it on a test set by arg-max.
package trainer

import (
	"fmt"
	"sync"
	"time"

	"digitnet/dataset"
	"digitnet/nn"
	"digitnet/tensor"
	"digitnet/utils"
)

// DefaultLogEvery is the progress interval used when Options.LogEvery is zero.
const DefaultLogEvery = 1000

type Options struct {
	LogEvery int
	// Stats, when set, accumulates forward/backward/evaluation durations.
	Stats *utils.TimingStats
}

// Report summarises one pass over a training set.
type Report struct {
	Samples int
	Failed  int
	AvgLoss float64
}

// Result counts arg-max hits and misses on a test set.
type Result struct {
	Right   int
	Mistake int
}

func (r Result) Total() int {
	return r.Right + r.Mistake
}

func (r Result) Accuracy() float64 {
	if r.Total() == 0 {
		return 0
	}
	return float64(r.Right) / float64(r.Total())
}

func (o Options) logEvery() int {
	if o.LogEvery <= 0 {
		return DefaultLogEvery
	}
	return o.LogEvery
}

func (o Options) stats() *utils.TimingStats {
	if o.Stats == nil {
		return &utils.TimingStats{}
	}
	return o.Stats
}

// TrainEpoch feeds every sample of set to net once, in order. A sample that
// fails (e.g. wrong input length) is logged and skipped; the network is left
// as it was before that sample.
func TrainEpoch(net *nn.Network, set dataset.Set, opts Options) Report {
	stats := opts.stats()
	var rep Report
	var lossSum float64

	for i, s := range set {
		start := time.Now()
		out, tr, err := net.Forward(s.Input)
		stats.ForwardPassTime += time.Since(start)
		if err != nil {
			rep.Failed++
			utils.Logf("sample %d: %v", i, err)
			continue
		}

		start = time.Now()
		err = net.Backward(s.Input, s.Output, tr)
		stats.BackwardPassTime += time.Since(start)
		if err != nil {
			rep.Failed++
			utils.Logf("sample %d: %v", i, err)
			continue
		}

		rep.Samples++
		lossSum += nn.CrossEntropyLoss{}.Loss(out, s.Output)
		if rep.Samples%opts.logEvery() == 0 {
			utils.Logf("trained %d/%d | loss: %.6f", rep.Samples, len(set), lossSum/float64(rep.Samples))
		}
	}

	if rep.Samples > 0 {
		rep.AvgLoss = lossSum / float64(rep.Samples)
	}
	return rep
}

// Evaluate predicts every sample of set and counts a hit when the target is
// set at the arg-max of the prediction.
func Evaluate(net *nn.Network, set dataset.Set, opts Options) Result {
	stats := opts.stats()
	start := time.Now()
	defer func() { stats.EvaluationTime += time.Since(start) }()

	var res Result
	for i, s := range set {
		prediction, err := net.Predict(s.Input)
		if err != nil {
			utils.Logf("test sample %d: %v", i, err)
			res.Mistake++
			continue
		}
		index := tensor.ArgMax(prediction)
		if index < len(s.Output) && s.Output[index] != 0 {
			res.Right++
		} else {
			res.Mistake++
		}
	}
	return res
}

// TrainParallel trains one clone of base per shard of set, each on its own
// goroutine, and merges the clones by parameter averaging. base is not
// modified.
func TrainParallel(base *nn.Network, set dataset.Set, workers int, opts Options) (*nn.Network, []Report, error) {
	if workers <= 0 {
		return nil, nil, fmt.Errorf("trainer: workers must be > 0, got %d", workers)
	}
	if workers == 1 {
		net := base.Clone()
		return net, []Report{TrainEpoch(net, set, opts)}, nil
	}

	shards := set.Shards(workers)
	nets := make([]*nn.Network, len(shards))
	reports := make([]Report, len(shards))
	stats := make([]utils.TimingStats, len(shards))

	var wg sync.WaitGroup
	wg.Add(len(shards))
	for i := range shards {
		nets[i] = base.Clone()
		go func(i int) {
			defer wg.Done()
			reports[i] = TrainEpoch(nets[i], shards[i], Options{LogEvery: opts.LogEvery, Stats: &stats[i]})
		}(i)
	}
	wg.Wait()

	total := opts.stats()
	for _, s := range stats {
		total.ForwardPassTime += s.ForwardPassTime
		total.BackwardPassTime += s.BackwardPassTime
	}

	merged, err := nn.Average(nets...)
	if err != nil {
		return nil, nil, fmt.Errorf("trainer: merging workers: %w", err)
	}
	return merged, reports, nil
}
