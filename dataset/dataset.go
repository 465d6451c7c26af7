// Package dataset supplies labelled digit samples: flattened 28x28 images
// with intensities in [0, 1] and one-hot outputs.
package dataset

import (
	"errors"

	"digitnet/tensor"
)

const (
	ImgSize = 28
	Pixels  = ImgSize * ImgSize
	Classes = 10
)

// ErrFormat is returned for input that does not parse as a dataset.
var ErrFormat = errors.New("malformed dataset")

type Sample struct {
	Input  []float64
	Output []float64
}

// Label is the index of the hot entry of Output.
func (s Sample) Label() int {
	return tensor.ArgMax(s.Output)
}

type Set []Sample

// Split returns the first n samples and the rest. n is clamped to the set size.
func (s Set) Split(n int) (Set, Set) {
	if n < 0 {
		n = 0
	}
	if n > len(s) {
		n = len(s)
	}
	return s[:n], s[n:]
}

// Shards cuts the set into k contiguous parts of near-equal size, in order.
func (s Set) Shards(k int) []Set {
	if k <= 0 {
		return nil
	}
	shards := make([]Set, 0, k)
	for i := 0; i < k; i++ {
		start := i * len(s) / k
		end := (i + 1) * len(s) / k
		shards = append(shards, s[start:end])
	}
	return shards
}

func OneHot(label, classes int) []float64 {
	v := make([]float64, classes)
	if label >= 0 && label < classes {
		v[label] = 1
	}
	return v
}

// Source names where samples come from. With no paths set, Open falls back to
// Synthetic.
type Source struct {
	CSVPath       string
	IDXImagesPath string
	IDXLabelsPath string
	// Count and Seed size the synthetic fallback.
	Count int
	Seed  uint64
}

func Open(src Source) (Set, error) {
	switch {
	case src.CSVPath != "":
		return LoadCSVFile(src.CSVPath)
	case src.IDXImagesPath != "":
		return LoadIDXFiles(src.IDXImagesPath, src.IDXLabelsPath)
	default:
		return Synthetic(src.Count, src.Seed), nil
	}
}
