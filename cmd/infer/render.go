package main

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
)

var shades = []rune(" ░▒▓█")

// renderGrid draws a width-wide image of intensities in [0, 1], two runes per
// pixel so the cells come out roughly square.
func renderGrid(w io.Writer, pixels []float64, width int) {
	var sb strings.Builder
	for i, v := range pixels {
		idx := int(math.Round(v * float64(len(shades)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(shades) {
			idx = len(shades) - 1
		}
		sb.WriteRune(shades[idx])
		sb.WriteRune(shades[idx])
		if (i+1)%width == 0 {
			sb.WriteByte('\n')
		}
	}
	fmt.Fprint(w, sb.String())
}

type ranked struct {
	class int
	prob  float64
}

// rank orders class probabilities from most to least likely, rounded to two
// decimals.
func rank(prediction []float64) []ranked {
	out := make([]ranked, len(prediction))
	for i, p := range prediction {
		out[i] = ranked{class: i, prob: math.Round(p*100) / 100}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return prediction[out[a].class] > prediction[out[b].class]
	})
	return out
}

func renderPredictions(w io.Writer, prediction []float64, topK int) {
	r := rank(prediction)
	if topK > 0 && topK < len(r) {
		r = r[:topK]
	}
	for i, p := range r {
		marker := " "
		if i == 0 {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %d: %.2f\n", marker, p.class, p.prob)
	}
}
