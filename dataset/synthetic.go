package dataset

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// glyphs are 5x7 bitmaps of the ten digits.
var glyphs = [Classes][7]string{
	{".###.", "#...#", "#..##", "#.#.#", "##..#", "#...#", ".###."},
	{"..#..", ".##..", "..#..", "..#..", "..#..", "..#..", ".###."},
	{".###.", "#...#", "....#", "...#.", "..#..", ".#...", "#####"},
	{"#####", "...#.", "..#..", "...#.", "....#", "#...#", ".###."},
	{"...#.", "..##.", ".#.#.", "#..#.", "#####", "...#.", "...#."},
	{"#####", "#....", "####.", "....#", "....#", "#...#", ".###."},
	{"..##.", ".#...", "#....", "####.", "#...#", "#...#", ".###."},
	{"#####", "....#", "...#.", "..#..", ".#...", ".#...", ".#..."},
	{".###.", "#...#", "#...#", ".###.", "#...#", "#...#", ".###."},
	{".###.", "#...#", "#...#", ".####", "....#", "...#.", ".##.."},
}

const (
	glyphScale  = 3
	glyphWidth  = 5 * glyphScale
	glyphHeight = 7 * glyphScale
	noiseLevel  = 0.15
)

// Synthetic generates n deterministic samples: each is a digit glyph scaled
// to 15x21, placed at a random offset inside the 28x28 frame, with uniform
// pixel noise. Labels are drawn uniformly.
func Synthetic(n int, seed uint64) Set {
	rnd := rand.New(rand.NewSource(seed))
	noise := distuv.Uniform{Min: -noiseLevel, Max: noiseLevel, Src: rnd}

	set := make(Set, n)
	for i := range set {
		label := rnd.Intn(Classes)
		dx := rnd.Intn(ImgSize - glyphWidth + 1)
		dy := rnd.Intn(ImgSize - glyphHeight + 1)
		set[i] = Sample{
			Input:  renderGlyph(label, dx, dy, noise),
			Output: OneHot(label, Classes),
		}
	}
	return set
}

func renderGlyph(label, dx, dy int, noise distuv.Uniform) []float64 {
	img := make([]float64, Pixels)
	for y := 0; y < ImgSize; y++ {
		for x := 0; x < ImgSize; x++ {
			v := noise.Rand()
			gx, gy := (x-dx)/glyphScale, (y-dy)/glyphScale
			if x >= dx && y >= dy && gx < 5 && gy < 7 && glyphs[label][gy][gx] == '#' {
				v += 1
			}
			img[y*ImgSize+x] = clamp01(v)
		}
	}
	return img
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
