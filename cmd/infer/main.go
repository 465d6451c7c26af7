// digitnet-infer: steps through dataset samples, drawing each one and the
// network's ranked predictions
//
// The network is trained for one epoch on start-up. Commands on stdin:
// n (next), p (previous), a sample number, q (quit).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"digitnet/dataset"
	"digitnet/nn"
	"digitnet/trainer"
	"digitnet/utils"
)

var (
	defaults = utils.DefaultConfig()

	arch      = flag.String("arch", utils.FormatArchitecture(defaults.Architecture), "Layer sizes, input first")
	trainSize = flag.Int("train", defaults.TrainSize, "Training samples")
	seed      = flag.Uint64("seed", defaults.Seed, "Random seed")
	csvPath   = flag.String("csv", "", "MNIST CSV file (label first)")
	idxImages = flag.String("idx-images", "", "MNIST IDX image file")
	idxLabels = flag.String("idx-labels", "", "MNIST IDX label file")
	topK      = flag.Int("topk", 10, "Top predictions to show")
	verbose   = flag.Bool("verbose", false, "Verbose output")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	layers, err := utils.ParseArchitecture(*arch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing architecture: %v\n", err)
		os.Exit(2)
	}

	set, err := dataset.Open(dataset.Source{
		CSVPath:       *csvPath,
		IDXImagesPath: *idxImages,
		IDXLabelsPath: *idxLabels,
		Count:         *trainSize,
		Seed:          *seed,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dataset: %v\n", err)
		os.Exit(1)
	}
	train, _ := set.Split(*trainSize)
	if len(train) == 0 {
		fmt.Fprintln(os.Stderr, "Error: empty dataset")
		os.Exit(1)
	}

	net, err := nn.NewNetwork(nn.Config{LayerSizes: layers, Seed: *seed})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building network: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Training on %d samples...\n", len(train))
	rep := trainer.TrainEpoch(net, train, trainer.Options{})
	fmt.Printf("Done. Loss: %.6f\n", rep.AvgLoss)

	if err := view(os.Stdin, os.Stdout, net, train, *topK); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// view shows set[number] and reacts to commands until q or end of input.
func view(in io.Reader, out io.Writer, net *nn.Network, set dataset.Set, topK int) error {
	number := 0
	scanner := bufio.NewScanner(in)
	for {
		s := set[number]
		prediction, err := net.Predict(s.Input)
		if err != nil {
			return fmt.Errorf("sample %d: %w", number, err)
		}
		fmt.Fprintf(out, "\nSample %d/%d (label %d)\n", number, len(set)-1, s.Label())
		renderGrid(out, s.Input, dataset.ImgSize)
		renderPredictions(out, prediction, topK)
		fmt.Fprint(out, "[n]ext [p]rev [#] [q]uit > ")

		if !scanner.Scan() {
			return scanner.Err()
		}
		cmd := strings.TrimSpace(scanner.Text())
		switch cmd {
		case "q":
			return nil
		case "p", "<":
			number = (number - 1 + len(set)) % len(set)
		case "n", ">", "":
			number = (number + 1) % len(set)
		default:
			n, err := strconv.Atoi(cmd)
			if err != nil || n < 0 || n >= len(set) {
				fmt.Fprintf(out, "unknown command %q\n", cmd)
				continue
			}
			number = n
		}
	}
}
