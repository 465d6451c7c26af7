// digitnet-train: single-epoch online training and arg-max evaluation
//
// Usage:
//
//	digitnet-train --arch="784 128 10" --train=8000 --test=2000 --lr=0.01
//	digitnet-train --csv=mnist_train.csv --workers=4
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"digitnet/dataset"
	"digitnet/nn"
	"digitnet/trainer"
	"digitnet/utils"
)

var (
	cfg = utils.DefaultConfig()

	arch     = flag.String("arch", utils.FormatArchitecture(cfg.Architecture), "Layer sizes, input first")
	logEvery = flag.Int("log-every", trainer.DefaultLogEvery, "Log every N samples")
	verbose  = flag.Bool("verbose", true, "Verbose output")
)

func init() {
	flag.Float64Var(&cfg.LearningRate, "lr", cfg.LearningRate, "Learning rate")
	flag.IntVar(&cfg.TrainSize, "train", cfg.TrainSize, "Training samples")
	flag.IntVar(&cfg.TestSize, "test", cfg.TestSize, "Test samples")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "Independent networks trained on shards and averaged")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed")
	flag.StringVar(&cfg.CSVPath, "csv", "", "MNIST CSV file (label first)")
	flag.StringVar(&cfg.IDXImagesPath, "idx-images", "", "MNIST IDX image file")
	flag.StringVar(&cfg.IDXLabelsPath, "idx-labels", "", "MNIST IDX label file")
}

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	layers, err := utils.ParseArchitecture(*arch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing architecture: %v\n", err)
		os.Exit(2)
	}
	cfg.Architecture = layers
	if err := utils.ValidateConfig(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg utils.Config) error {
	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                    digitnet Trainer                          ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Printf("\nConfiguration:\n")
	fmt.Printf("  Architecture:  %v\n", cfg.Architecture)
	fmt.Printf("  Learning Rate: %.4f\n", cfg.LearningRate)
	fmt.Printf("  Train/Test:    %d/%d\n", cfg.TrainSize, cfg.TestSize)
	fmt.Printf("  Workers:       %d\n", cfg.Workers)
	fmt.Println()

	stats := &utils.TimingStats{}
	totalStart := time.Now()

	start := time.Now()
	set, err := dataset.Open(dataset.Source{
		CSVPath:       cfg.CSVPath,
		IDXImagesPath: cfg.IDXImagesPath,
		IDXLabelsPath: cfg.IDXLabelsPath,
		Count:         cfg.TrainSize + cfg.TestSize,
		Seed:          cfg.Seed,
	})
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}
	train, test := set.Split(cfg.TrainSize)
	if len(test) > cfg.TestSize {
		test = test[:cfg.TestSize]
	}
	stats.DataLoadingTime = time.Since(start)
	utils.Logf("Loaded %d training and %d test samples", len(train), len(test))

	start = time.Now()
	net, err := nn.NewNetwork(nn.Config{
		LayerSizes:   cfg.Architecture,
		LearningRate: cfg.LearningRate,
		Seed:         cfg.Seed,
	})
	if err != nil {
		return fmt.Errorf("building network: %w", err)
	}
	stats.ModelInitTime = time.Since(start)

	fmt.Println("Starting training...")
	start = time.Now()
	net, reports, err := trainer.TrainParallel(net, train, cfg.Workers, trainer.Options{LogEvery: *logEvery, Stats: stats})
	if err != nil {
		return err
	}
	for i, rep := range reports {
		fmt.Printf("Worker %d | Samples: %d | Failed: %d | Loss: %.6f\n", i, rep.Samples, rep.Failed, rep.AvgLoss)
	}
	fmt.Printf("training: %v\n", time.Since(start))

	start = time.Now()
	res := trainer.Evaluate(net, test, trainer.Options{Stats: stats})
	fmt.Printf("test: %v\n", time.Since(start))
	fmt.Printf("{ mistake: %d, right: %d } %.4f\n", res.Mistake, res.Right, res.Accuracy())

	stats.TotalTime = time.Since(totalStart)
	utils.PrintTimingStats(stats, len(train))
	return nil
}
