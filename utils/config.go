package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds training configuration
type Config struct {
	Architecture []int
	LearningRate float64
	TrainSize    int
	TestSize     int
	Workers      int
	Seed         uint64
	// CSV file with label-first rows, or a pair of IDX files. When neither is
	// set the synthetic set is used.
	CSVPath       string
	IDXImagesPath string
	IDXLabelsPath string
}

// DefaultConfig mirrors the original run: 784-128-10, 8000 train / 2000 test.
func DefaultConfig() Config {
	return Config{
		Architecture: []int{784, 128, 10},
		LearningRate: 0.01,
		TrainSize:    8000,
		TestSize:     2000,
		Workers:      1,
		Seed:         42,
	}
}

// ParseArchitecture parses architecture string into slice of integers
func ParseArchitecture(archStr string) ([]int, error) {
	archParts := strings.FieldsFunc(archStr, func(r rune) bool {
		return r == ' ' || r == ',' || r == '-'
	})
	arch := make([]int, len(archParts))
	for i, s := range archParts {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("parsing layer %d: %w", i, err)
		}
		arch[i] = n
	}
	return arch, nil
}

// FormatArchitecture is the inverse of ParseArchitecture, e.g. "784 128 10".
func FormatArchitecture(arch []int) string {
	parts := make([]string, len(arch))
	for i, n := range arch {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

// ValidateConfig validates training configuration
func ValidateConfig(config *Config) error {
	if len(config.Architecture) < 2 {
		return fmt.Errorf("architecture must have at least 2 layers (input and output)")
	}
	for i, n := range config.Architecture {
		if n <= 0 {
			return fmt.Errorf("layer %d size must be positive, got %d", i, n)
		}
	}

	if config.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive")
	}

	if config.TrainSize < 0 || config.TestSize < 0 {
		return fmt.Errorf("train and test sizes must not be negative")
	}

	if config.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}

	if (config.IDXImagesPath == "") != (config.IDXLabelsPath == "") {
		return fmt.Errorf("IDX images and labels must be given together")
	}

	return nil
}
