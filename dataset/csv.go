package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

type errInvalidLine struct {
	lineNum  int
	splits   int
	expected int
}

func (e errInvalidLine) Error() string {
	return fmt.Sprintf("at line %d, expected %d values, got %d",
		e.lineNum, e.expected, e.splits)
}

func (e errInvalidLine) Unwrap() error {
	return ErrFormat
}

// LoadCSV reads MNIST-style CSV: the first value of a line is the label, the
// rest are inputNum pixel densities in 0..255, scaled here to [0, 1].
func LoadCSV(r io.Reader, inputNum, outputNum int) (Set, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	var set Set
	var lineNum int
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return set, fmt.Errorf("reading csv: %w", err)
		}
		lineNum++
		if len(record) != inputNum+1 {
			return set, errInvalidLine{
				lineNum:  lineNum,
				splits:   len(record),
				expected: inputNum + 1,
			}
		}

		label, err := strconv.Atoi(record[0])
		if err != nil || label < 0 || label >= outputNum {
			return set, fmt.Errorf("line %d: label %q: %w", lineNum, record[0], ErrFormat)
		}
		inputs := make([]float64, inputNum)
		for i := range inputs {
			x, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return set, fmt.Errorf("line %d: parsing input: %w", lineNum, errors.Join(ErrFormat, err))
			}
			inputs[i] = x / 255.0
		}

		set = append(set, Sample{
			Input:  inputs,
			Output: OneHot(label, outputNum),
		})
	}
	return set, nil
}

func LoadCSVFile(filename string) (Set, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadCSV(file, Pixels, Classes)
}
