package dataset

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const (
	imagesMagic = 2051
	labelsMagic = 2049

	// maxImagePixels bounds rows*cols read from a header.
	maxImagePixels = 1 << 16
	// maxPrealloc caps how many samples are allocated up front; the header
	// count is not trusted until the data is actually read.
	maxPrealloc = 1 << 12
)

// maybeGunzip returns a reader over the decompressed stream when r starts
// with the gzip magic bytes, and over r itself otherwise.
func maybeGunzip(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(2)
	if err == nil && head[0] == 0x1f && head[1] == 0x8b {
		return gzip.NewReader(br)
	}
	return br, nil
}

func readHeader(r io.Reader, n int) ([]uint32, error) {
	header := make([]uint32, n)
	if err := binary.Read(r, binary.BigEndian, header); err != nil {
		return nil, fmt.Errorf("reading idx header: %w", err)
	}
	return header, nil
}

// LoadIDX reads an MNIST image file and its label file (raw or gzipped).
func LoadIDX(images, labels io.Reader) (Set, error) {
	images, err := maybeGunzip(images)
	if err != nil {
		return nil, err
	}
	labels, err = maybeGunzip(labels)
	if err != nil {
		return nil, err
	}

	ih, err := readHeader(images, 4)
	if err != nil {
		return nil, err
	}
	if ih[0] != imagesMagic {
		return nil, fmt.Errorf("images magic %d: %w", ih[0], ErrFormat)
	}
	lh, err := readHeader(labels, 2)
	if err != nil {
		return nil, err
	}
	if lh[0] != labelsMagic {
		return nil, fmt.Errorf("labels magic %d: %w", lh[0], ErrFormat)
	}
	count, rows, cols := int(ih[1]), int(ih[2]), int(ih[3])
	if int(lh[1]) != count {
		return nil, fmt.Errorf("%d images but %d labels: %w", count, lh[1], ErrFormat)
	}
	if rows == 0 || cols == 0 || rows > maxImagePixels || cols > maxImagePixels || rows*cols > maxImagePixels {
		return nil, fmt.Errorf("image size %dx%d: %w", rows, cols, ErrFormat)
	}

	pixels := make([]byte, rows*cols)
	label := make([]byte, 1)
	set := make(Set, 0, min(count, maxPrealloc))
	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(images, pixels); err != nil {
			return set, fmt.Errorf("image %d of %d: %w: %w", i, count, ErrFormat, err)
		}
		if _, err := io.ReadFull(labels, label); err != nil {
			return set, fmt.Errorf("label %d of %d: %w: %w", i, count, ErrFormat, err)
		}
		if int(label[0]) >= Classes {
			return set, fmt.Errorf("label %d is %d: %w", i, label[0], ErrFormat)
		}
		input := make([]float64, len(pixels))
		for j, p := range pixels {
			input[j] = float64(p) / 255.0
		}
		set = append(set, Sample{Input: input, Output: OneHot(int(label[0]), Classes)})
	}
	return set, nil
}

func LoadIDXFiles(imagesPath, labelsPath string) (Set, error) {
	images, err := os.Open(imagesPath)
	if err != nil {
		return nil, err
	}
	defer images.Close()
	labels, err := os.Open(labelsPath)
	if err != nil {
		return nil, err
	}
	defer labels.Close()
	return LoadIDX(images, labels)
}
