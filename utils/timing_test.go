package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	oldOut, oldVerbose := Output, Verbose
	t.Cleanup(func() { Output, Verbose = oldOut, oldVerbose })
	Output, Verbose = &buf, true
	return &buf
}

func TestDurationUS(t *testing.T) {
	require.InDelta(t, 1234.567, DurationUS(1234*time.Microsecond+567*time.Nanosecond), 0.001)
	require.Zero(t, DurationUS(0))
}

func TestPrintTimingStats(t *testing.T) {
	buf := captureOutput(t)
	PrintTimingStats(&TimingStats{
		TotalTime:        10 * time.Second,
		DataLoadingTime:  time.Second,
		ForwardPassTime:  4 * time.Second,
		BackwardPassTime: 2 * time.Second,
	}, 4)

	text := buf.String()
	require.Contains(t, text, "Average time per step: 2.5s\n")
	require.Contains(t, text, "Steps completed: 4\n")
	require.Contains(t, text, "Data loading: 1s (10.0%)\n")
	require.Contains(t, text, "Forward pass: 4s (40.0%)\n")
	require.Contains(t, text, "Average forward pass time: 1s\n")
	require.Contains(t, text, "Average backward pass time: 500ms\n")
}

func TestPrintTimingStatsEmptyRun(t *testing.T) {
	buf := captureOutput(t)
	// no steps and no elapsed time must not divide by zero
	PrintTimingStats(&TimingStats{ForwardPassTime: time.Millisecond}, 0)

	text := buf.String()
	require.Contains(t, text, "Steps completed: 1\n")
	require.Contains(t, text, "Forward pass: 1ms (0.0%)\n")
	require.Contains(t, text, "Average forward pass time: 1ms\n")

	buf.Reset()
	Verbose = false
	PrintTimingStats(&TimingStats{}, 3)
	require.Empty(t, buf.String())
}
