package yellowplate

import (
	"fmt"
	"gonum.org/v1/gonum/stat"
	"sort"
	"time"
)

// FrameStats keeps a rolling window of frame processing durations
type FrameStats struct {
	// size is the number of most recent samples kept
	size    int
	samples []float64
	total   int
}

// StatsSummary summarises the frame durations in the window
type StatsSummary struct {
	// Frames is the total number of frames recorded
	Frames int
	Mean   time.Duration
	StdDev time.Duration
	P95    time.Duration
	// FPS is the frame rate implied by the mean duration
	FPS float64
}

// String returns a one line description of the summary
func (s StatsSummary) String() string {
	return fmt.Sprintf("frames=%d mean=%s stddev=%s p95=%s fps=%.2f",
		s.Frames, s.Mean, s.StdDev, s.P95, s.FPS)
}

// NewFrameStats returns a FrameStats keeping the given number of samples
func NewFrameStats(size int) *FrameStats {

	if size < 1 {
		size = 1
	}

	return &FrameStats{
		size:    size,
		samples: make([]float64, 0, size),
	}
}

// Add records the duration of a frame
func (f *FrameStats) Add(d time.Duration) {

	f.samples = append(f.samples, d.Seconds())

	// drop oldest sample once window is full
	if len(f.samples) > f.size {
		f.samples = f.samples[1:]
	}

	f.total++
}

// Count returns the total number of frames recorded
func (f *FrameStats) Count() int {
	return f.total
}

// Summary calculates the mean, standard deviation and 95th percentile of the
// frame durations in the window
func (f *FrameStats) Summary() StatsSummary {

	sum := StatsSummary{
		Frames: f.total,
	}

	if len(f.samples) == 0 {
		return sum
	}

	sorted := make([]float64, len(f.samples))
	copy(sorted, f.samples)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)

	if len(sorted) < 2 {
		std = 0
	}

	sum.Mean = seconds(mean)
	sum.StdDev = seconds(std)
	sum.P95 = seconds(stat.Quantile(0.95, stat.Empirical, sorted, nil))

	if mean > 0 {
		sum.FPS = 1 / mean
	}

	return sum
}

// seconds converts floating point seconds to a Duration
func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
