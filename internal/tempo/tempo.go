// Package tempo derives note spacing from gesture geometry. Live playback and
// file export both call Estimate so a gesture sounds the same either way.
package tempo

import (
	"math"
	"time"

	"github.com/iburimskiy/wavesketch/internal/gesture"
)

const (
	// DefaultSpacing stands in for the average spacing of a one-point gesture.
	DefaultSpacing = 40.0

	MinIntervalMillis = 60.0
	MaxIntervalMillis = 400.0

	baseMillis    = 800.0
	spacingFactor = 2.0

	// wavelength of a rhythm wave to milliseconds between ticks
	rhythmFactor = 1.5
)

// AverageSpacing is the mean absolute horizontal distance between
// consecutive points, or DefaultSpacing for fewer than two points.
func AverageSpacing(points []gesture.Point) float64 {
	if len(points) <= 1 {
		return DefaultSpacing
	}
	var total float64
	for i := 1; i < len(points); i++ {
		total += math.Abs(points[i].X - points[i-1].X)
	}
	return total / float64(len(points)-1)
}

// IntervalMillis maps average spacing to the gap between notes: wide,
// fast strokes play quickly, tight strokes slowly.
func IntervalMillis(points []gesture.Point) float64 {
	return clamp(baseMillis-spacingFactor*AverageSpacing(points), MinIntervalMillis, MaxIntervalMillis)
}

// Estimate is IntervalMillis as a Duration.
func Estimate(points []gesture.Point) time.Duration {
	return Millis(IntervalMillis(points))
}

// RhythmIntervalMillis is the tick spacing of a rhythm wave.
func RhythmIntervalMillis(wavelength float64) float64 {
	return clamp(wavelength*rhythmFactor, MinIntervalMillis, MaxIntervalMillis)
}

func RhythmInterval(wavelength float64) time.Duration {
	return Millis(RhythmIntervalMillis(wavelength))
}

// Millis converts fractional milliseconds to a Duration.
func Millis(ms float64) time.Duration {
	return time.Duration(math.Round(ms * float64(time.Millisecond)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
