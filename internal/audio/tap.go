package audio

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/faiface/beep"
	"github.com/mjibson/go-dsp/fft"
)

// Tap wraps a beep.Streamer and records the last N samples into a ring buffer
// so the renderer can draw what is currently sounding.
type Tap struct {
	Source    beep.Streamer
	buffer    [][2]float64
	nextIndex int
	mu        sync.RWMutex
}

func NewTap(src beep.Streamer, ringSize int) *Tap {
	if ringSize < 1 {
		ringSize = 1
	}
	return &Tap{
		Source: src,
		buffer: make([][2]float64, ringSize),
	}
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.buffer[t.nextIndex] = samples[i]
			t.nextIndex++
			if t.nextIndex >= len(t.buffer) {
				t.nextIndex = 0
			}
		}
		t.mu.Unlock()
	}
	return n, ok
}

func (t *Tap) Err() error { return t.Source.Err() }

// Snapshot returns up to the last n samples, oldest first, mixed to mono.
func (t *Tap) Snapshot(n int) []float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > len(t.buffer) {
		n = len(t.buffer)
	}
	out := make([]float64, n)
	idx := t.nextIndex - n
	if idx < 0 {
		idx += len(t.buffer)
	}
	for i := range out {
		s := t.buffer[idx]
		out[i] = (s[0] + s[1]) * 0.5
		idx++
		if idx >= len(t.buffer) {
			idx = 0
		}
	}
	return out
}

// Spectrum turns tap snapshots into smoothed magnitude bands for display.
type Spectrum struct {
	Bands     []float64
	Smoothing float64
	window    int
}

// NewSpectrum analyses window samples (rounded down to a power of two) into
// bands values in [0, 1].
func NewSpectrum(bands, window int, smoothing float64) *Spectrum {
	w := 1
	for w*2 <= window {
		w *= 2
	}
	return &Spectrum{
		Bands:     make([]float64, bands),
		Smoothing: smoothing,
		window:    w,
	}
}

// Update folds the latest tap contents into Bands.
func (s *Spectrum) Update(t *Tap) {
	if t == nil || len(s.Bands) == 0 {
		return
	}
	s.Apply(t.Snapshot(s.window))
}

// Apply folds a block of mono samples into Bands. Bins are grouped on a
// logarithmic scale so each band covers a similar musical range.
func (s *Spectrum) Apply(samples []float64) {
	if len(samples) < 2 {
		return
	}
	windowed := make([]float64, len(samples))
	for i, v := range samples {
		// Hann window
		windowed[i] = v * 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(len(samples)-1)))
	}
	bins := fft.FFTReal(windowed)
	half := len(bins) / 2
	nBands := len(s.Bands)
	for b := 0; b < nBands; b++ {
		lo := int(math.Pow(float64(half), float64(b)/float64(nBands)))
		hi := int(math.Pow(float64(half), float64(b+1)/float64(nBands)))
		if hi <= lo {
			hi = lo + 1
		}
		if hi > half {
			hi = half
		}
		var peak float64
		for k := lo; k < hi; k++ {
			if m := cmplx.Abs(bins[k]); m > peak {
				peak = m
			}
		}
		mag := math.Pow(clamp01(peak*4/float64(len(samples))), 0.3)
		s.Bands[b] = s.Smoothing*s.Bands[b] + (1-s.Smoothing)*mag
	}
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
