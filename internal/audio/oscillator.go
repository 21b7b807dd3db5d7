package audio

import (
	"fmt"
	"math"

	"github.com/faiface/beep"
)

// Waveform selects the oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Triangle
)

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Triangle:
		return "triangle"
	}
	return fmt.Sprintf("Waveform(%d)", int(w))
}

// ParseWaveform is the inverse of String.
func ParseWaveform(s string) (Waveform, error) {
	switch s {
	case "", "sine":
		return Sine, nil
	case "triangle":
		return Triangle, nil
	}
	return Sine, fmt.Errorf("audio: unknown waveform %q", s)
}

// At evaluates one period of the waveform at phase p in [0, 1). Both shapes
// start at zero and rise.
func (w Waveform) At(p float64) float64 {
	if w == Triangle {
		switch {
		case p < 0.25:
			return 4 * p
		case p < 0.75:
			return 2 - 4*p
		default:
			return 4*p - 4
		}
	}
	return math.Sin(2 * math.Pi * p)
}

// Oscillator is an endless mono tone duplicated on both channels. The phase
// is computed from the sample index, so long tones do not drift.
type Oscillator struct {
	Wave       Waveform
	Freq       float64
	Gain       float64
	SampleRate beep.SampleRate

	pos int
}

func (o *Oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	sr := float64(o.SampleRate)
	for i := range samples {
		_, p := math.Modf(o.Freq * float64(o.pos) / sr)
		v := o.Gain * o.Wave.At(p)
		samples[i][0] = v
		samples[i][1] = v
		o.pos++
	}
	return len(samples), true
}

func (o *Oscillator) Err() error { return nil }
