package audio

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

// Tone is one scheduled note: a waveform at Freq starting Offset after the
// schedule's zero time and lasting Duration, scaled by Gain.
type Tone struct {
	Freq     float64
	Offset   time.Duration
	Duration time.Duration
	Gain     float64
	Wave     Waveform
}

// Samples converts d to a sample count, rounding to the nearest sample.
func Samples(d time.Duration, sampleRate int) int {
	return int(math.Round(d.Seconds() * float64(sampleRate)))
}

// Span is the half-open sample range [start, end) the tone occupies.
// Boundaries are rounded independently, so back-to-back tones tile
// without gaps or overlaps.
func (t Tone) Span(sampleRate int) (start, end int) {
	start = Samples(t.Offset, sampleRate)
	end = Samples(t.Offset+t.Duration, sampleRate)
	if end < start {
		end = start
	}
	return start, end
}

// Streamer renders the tone as silence up to its start, then the tone.
func (t Tone) Streamer(sampleRate int) beep.Streamer {
	start, end := t.Span(sampleRate)
	osc := &Oscillator{
		Wave:       t.Wave,
		Freq:       t.Freq,
		Gain:       t.Gain,
		SampleRate: beep.SampleRate(sampleRate),
	}
	return beep.Seq(beep.Silence(start), beep.Take(end-start, osc))
}
