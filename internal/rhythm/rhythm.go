// Package rhythm loops a short tone for each held wave. A wave keeps ticking
// after the drag ends until it is deleted.
package rhythm

import (
	"image/color"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/iburimskiy/wavesketch/internal/audio"
	"github.com/iburimskiy/wavesketch/internal/scale"
	"github.com/iburimskiy/wavesketch/internal/sched"
	"github.com/iburimskiy/wavesketch/internal/tempo"
)

const (
	MinAmplitude  = 10.0
	MaxAmplitude  = 80.0
	MinWavelength = 20.0
	MaxWavelength = 300.0
)

// Wave is the control record of one rhythm wave.
type Wave struct {
	Amplitude  float64
	Wavelength float64
	Color      color.RGBA
	Waveform   audio.Waveform
	Note       scale.Note

	// Drift is the horizontal phase offset used when drawing.
	Drift float64
	// Held is true while the pointer that created the wave is down.
	Held bool

	task  *sched.Task
	voice audio.Voice
}

// Active reports whether the wave's tick is running.
func (w *Wave) Active() bool { return w.task.Active() }

// Interval is the current tick spacing.
func (w *Wave) Interval() time.Duration { return tempo.RhythmInterval(w.Wavelength) }

// Config holds the tick sound.
type Config struct {
	ToneLen time.Duration
	Gain    float64
}

// Engine starts and stops wave ticks.
type Engine struct {
	q   *sched.Queue
	dev audio.Device
	cfg Config
	log *zap.Logger
}

func New(q *sched.Queue, dev audio.Device, cfg Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{q: q, dev: dev, cfg: cfg, log: log}
}

// Start arms w's tick. A running tick is stopped first, so a wave never has
// two timers.
func (e *Engine) Start(w *Wave) {
	e.Stop(w)
	w.voice = e.dev.OpenVoice()
	voice := w.voice
	tone := audio.Tone{
		Freq:     w.Note.Freq,
		Duration: e.cfg.ToneLen,
		Gain:     e.cfg.Gain,
		Wave:     w.Waveform,
	}
	w.task = sched.NewTask(e.q, w.Interval(), func() {
		voice.Schedule(tone)
	})
	e.log.Debug("rhythm start",
		zap.String("note", w.Note.Label),
		zap.Duration("interval", w.task.Interval()))
	w.task.Start()
}

// Stop cancels w's tick and releases its voice. Stopping a stopped wave does
// nothing.
func (e *Engine) Stop(w *Wave) {
	if w == nil {
		return
	}
	if w.task != nil {
		w.task.Stop()
		w.task = nil
		e.log.Debug("rhythm stop", zap.String("note", w.Note.Label))
	}
	if w.voice != nil {
		w.voice.Release()
		w.voice = nil
	}
}

// Update sets new wave parameters. When the tick interval changes, a running
// wave is re-armed; the old timer is cancelled rather than modified.
func (e *Engine) Update(w *Wave, amplitude, wavelength float64) {
	amplitude = clamp(amplitude, MinAmplitude, MaxAmplitude)
	wavelength = clamp(wavelength, MinWavelength, MaxWavelength)
	before := w.Interval()
	w.Amplitude, w.Wavelength = amplitude, wavelength
	if w.Active() && w.Interval() != before {
		e.Start(w)
	}
}

// Drag maps a pointer position to wave parameters the way a held drag
// shapes the wave: distance from the canvas center sets wavelength
// horizontally and amplitude vertically.
func (e *Engine) Drag(w *Wave, x, y, width, height float64) {
	dx := math.Max(MinWavelength, math.Abs(x-width/2))
	dy := math.Max(20, math.Abs(y-height/2))
	e.Update(w, dy, dx)
}

// PlayOnce auditions w's note a single time on a voice of its own.
func (e *Engine) PlayOnce(w *Wave, toneLen time.Duration, gain float64) {
	v := e.dev.OpenVoice()
	v.Schedule(audio.Tone{
		Freq:     w.Note.Freq,
		Duration: toneLen,
		Gain:     gain,
		Wave:     w.Waveform,
	})
	v.ReleaseWhenIdle()
}

// Armed reports whether w has a pending tick. Exposed for tests and the
// status line.
func (w *Wave) Armed() bool { return w.task.Armed() }

// HasVoice reports whether w still holds an output voice.
func (w *Wave) HasVoice() bool { return w.voice != nil }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
