package game

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iburimskiy/wavesketch/internal/audio"
	"github.com/iburimskiy/wavesketch/internal/config"
	"github.com/iburimskiy/wavesketch/internal/export"
	"github.com/iburimskiy/wavesketch/internal/gesture"
	"github.com/iburimskiy/wavesketch/internal/particle"
	"github.com/iburimskiy/wavesketch/internal/playback"
	"github.com/iburimskiy/wavesketch/internal/rhythm"
	"github.com/iburimskiy/wavesketch/internal/scale"
	"github.com/iburimskiy/wavesketch/internal/sched"
	"github.com/iburimskiy/wavesketch/internal/tempo"
)

const (
	waveSpacing  = 60
	waveDrift    = 0.8
	auditionGain = 0.35
)

// State is everything the sketch knows. Input handlers mutate it; Draw only
// reads it.
type State struct {
	Width, Height float64

	Board    gesture.Board
	Active   *gesture.Gesture
	Waves    []*rhythm.Wave
	Waveform audio.Waveform

	CursorX, CursorY float64
	CursorVisible    bool

	Particles *particle.System
	Bands     []float64

	LastExport export.Result
	LastErr    error
	// Clock is the time the sketch has been running, advanced by Tick.
	Clock time.Duration

	cfg      config.Config
	scale    scale.Scale
	palette  *gesture.Palette
	recorder *gesture.Recorder
	queue    *sched.Queue
	rhythm   *rhythm.Engine
	player   *playback.Player
	exporter *export.Exporter
	held     *rhythm.Wave
	log      *zap.Logger
}

func NewState(cfg config.Config, dev audio.Device, exp *export.Exporter, rng *rand.Rand, log *zap.Logger) (*State, error) {
	if log == nil {
		log = zap.NewNop()
	}
	sc, err := scale.ByName(cfg.Scale.Name)
	if err != nil {
		return nil, err
	}
	wave, err := audio.ParseWaveform(cfg.Playback.Waveform)
	if err != nil {
		return nil, err
	}
	width, height := float64(cfg.Window.Width), float64(cfg.Window.Height)
	palette := gesture.NewPalette(cfg.Palette.Size, cfg.Palette.Saturation, cfg.Palette.Value)
	q := sched.NewQueue()

	pc := cfg.Particle
	particles := particle.New(particle.Config{
		EmitPerTick: pc.EmitPerTick,
		Speed:       pc.Speed,
		Damping:     pc.Damping,
		Spin:        pc.Spin,
		Fade:        pc.Fade,
		MinAlpha:    pc.MinAlpha,
		MinRadius:   pc.MinRadius,
		MaxRadius:   pc.MaxRadius,
		Max:         pc.Max,
	}, rng)
	particles.SetBounds(width, height)

	s := &State{
		Width:     width,
		Height:    height,
		Waveform:  wave,
		Particles: particles,
		cfg:       cfg,
		scale:     sc,
		palette:   palette,
		recorder:  gesture.NewRecorder(sc, height, cfg.Gesture.ThresholdX, cfg.Gesture.ThresholdY, palette),
		queue:     q,
		rhythm: rhythm.New(q, dev, rhythm.Config{
			ToneLen: cfg.Rhythm.ToneLen(),
			Gain:    cfg.Rhythm.Gain,
		}, log),
		player:   playback.New(dev, cfg.Playback.ToneLen(), cfg.Playback.Gain, log),
		exporter: exp,
		log:      log,
	}
	s.player.SetWaveform(wave)
	return s, nil
}

// Scale is the scale gestures and waves are quantized against.
func (s *State) Scale() scale.Scale { return s.scale }

// Resize changes the canvas size used for new points.
func (s *State) Resize(w, h float64) {
	if w <= 0 || h <= 0 || (w == s.Width && h == s.Height) {
		return
	}
	s.Width, s.Height = w, h
	s.recorder.SetHeight(h)
	s.Particles.SetBounds(w, h)
}

// Tick advances the sketch by dt: due rhythm ticks fire, particles move and
// released waves drift.
func (s *State) Tick(dt time.Duration) {
	s.Clock += dt
	s.queue.Advance(dt)
	s.Particles.Step()
	for i, w := range s.Waves {
		if w.Held {
			continue
		}
		if i%2 == 0 {
			w.Drift += waveDrift
		} else {
			w.Drift -= waveDrift
		}
	}
}

// MoveCursor tracks the pointer. A held wave follows it; an active gesture
// records the position when it moved far enough.
func (s *State) MoveCursor(x, y float64) {
	s.CursorX, s.CursorY = x, y
	s.CursorVisible = true
	if s.held != nil {
		s.rhythm.Drag(s.held, x, y, s.Width, s.Height)
	}
	if s.Active != nil && s.recorder.Extend(s.Active, x, y) {
		p := s.Active.Last()
		s.Particles.Emit(p.X, p.Y, s.Active.Color)
	}
}

// BeginGesture starts drawing a gesture at (x, y).
func (s *State) BeginGesture(x, y float64) {
	if s.Active != nil {
		s.EndGesture()
	}
	s.CursorX, s.CursorY = x, y
	s.CursorVisible = true
	s.Active = s.recorder.Begin(x, y)
	p := s.Active.Last()
	s.Particles.Emit(p.X, p.Y, s.Active.Color)
}

// Drawing reports whether a gesture is being drawn.
func (s *State) Drawing() bool { return s.Active != nil }

// EndGesture finishes the active gesture, keeps it on the board and plays it.
func (s *State) EndGesture() *playback.Session {
	g := s.Active
	if g == nil {
		return nil
	}
	s.Active = nil
	points := s.recorder.End(g)
	s.Board.Add(g)
	interval := tempo.Estimate(points)
	s.log.Info("gesture finished",
		zap.Int("points", len(points)),
		zap.Duration("interval", interval))
	s.player.Stop()
	return s.player.Play(points, interval)
}

// Replay plays the last finished gesture again, cutting off the previous
// playback.
func (s *State) Replay() *playback.Session {
	g, ok := s.Board.Last()
	if !ok {
		return nil
	}
	points := g.Points()
	s.player.Stop()
	return s.player.Play(points, tempo.Estimate(points))
}

// Playing returns the current playback session, if any.
func (s *State) Playing() *playback.Session {
	if cur := s.player.Current(); !cur.Done() {
		return cur
	}
	return nil
}

// BeginWave creates a rhythm wave pitched by y and starts its tick. The wave
// follows the pointer until EndWave.
func (s *State) BeginWave(x, y float64) *rhythm.Wave {
	if s.held != nil {
		s.EndWave()
	}
	s.CursorX, s.CursorY = x, y
	s.CursorVisible = true
	w := &rhythm.Wave{
		Amplitude:  s.cfg.Rhythm.Amplitude,
		Wavelength: s.cfg.Rhythm.Wavelength,
		Color:      s.palette.Next(),
		Waveform:   s.Waveform,
		Note:       s.scale.Quantize(y, s.Height),
		Held:       true,
	}
	s.Waves = append(s.Waves, w)
	s.held = w
	s.rhythm.Start(w)
	return w
}

// EndWave lets go of the held wave. Its tick keeps running.
func (s *State) EndWave() {
	if s.held == nil {
		return
	}
	s.held.Held = false
	s.held = nil
}

// HoldingWave reports whether a wave is following the pointer.
func (s *State) HoldingWave() bool { return s.held != nil }

// AuditionWave plays the last wave's note once.
func (s *State) AuditionWave() {
	if len(s.Waves) == 0 {
		return
	}
	w := s.Waves[len(s.Waves)-1]
	s.rhythm.PlayOnce(w, s.cfg.Playback.ToneLen(), auditionGain)
}

// DeleteWave stops and removes the most recent wave.
func (s *State) DeleteWave() {
	if len(s.Waves) == 0 {
		return
	}
	i := len(s.Waves) - 1
	w := s.Waves[i]
	s.rhythm.Stop(w)
	if s.held == w {
		s.held = nil
	}
	s.Waves[i] = nil
	s.Waves = s.Waves[:i]
}

// Clear removes every finished gesture and silences playback.
func (s *State) Clear() {
	s.player.Stop()
	s.Board.Clear()
	s.LastExport = export.Result{}
	s.LastErr = nil
}

// SetWaveform picks the oscillator for new waves and later playback.
func (s *State) SetWaveform(w audio.Waveform) {
	if s.Waveform == w {
		return
	}
	s.Waveform = w
	s.player.SetWaveform(w)
	s.log.Debug("waveform", zap.Stringer("waveform", w))
}

// ExportWAV saves the last finished gesture as a WAV file.
func (s *State) ExportWAV() { s.export(s.exporter.WAV) }

// ExportMIDI saves the last finished gesture as a MIDI file.
func (s *State) ExportMIDI() { s.export(s.exporter.MIDI) }

func (s *State) export(fn func([]gesture.Point) (export.Result, error)) {
	g, ok := s.Board.Last()
	if !ok || s.exporter == nil {
		return
	}
	res, err := fn(g.Points())
	if err != nil {
		s.LastErr = err
		return
	}
	if res.Saved() {
		s.LastExport = res
		s.LastErr = nil
	}
}

// WaveY is the vertical center of the i-th wave, stacked around the middle.
func (s *State) WaveY(i int) float64 {
	stack := -waveSpacing * float64(len(s.Waves)-1) / 2
	return s.Height/2 + stack + float64(i)*waveSpacing
}

// Close stops every wave and any playback.
func (s *State) Close() {
	for len(s.Waves) > 0 {
		s.DeleteWave()
	}
	s.player.Stop()
}

// Status is the one-line summary shown at the top of the canvas.
func (s *State) Status() string {
	var b strings.Builder
	switch {
	case s.Active != nil:
		fmt.Fprintf(&b, "Drawing %d notes", s.Active.Len())
	case s.held != nil:
		fmt.Fprintf(&b, "Wave %s every %s", s.held.Note.Label, formatDuration(s.held.Interval()))
	case s.Board.Len() == 0 && len(s.Waves) == 0:
		b.WriteString("Drag to draw a melody, right-drag for a rhythm wave")
	default:
		fmt.Fprintf(&b, "%d gestures, %d waves", s.Board.Len(), len(s.Waves))
	}
	if cur := s.Playing(); cur != nil {
		fmt.Fprintf(&b, " | playing %d notes (%s)", cur.Notes(), formatDuration(cur.Length(s.cfg.Playback.ToneLen())))
	}
	fmt.Fprintf(&b, " | %s", s.Waveform)
	if s.LastExport.Saved() {
		b.WriteString(" | saved " + s.LastExport.String())
	}
	if s.LastErr != nil {
		b.WriteString(" | Error: " + s.LastErr.Error())
	}
	return b.String()
}
