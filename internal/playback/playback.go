// Package playback auditions a finished gesture on the live output.
package playback

import (
	"time"

	"go.uber.org/zap"

	"github.com/iburimskiy/wavesketch/internal/audio"
	"github.com/iburimskiy/wavesketch/internal/gesture"
)

// Player schedules gesture notes on an audio device.
type Player struct {
	dev     audio.Device
	toneLen time.Duration
	gain    float64
	wave    audio.Waveform
	log     *zap.Logger

	current *Session
}

func New(dev audio.Device, toneLen time.Duration, gain float64, log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{dev: dev, toneLen: toneLen, gain: gain, log: log}
}

// SetWaveform picks the oscillator shape for later sessions.
func (p *Player) SetWaveform(w audio.Waveform) { p.wave = w }

// Tones lays out one tone per point, the i-th starting i*interval after the
// session start. Tones last toneLen whatever the interval, so fast gestures
// overlap.
func Tones(points []gesture.Point, interval, toneLen time.Duration, gain float64, wave audio.Waveform) []audio.Tone {
	tones := make([]audio.Tone, len(points))
	for i, pt := range points {
		tones[i] = audio.Tone{
			Freq:     pt.Note.Freq,
			Offset:   time.Duration(i) * interval,
			Duration: toneLen,
			Gain:     gain,
			Wave:     wave,
		}
	}
	return tones
}

// Play schedules every note of points at once on a fresh voice and returns a
// handle that can cancel the notes still to come. It returns nil when there
// is nothing to play.
func (p *Player) Play(points []gesture.Point, interval time.Duration) *Session {
	if len(points) == 0 {
		return nil
	}
	v := p.dev.OpenVoice()
	v.Schedule(Tones(points, interval, p.toneLen, p.gain, p.wave)...)
	v.ReleaseWhenIdle()
	s := &Session{
		voice:    v,
		notes:    len(points),
		interval: interval,
	}
	p.current = s
	p.log.Info("playing gesture",
		zap.Int("notes", len(points)),
		zap.Duration("interval", interval))
	return s
}

// Stop cancels the most recent session, if any.
func (p *Player) Stop() {
	p.current.Cancel()
	p.current = nil
}

// Current returns the most recent session.
func (p *Player) Current() *Session { return p.current }

// Session is one scheduled gesture playback.
type Session struct {
	voice    audio.Voice
	notes    int
	interval time.Duration
}

// Cancel silences the session; notes that have not started never sound.
// It is safe to call on a nil or finished session.
func (s *Session) Cancel() {
	if s == nil {
		return
	}
	s.voice.Release()
}

// Done reports whether the session has finished or been cancelled.
func (s *Session) Done() bool { return s == nil || s.voice.Released() }

// Notes is the number of scheduled notes.
func (s *Session) Notes() int { return s.notes }

// Length is the time from the first note's start to the last note's start
// plus its tone.
func (s *Session) Length(toneLen time.Duration) time.Duration {
	if s == nil || s.notes == 0 {
		return 0
	}
	return time.Duration(s.notes-1)*s.interval + toneLen
}
