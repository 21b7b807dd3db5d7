// Package export turns a finished gesture into a file the user can keep.
package export

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/iburimskiy/wavesketch/internal/audio"
	"github.com/iburimskiy/wavesketch/internal/gesture"
	"github.com/iburimskiy/wavesketch/internal/tempo"
	"github.com/iburimskiy/wavesketch/internal/wav"
)

const (
	WAVName  = "arpeggiation.wav"
	WAVMIME  = "audio/wav"
	MIDIName = "arpeggiation.mid"
	MIDIMIME = "audio/midi"

	// DefaultGain is the level of every note in a rendered file.
	DefaultGain = 0.3

	midiVelocity = 100
)

// File is a named blob ready to be saved.
type File struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Arpeggio renders points as back-to-back sine notes, each filling one
// interval-long slot with no envelope. It returns the mono samples and the
// interval used.
func Arpeggio(points []gesture.Point, sampleRate int, gain float64) ([]float64, time.Duration) {
	interval := tempo.Estimate(points)
	tones := make([]audio.Tone, len(points))
	for i, p := range points {
		tones[i] = audio.Tone{
			Freq:     p.Note.Freq,
			Offset:   time.Duration(i) * interval,
			Duration: interval,
			Gain:     gain,
			Wave:     audio.Sine,
		}
	}
	length := audio.Samples(time.Duration(len(points))*interval, sampleRate)
	return audio.Render(tones, sampleRate, length), interval
}

// WAV renders points into a mono 16-bit WAVE file. ok is false, and nothing
// is rendered, for an empty gesture.
func WAV(points []gesture.Point, sampleRate int, gain float64) (f File, ok bool) {
	if len(points) == 0 {
		return File{}, false
	}
	samples, _ := Arpeggio(points, sampleRate, gain)
	return File{
		Name:     WAVName,
		MIMEType: WAVMIME,
		Data:     wav.Encode(samples, sampleRate),
	}, true
}

// MidiKey is the nearest MIDI key number to freq.
func MidiKey(freq float64) uint8 {
	k := math.Round(69 + 12*math.Log2(freq/440))
	if k < 0 {
		return 0
	}
	if k > 127 {
		return 127
	}
	return uint8(k)
}

// MIDI writes points as a single-track Standard MIDI File, one quarter note
// per point, with the tempo set so a quarter lasts one gesture interval.
func MIDI(points []gesture.Point) (File, bool, error) {
	if len(points) == 0 {
		return File{}, false, nil
	}
	interval := tempo.Estimate(points)
	ticks := smf.MetricTicks(960)
	quarter := ticks.Ticks4th()

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName("arpeggiation"))
	tr.Add(0, smf.MetaTempo(float64(time.Minute)/float64(interval)))
	for _, p := range points {
		key := MidiKey(p.Note.Freq)
		tr.Add(0, midi.NoteOn(0, key, midiVelocity))
		tr.Add(quarter, midi.NoteOff(0, key))
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = ticks
	if err := s.Add(tr); err != nil {
		return File{}, false, fmt.Errorf("midi track: %w", err)
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return File{}, false, fmt.Errorf("write midi: %w", err)
	}
	return File{Name: MIDIName, MIMEType: MIDIMIME, Data: buf.Bytes()}, true, nil
}
