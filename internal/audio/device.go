package audio

import (
	"sync"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
)

// Device hands out voices on a shared audio output.
type Device interface {
	SampleRate() int
	OpenVoice() Voice
}

// Voice is one caller's share of the output: a playback session or a rhythm
// wave. Tone offsets are relative to the moment Schedule is called.
type Voice interface {
	Schedule(tones ...Tone)
	// Release silences the voice at once, dropping tones not yet started.
	// Releasing twice is a no-op.
	Release()
	// ReleaseWhenIdle lets the voice release itself once every scheduled
	// tone has finished.
	ReleaseWhenIdle()
	Released() bool
}

// Output is the process-wide audio output. All voices mix into one master
// streamer which is handed to the speaker once. Every change to the mix
// happens under lock, which must be the lock the speaker holds while it
// pulls samples.
type Output struct {
	sampleRate int
	lock       sync.Locker
	mixer      beep.Mixer
	volume     *effects.Volume
	tap        *Tap
	voices     map[*voice]struct{}
}

// NewOutput builds the master chain: voices -> mixer -> volume -> tap.
// tap may be nil.
func NewOutput(sampleRate int, lock sync.Locker, volume float64, tap *Tap) *Output {
	if lock == nil {
		lock = &sync.Mutex{}
	}
	o := &Output{
		sampleRate: sampleRate,
		lock:       lock,
		tap:        tap,
		voices:     make(map[*voice]struct{}),
	}
	o.volume = &effects.Volume{
		Streamer: &o.mixer,
		Base:     2,
		Volume:   volume,
	}
	return o
}

func (o *Output) SampleRate() int { return o.sampleRate }

// Streamer is the master signal to play on the speaker.
func (o *Output) Streamer() beep.Streamer {
	if o.tap != nil {
		o.tap.Source = o.volume
		return o.tap
	}
	return o.volume
}

// SetVolume changes the master volume in doublings (0 is unity).
func (o *Output) SetVolume(v float64) {
	o.lock.Lock()
	o.volume.Volume = v
	o.lock.Unlock()
}

// OpenVoice adds a new, empty voice to the mix.
func (o *Output) OpenVoice() Voice {
	v := &voice{out: o}
	o.lock.Lock()
	o.voices[v] = struct{}{}
	o.mixer.Add(v)
	o.lock.Unlock()
	return v
}

// Voices is the number of voices not yet released.
func (o *Output) Voices() int {
	o.lock.Lock()
	defer o.lock.Unlock()
	return len(o.voices)
}

// Clear releases every voice.
func (o *Output) Clear() {
	o.lock.Lock()
	for v := range o.voices {
		v.release()
	}
	o.mixer.Clear()
	o.lock.Unlock()
}

type voice struct {
	out      *Output
	mixer    beep.Mixer
	released bool
	drain    bool
}

func (v *voice) Schedule(tones ...Tone) {
	v.out.lock.Lock()
	defer v.out.lock.Unlock()
	if v.released {
		return
	}
	for _, t := range tones {
		v.mixer.Add(t.Streamer(v.out.sampleRate))
	}
}

func (v *voice) Release() {
	v.out.lock.Lock()
	v.release()
	v.out.lock.Unlock()
}

func (v *voice) ReleaseWhenIdle() {
	v.out.lock.Lock()
	v.drain = true
	v.out.lock.Unlock()
}

func (v *voice) Released() bool {
	v.out.lock.Lock()
	defer v.out.lock.Unlock()
	return v.released
}

// release must be called with the output lock held.
func (v *voice) release() {
	if v.released {
		return
	}
	v.released = true
	v.mixer.Clear()
	delete(v.out.voices, v)
}

// Stream runs under the output lock, called by the master mixer.
func (v *voice) Stream(samples [][2]float64) (n int, ok bool) {
	if !v.released && v.drain && v.mixer.Len() == 0 {
		v.release()
	}
	if v.released {
		return 0, false
	}
	return v.mixer.Stream(samples)
}

func (v *voice) Err() error { return nil }

// Discard is a Device with no sound card behind it. Voices accept tones and
// drop them.
type Discard struct{ Rate int }

func (d Discard) SampleRate() int { return d.Rate }

func (d Discard) OpenVoice() Voice { return &discardVoice{} }

type discardVoice struct{ released bool }

func (v *discardVoice) Schedule(...Tone)  {}
func (v *discardVoice) Release()          { v.released = true }
func (v *discardVoice) ReleaseWhenIdle()  { v.released = true }
func (v *discardVoice) Released() bool    { return v.released }
