// Package audiotest provides a Device that records what would have played.
package audiotest

import (
	"github.com/iburimskiy/wavesketch/internal/audio"
)

// Device records every voice it opens.
type Device struct {
	Rate       int
	VoiceTrail []*Voice
}

func NewDevice(rate int) *Device { return &Device{Rate: rate} }

func (d *Device) SampleRate() int { return d.Rate }

func (d *Device) OpenVoice() audio.Voice {
	v := &Voice{}
	d.VoiceTrail = append(d.VoiceTrail, v)
	return v
}

// Open counts voices that have not been released.
func (d *Device) Open() int {
	n := 0
	for _, v := range d.VoiceTrail {
		if !v.released {
			n++
		}
	}
	return n
}

// Tones returns every tone scheduled on any voice, in scheduling order.
func (d *Device) Tones() []audio.Tone {
	var out []audio.Tone
	for _, v := range d.VoiceTrail {
		out = append(out, v.Scheduled...)
	}
	return out
}

// Voice remembers scheduled tones. Tones scheduled after release are
// dropped, like on a real output.
type Voice struct {
	Scheduled []audio.Tone
	Idle      bool
	released  bool
}

func (v *Voice) Schedule(tones ...audio.Tone) {
	if v.released {
		return
	}
	v.Scheduled = append(v.Scheduled, tones...)
}

func (v *Voice) Release()         { v.released = true }
func (v *Voice) ReleaseWhenIdle() { v.Idle = true }
func (v *Voice) Released() bool   { return v.released }
