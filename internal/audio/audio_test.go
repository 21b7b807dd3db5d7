package audio

import (
	"math"
	"testing"
	"time"

	"github.com/faiface/beep"
)

const testRate = 44100

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func pull(t *testing.T, s beep.Streamer, n int) []float64 {
	t.Helper()
	buf := make([][2]float64, n)
	got, _ := s.Stream(buf)
	out := make([]float64, got)
	for i := range out {
		out[i] = buf[i][0]
	}
	return out
}

func TestWaveformShapes(t *testing.T) {
	tests := []struct {
		w    Waveform
		p    float64
		want float64
	}{
		{Sine, 0, 0},
		{Sine, 0.25, 1},
		{Sine, 0.75, -1},
		{Triangle, 0, 0},
		{Triangle, 0.25, 1},
		{Triangle, 0.5, 0},
		{Triangle, 0.75, -1},
		{Triangle, 0.875, -0.5},
	}
	for _, tt := range tests {
		if got := tt.w.At(tt.p); !near(got, tt.want) {
			t.Errorf("%v.At(%v) = %v, want %v", tt.w, tt.p, got, tt.want)
		}
	}
	if w, err := ParseWaveform("triangle"); err != nil || w != Triangle {
		t.Fatalf("ParseWaveform: %v %v", w, err)
	}
	if _, err := ParseWaveform("saw"); err == nil {
		t.Fatal("unknown waveform accepted")
	}
}

func TestOscillatorMatchesSine(t *testing.T) {
	o := &Oscillator{Wave: Sine, Freq: 261.63, Gain: 0.3, SampleRate: testRate}
	got := pull(t, o, 1000)
	for k, v := range got {
		want := 0.3 * math.Sin(2*math.Pi*261.63*float64(k)/testRate)
		if math.Abs(v-want) > 1e-9 {
			t.Fatalf("sample %d = %v, want %v", k, v, want)
		}
	}
}

func TestToneSpansTile(t *testing.T) {
	interval := 399500 * time.Microsecond
	prevEnd := 0
	for i := 0; i < 50; i++ {
		tone := Tone{Offset: time.Duration(i) * interval, Duration: interval}
		start, end := tone.Span(testRate)
		if start != prevEnd {
			t.Fatalf("tone %d starts at %d, previous ended at %d", i, start, prevEnd)
		}
		prevEnd = end
	}
	if want := Samples(50*interval, testRate); prevEnd != want {
		t.Fatalf("total %d, want %d", prevEnd, want)
	}
}

func TestRenderPlacesTones(t *testing.T) {
	tones := []Tone{
		{Freq: 440, Offset: 0, Duration: 10 * time.Millisecond, Gain: 0.3},
		{Freq: 880, Offset: 20 * time.Millisecond, Duration: 10 * time.Millisecond, Gain: 0.3},
	}
	length := Samples(40*time.Millisecond, testRate)
	out := Render(tones, testRate, length)
	if len(out) != length {
		t.Fatalf("len = %d, want %d", len(out), length)
	}
	s1, e1 := tones[0].Span(testRate)
	s2, e2 := tones[1].Span(testRate)
	for k, v := range out {
		var want float64
		switch {
		case k >= s1 && k < e1:
			want = 0.3 * math.Sin(2*math.Pi*440*float64(k-s1)/testRate)
		case k >= s2 && k < e2:
			// phase restarts at the tone's own start
			want = 0.3 * math.Sin(2*math.Pi*880*float64(k-s2)/testRate)
		}
		if math.Abs(v-want) > 1e-9 {
			t.Fatalf("sample %d = %v, want %v", k, v, want)
		}
	}
}

func TestRenderMixesOverlaps(t *testing.T) {
	a := Tone{Freq: 440, Duration: 5 * time.Millisecond, Gain: 0.25}
	out := Render([]Tone{a, a}, testRate, 100)
	single := Render([]Tone{a}, testRate, 100)
	for k := range out {
		if !near(out[k], 2*single[k]) {
			t.Fatalf("sample %d: mixed %v, single %v", k, out[k], single[k])
		}
	}
	if Render(nil, testRate, 0) != nil {
		t.Fatal("zero length render returned samples")
	}
}

func TestOutputVoiceLifecycle(t *testing.T) {
	o := NewOutput(testRate, nil, 0, nil)
	master := o.Streamer()

	v := o.OpenVoice()
	if o.Voices() != 1 {
		t.Fatalf("voices = %d", o.Voices())
	}
	v.Schedule(Tone{Freq: 440, Offset: time.Millisecond, Duration: 5 * time.Millisecond, Gain: 0.5})
	got := pull(t, master, 512)
	var energy float64
	for _, s := range got[:44] {
		energy += math.Abs(s)
	}
	if energy != 0 {
		t.Fatal("tone sounded before its offset")
	}
	energy = 0
	for _, s := range got[44:] {
		energy += math.Abs(s)
	}
	if energy == 0 {
		t.Fatal("scheduled tone is silent")
	}

	v.Release()
	v.Release()
	if !v.Released() || o.Voices() != 0 {
		t.Fatalf("released=%v voices=%d", v.Released(), o.Voices())
	}
	v.Schedule(Tone{Freq: 440, Duration: time.Second, Gain: 0.5})
	for _, s := range pull(t, master, 512) {
		if s != 0 {
			t.Fatal("released voice still sounds")
		}
	}
}

func TestVoiceReleaseWhenIdle(t *testing.T) {
	o := NewOutput(testRate, nil, 0, nil)
	v := o.OpenVoice()
	v.Schedule(Tone{Freq: 440, Duration: 10 * time.Millisecond, Gain: 0.5})
	v.ReleaseWhenIdle()
	pull(t, o.Streamer(), 256)
	if v.Released() {
		t.Fatal("voice released while its tone was still sounding")
	}
	for i := 0; i < 4; i++ {
		pull(t, o.Streamer(), 256)
	}
	if !v.Released() || o.Voices() != 0 {
		t.Fatalf("released=%v voices=%d after drain", v.Released(), o.Voices())
	}
}

func TestOutputClearReleasesAll(t *testing.T) {
	o := NewOutput(testRate, nil, 0, nil)
	a, b := o.OpenVoice(), o.OpenVoice()
	o.Clear()
	if !a.Released() || !b.Released() || o.Voices() != 0 {
		t.Fatal("Clear left voices open")
	}
	a.Release()
	if o.Voices() != 0 {
		t.Fatal("release after clear corrupted the count")
	}
}

func TestOutputVolume(t *testing.T) {
	o := NewOutput(testRate, nil, -1, nil)
	o.OpenVoice().Schedule(Tone{Freq: 441, Duration: time.Second, Gain: 0.8})
	got := pull(t, o.Streamer(), 100)
	want := 0.4 * math.Sin(2*math.Pi*441*25/testRate)
	if math.Abs(got[25]-want) > 1e-9 {
		t.Fatalf("sample = %v, want %v", got[25], want)
	}
}

func TestTapSnapshot(t *testing.T) {
	i := 0
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for k := range samples {
			samples[k] = [2]float64{float64(i), float64(i)}
			i++
		}
		return len(samples), true
	})
	tap := NewTap(src, 8)
	buf := make([][2]float64, 5)
	tap.Stream(buf)
	tap.Stream(buf)
	got := tap.Snapshot(4)
	want := []float64{6, 7, 8, 9}
	for k := range want {
		if got[k] != want[k] {
			t.Fatalf("snapshot %v, want %v", got, want)
		}
	}
	if len(tap.Snapshot(100)) != 8 {
		t.Fatal("snapshot not capped at ring size")
	}
}

func TestSpectrumPeaksAtTone(t *testing.T) {
	sp := NewSpectrum(16, 1024, 0)
	block := make([]float64, 1024)
	for k := range block {
		block[k] = 0.5 * math.Sin(2*math.Pi*2000*float64(k)/testRate)
	}
	sp.Apply(block)
	peak := 0
	for b, v := range sp.Bands {
		if v > sp.Bands[peak] {
			peak = b
		}
		if v < 0 || v > 1 {
			t.Fatalf("band %d out of range: %v", b, v)
		}
	}
	// 2kHz is bin ~46 of 512, which lands in the upper part of a log layout.
	if peak < 8 {
		t.Fatalf("peak band %d, bands %v", peak, sp.Bands)
	}
	silent := NewSpectrum(16, 1024, 0)
	silent.Apply(make([]float64, 1024))
	for _, v := range silent.Bands {
		if v != 0 {
			t.Fatalf("silence produced %v", silent.Bands)
		}
	}
}
