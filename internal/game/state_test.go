package game

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iburimskiy/wavesketch/internal/audio"
	"github.com/iburimskiy/wavesketch/internal/audio/audiotest"
	"github.com/iburimskiy/wavesketch/internal/config"
	"github.com/iburimskiy/wavesketch/internal/export"
	"github.com/iburimskiy/wavesketch/internal/scale"
)

func newTestState(t *testing.T, saver export.Saver) (*State, *audiotest.Device) {
	t.Helper()
	cfg := config.Default()
	dev := audiotest.NewDevice(cfg.Audio.SampleRate)
	var exp *export.Exporter
	if saver != nil {
		exp = export.NewExporter(saver, cfg.Audio.SampleRate, cfg.Export.Gain, nil)
	}
	st, err := NewState(cfg, dev, exp, rand.New(rand.NewSource(1)), nil)
	if err != nil {
		t.Fatal(err)
	}
	return st, dev
}

// drawScenario draws three C4 points at x=0, 40, 120 on the default canvas.
func drawScenario(st *State) {
	st.BeginGesture(0, 500)
	st.MoveCursor(40, 500)
	st.MoveCursor(44, 500) // too close, filtered
	st.MoveCursor(120, 500)
	st.EndGesture()
}

func TestGestureIsPlayedOnRelease(t *testing.T) {
	st, dev := newTestState(t, nil)
	drawScenario(st)

	if st.Drawing() || st.Board.Len() != 1 {
		t.Fatalf("drawing=%v board=%d", st.Drawing(), st.Board.Len())
	}
	tones := dev.Tones()
	if len(tones) != 3 {
		t.Fatalf("got %d tones", len(tones))
	}
	for i, tone := range tones {
		if tone.Freq != scale.Chromatic.Note(0).Freq {
			t.Fatalf("tone %d freq %v", i, tone.Freq)
		}
		if tone.Offset != time.Duration(i)*400*time.Millisecond || tone.Duration != 350*time.Millisecond {
			t.Fatalf("tone %d at %v for %v", i, tone.Offset, tone.Duration)
		}
	}
	if st.Playing() == nil {
		t.Fatal("no current session")
	}
	if st.Particles.Len() == 0 {
		t.Fatal("no sparkles for recorded points")
	}
}

func TestReplayCutsOffPrevious(t *testing.T) {
	st, dev := newTestState(t, nil)
	if st.Replay() != nil {
		t.Fatal("replay with an empty board")
	}
	drawScenario(st)
	st.Replay()
	if len(dev.VoiceTrail) != 2 {
		t.Fatalf("voices %d", len(dev.VoiceTrail))
	}
	if !dev.VoiceTrail[0].Released() || dev.VoiceTrail[1].Released() {
		t.Fatal("replay did not cancel the first session")
	}
}

func TestWaveLifecycle(t *testing.T) {
	st, dev := newTestState(t, nil)
	w := st.BeginWave(512, 256)
	if w.Note.Label != "F#4" || !w.Active() || !st.HoldingWave() {
		t.Fatalf("wave %+v active=%v", w.Note, w.Active())
	}
	if w.Interval() != 120*time.Millisecond {
		t.Fatalf("interval %v", w.Interval())
	}

	// dragging away from the center stretches the wavelength
	st.MoveCursor(712, 256)
	if w.Wavelength != 200 || w.Amplitude != 20 || w.Interval() != 300*time.Millisecond {
		t.Fatalf("after drag: wl=%v amp=%v interval=%v", w.Wavelength, w.Amplitude, w.Interval())
	}
	if dev.Open() != 1 {
		t.Fatalf("restart left %d voices open", dev.Open())
	}

	st.EndWave()
	if w.Held || st.HoldingWave() {
		t.Fatal("wave still held")
	}
	st.Tick(300 * time.Millisecond)
	if w.Drift != waveDrift {
		t.Fatalf("drift %v", w.Drift)
	}
	// first start, restart, one tick
	tones := dev.Tones()
	if len(tones) != 3 {
		t.Fatalf("got %d ticks", len(tones))
	}
	for _, tone := range tones {
		if tone.Freq != 369.99 || tone.Duration != 180*time.Millisecond || tone.Gain != 0.25 {
			t.Fatalf("tick %+v", tone)
		}
	}

	st.DeleteWave()
	if len(st.Waves) != 0 || w.Active() || dev.Open() != 0 {
		t.Fatalf("delete left waves=%d active=%v open=%d", len(st.Waves), w.Active(), dev.Open())
	}
	st.Tick(time.Second)
	if len(dev.Tones()) != 3 {
		t.Fatal("deleted wave kept ticking")
	}
	st.DeleteWave()
}

func TestWavesStackAroundCenter(t *testing.T) {
	st, _ := newTestState(t, nil)
	for i := 0; i < 3; i++ {
		st.BeginWave(100, 100)
		st.EndWave()
	}
	want := []float64{196, 256, 316}
	for i, y := range want {
		if got := st.WaveY(i); got != y {
			t.Fatalf("WaveY(%d) = %v, want %v", i, got, y)
		}
	}
	if st.Waves[0].Color == st.Waves[1].Color {
		t.Fatal("consecutive waves share a color")
	}
}

func TestWaveformSelection(t *testing.T) {
	st, dev := newTestState(t, nil)
	st.SetWaveform(audio.Triangle)
	w := st.BeginWave(10, 10)
	if w.Waveform != audio.Triangle {
		t.Fatalf("wave uses %v", w.Waveform)
	}
	st.EndWave()
	st.AuditionWave()
	drawScenario(st)
	for _, tone := range dev.Tones() {
		if tone.Wave != audio.Triangle {
			t.Fatalf("tone %+v not triangle", tone)
		}
	}
	if !strings.Contains(st.Status(), "triangle") {
		t.Fatalf("status %q", st.Status())
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	st, _ := newTestState(t, export.DirSaver{Dir: dir})

	st.ExportWAV()
	if st.LastExport.Saved() || st.LastErr != nil {
		t.Fatal("exported an empty board")
	}

	drawScenario(st)
	st.ExportWAV()
	if st.LastErr != nil {
		t.Fatal(st.LastErr)
	}
	info, err := os.Stat(filepath.Join(dir, export.WAVName))
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 105884 {
		t.Fatalf("wav size %d", info.Size())
	}
	if !strings.Contains(st.Status(), "saved") {
		t.Fatalf("status %q", st.Status())
	}

	st.ExportMIDI()
	if _, err := os.Stat(filepath.Join(dir, export.MIDIName)); err != nil {
		t.Fatal(err)
	}
}

type failingSaver struct{ err error }

func (f failingSaver) Save(export.File) (string, error) { return "", f.err }

func TestExportErrorShowsInStatus(t *testing.T) {
	st, _ := newTestState(t, failingSaver{errors.New("read-only file system")})
	drawScenario(st)
	st.ExportWAV()
	if st.LastErr == nil || !strings.Contains(st.Status(), "Error: ") {
		t.Fatalf("err=%v status=%q", st.LastErr, st.Status())
	}
	st.Clear()
	if st.LastErr != nil || st.Board.Len() != 0 {
		t.Fatal("clear kept state")
	}
}

func TestClearAndClose(t *testing.T) {
	st, dev := newTestState(t, nil)
	drawScenario(st)
	st.BeginWave(100, 100)
	st.Clear()
	if st.Board.Len() != 0 || st.Playing() != nil {
		t.Fatal("clear kept gestures or playback")
	}
	if len(st.Waves) != 1 {
		t.Fatal("clear removed waves")
	}
	st.Close()
	if dev.Open() != 0 {
		t.Fatalf("%d voices open after close", dev.Open())
	}
}

func TestResizeRequantizes(t *testing.T) {
	st, _ := newTestState(t, nil)
	st.Resize(800, 260)
	st.BeginGesture(0, 0)
	if p := st.Active.Last(); p.Note.Label != "C5" || p.Y != 10 {
		t.Fatalf("point %+v", p)
	}
	st.Resize(0, -1)
	if st.Width != 800 || st.Height != 260 {
		t.Fatal("accepted an empty size")
	}
}

func TestStatusLine(t *testing.T) {
	st, _ := newTestState(t, nil)
	if !strings.Contains(st.Status(), "Drag to draw") {
		t.Fatalf("idle status %q", st.Status())
	}
	st.BeginGesture(0, 500)
	if !strings.Contains(st.Status(), "Drawing 1 notes") {
		t.Fatalf("drawing status %q", st.Status())
	}
	st.EndGesture()
	if !strings.Contains(st.Status(), "playing 1 notes") {
		t.Fatalf("playing status %q", st.Status())
	}
}

func TestBindingsRunOnEmptyState(t *testing.T) {
	st, _ := newTestState(t, nil)
	for _, b := range bindings {
		b.action(st)
	}
	help := helpLine()
	for _, want := range []string{"Enter: save WAV", "M: save MIDI", "Esc: quit"} {
		if !strings.Contains(help, want) {
			t.Fatalf("help %q lacks %q", help, want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(0); got != "0s" {
		t.Fatalf("got %q", got)
	}
	if got := formatDuration(1200 * time.Millisecond); !strings.Contains(got, "200") {
		t.Fatalf("got %q", got)
	}
}
