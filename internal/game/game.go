// Package game is the ebiten front end: it turns mouse and keyboard input
// into State changes and paints the State every frame.
package game

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/iburimskiy/wavesketch/internal/audio"
)

type binding struct {
	keys   []ebiten.Key
	help   string
	action func(*State)
}

var bindings = []binding{
	{[]ebiten.Key{ebiten.KeyEnter, ebiten.KeyNumpadEnter}, "Enter: save WAV", (*State).ExportWAV},
	{[]ebiten.Key{ebiten.KeyM}, "M: save MIDI", (*State).ExportMIDI},
	{[]ebiten.Key{ebiten.KeySpace}, "Space: replay", func(s *State) { s.Replay() }},
	{[]ebiten.Key{ebiten.KeyP}, "P: play wave", (*State).AuditionWave},
	{[]ebiten.Key{ebiten.KeyC}, "C: clear", (*State).Clear},
	{[]ebiten.Key{ebiten.KeyBackspace, ebiten.KeyDelete}, "Del: delete wave", (*State).DeleteWave},
	{[]ebiten.Key{ebiten.KeyDigit1}, "1/2: sine/triangle", func(s *State) { s.SetWaveform(audio.Sine) }},
	{[]ebiten.Key{ebiten.KeyDigit2}, "", func(s *State) { s.SetWaveform(audio.Triangle) }},
}

// Game implements ebiten.Game on top of a State.
type Game struct {
	State *State

	tap      *audio.Tap
	spectrum *audio.Spectrum
	log      *zap.Logger

	// input edge detection
	prevKey map[ebiten.Key]bool
	lastX   int
	lastY   int
}

// New wraps st. tap may be nil, in which case the spectrum strip stays flat.
func New(st *State, tap *audio.Tap, spectrum *audio.Spectrum, log *zap.Logger) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	return &Game{
		State:    st,
		tap:      tap,
		spectrum: spectrum,
		log:      log,
		prevKey:  map[ebiten.Key]bool{},
		lastX:    -1,
		lastY:    -1,
	}
}

func (g *Game) Update() error {
	st := g.State

	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	mouseX, mouseY := ebiten.CursorPosition()
	x, y := float64(mouseX), float64(mouseY)
	inside := x >= 0 && y >= 0 && x < st.Width && y < st.Height

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && inside:
		st.BeginGesture(x, y)
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) && inside:
		st.BeginWave(x, y)
	}
	if mouseX != g.lastX || mouseY != g.lastY {
		g.lastX, g.lastY = mouseX, mouseY
		st.MoveCursor(x, y)
	}
	if !inside && !st.Drawing() && !st.HoldingWave() {
		st.CursorVisible = false
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		st.EndGesture()
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight) {
		st.EndWave()
	}

	for _, b := range bindings {
		for _, k := range b.keys {
			if justPressed(k) {
				b.action(st)
			}
		}
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		st.Close()
		return ebiten.Termination
	}

	st.Tick(time.Second / time.Duration(ebiten.TPS()))
	if g.spectrum != nil {
		g.spectrum.Update(g.tap)
		st.Bands = g.spectrum.Bands
	}
	return nil
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.State.Resize(float64(outsideWidth), float64(outsideHeight))
	return int(g.State.Width), int(g.State.Height)
}

// helpLine lists the key bindings.
func helpLine() string {
	line := "Drag: draw | Right-drag: wave"
	for _, b := range bindings {
		if b.help != "" {
			line += " | " + b.help
		}
	}
	return line + " | Esc: quit"
}
