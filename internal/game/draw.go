package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/wavesketch/internal/gesture"
	"github.com/iburimskiy/wavesketch/internal/particle"
)

const (
	spectrumHeight = 48
	cursorRadius   = 10
	pointRadius    = 4
)

var (
	gridColor   = color.RGBA{R: 60, G: 70, B: 90, A: 90}
	labelColor  = color.RGBA{R: 100, G: 110, B: 130, A: 100}
	cursorColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

func (g *Game) Draw(screen *ebiten.Image) {
	st := g.State
	phase := st.Clock.Seconds()

	g.drawBackground(screen, phase)
	g.drawGrid(screen)
	for _, ge := range st.Board.All() {
		g.drawGesture(screen, ge)
	}
	if st.Active != nil {
		g.drawGesture(screen, st.Active)
	}
	g.drawWaves(screen)
	g.drawParticles(screen)
	g.drawSpectrum(screen, phase)
	g.drawCursor(screen)

	ebitenutil.DebugPrintAt(screen, st.Status(), 12, 12)
	ebitenutil.DebugPrintAt(screen, helpLine(), 12, 28)
}

func (g *Game) drawBackground(screen *ebiten.Image, t float64) {
	w, h := g.State.Width, g.State.Height
	for y := 0; y < int(h); y++ {
		ratio := float64(y) / h
		r := uint8(10 + 20*math.Sin(t*0.5+ratio*math.Pi))
		g_val := uint8(12 + 15*math.Cos(t*0.3+ratio*math.Pi))
		b := uint8(20 + 25*math.Sin(t*0.7+ratio*math.Pi))
		vector.StrokeLine(screen, 0, float32(y), float32(w), float32(y), 1, color.RGBA{R: r, G: g_val, B: b, A: 255}, false)
	}
}

// drawGrid marks the row of every note with its label.
func (g *Game) drawGrid(screen *ebiten.Image) {
	st := g.State
	sc := st.Scale()
	for i, n := range sc.Notes() {
		y := sc.RowY(i, st.Height)
		vector.StrokeLine(screen, 0, float32(y), float32(st.Width), float32(y), 1, gridColor, false)
		ebitenutil.DebugPrintAt(screen, n.Label, int(st.Width)-30, int(y)-8)
	}
}

func (g *Game) drawGesture(screen *ebiten.Image, ge *gesture.Gesture) {
	points := ge.Points()
	for i, p := range points {
		if i > 0 {
			q := points[i-1]
			vector.StrokeLine(screen, float32(q.X), float32(q.Y), float32(p.X), float32(p.Y), 3, ge.Color, true)
		}
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), pointRadius, ge.Color, true)
		if i == 0 || p.Note != points[i-1].Note {
			ebitenutil.DebugPrintAt(screen, p.Note.Label, int(p.X)+6, int(p.Y)-18)
		}
	}
}

// drawWaves stacks the rhythm waves around the middle of the canvas.
func (g *Game) drawWaves(screen *ebiten.Image) {
	st := g.State
	for i, w := range st.Waves {
		y0 := st.WaveY(i)
		prevY := y0 + w.Amplitude*math.Sin(w.Drift/w.Wavelength*2*math.Pi)
		for x := 2.0; x <= st.Width; x += 2 {
			y := y0 + w.Amplitude*math.Sin((x+w.Drift)/w.Wavelength*2*math.Pi)
			vector.StrokeLine(screen, float32(x-2), float32(prevY), float32(x), float32(y), 3, w.Color, true)
			prevY = y
		}
		ebitenutil.DebugPrintAt(screen, w.Note.Label+" "+w.Waveform.String(), 12, int(y0)-int(w.Amplitude)-16)
	}
}

func (g *Game) drawParticles(screen *ebiten.Image) {
	for _, p := range g.State.Particles.Particles() {
		c := withAlpha(p.Color, p.Alpha)
		switch p.Shape {
		case particle.Circle:
			vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), float32(p.Radius), c, true)
		case particle.Square:
			strokePolygon(screen, p, 4, math.Pi/4, c)
		case particle.Triangle:
			strokePolygon(screen, p, 3, -math.Pi/2, c)
		}
	}
}

// strokePolygon outlines a regular polygon with n corners around p, rotated
// by p.Rot plus offset.
func strokePolygon(screen *ebiten.Image, p particle.Particle, n int, offset float64, c color.RGBA) {
	corner := func(k int) (float32, float32) {
		a := p.Rot + offset + float64(k)*2*math.Pi/float64(n)
		return float32(p.X + math.Cos(a)*p.Radius*1.4), float32(p.Y + math.Sin(a)*p.Radius*1.4)
	}
	for k := 0; k < n; k++ {
		x1, y1 := corner(k)
		x2, y2 := corner(k + 1)
		vector.StrokeLine(screen, x1, y1, x2, y2, 1.5, c, true)
	}
}

func (g *Game) drawCursor(screen *ebiten.Image) {
	st := g.State
	if !st.CursorVisible {
		return
	}
	c := cursorColor
	if st.Active != nil {
		c = st.Active.Color
	}
	vector.StrokeCircle(screen, float32(st.CursorX), float32(st.CursorY), cursorRadius, 2, c, true)
	if st.Active != nil {
		note := st.Scale().Quantize(st.CursorY, st.Height)
		ebitenutil.DebugPrintAt(screen, note.Label, int(st.CursorX)+14, int(st.CursorY)-6)
	}
}

// drawSpectrum is the strip of frequency bands along the bottom edge.
func (g *Game) drawSpectrum(screen *ebiten.Image, t float64) {
	st := g.State
	bands := st.Bands
	if len(bands) == 0 {
		return
	}

	barHeight := float64(spectrumHeight)
	barY := st.Height - barHeight - 8
	barWidth := st.Width - 40
	barX := 20.0
	segmentWidth := barWidth / float64(len(bands))

	vector.DrawFilledRect(screen, float32(barX), float32(barY), float32(barWidth), float32(barHeight), color.RGBA{R: 20, G: 25, B: 35, A: 160}, false)

	colorPhase := t * 0.6
	for i, v := range bands {
		segmentX := barX + float64(i)*segmentWidth
		segmentHeight := math.Max(2, clamp01(v)*(barHeight-6))

		freqRatio := float64(i) / float64(len(bands))
		c := hueColor((colorPhase+freqRatio*180)*360, 0.8, 0.9, uint8(100+155*clamp01(v)))

		segmentY := barY + barHeight - segmentHeight
		vector.DrawFilledRect(screen, float32(segmentX), float32(segmentY), float32(segmentWidth-1), float32(segmentHeight), c, false)

		if v > 0.3 {
			highlight := color.RGBA{R: 255, G: 255, B: 255, A: uint8(100 * clamp01(v))}
			vector.StrokeRect(screen, float32(segmentX), float32(segmentY), float32(segmentWidth-1), float32(segmentHeight), 1, highlight, false)
		}
	}
	centerY := barY + barHeight/2
	vector.StrokeLine(screen, float32(barX), float32(centerY), float32(barX+barWidth), float32(centerY), 1, labelColor, false)

	ebitenutil.DebugPrintAt(screen, "Low", int(barX), int(barY)-15)
	ebitenutil.DebugPrintAt(screen, "High", int(barX+barWidth)-25, int(barY)-15)
}
