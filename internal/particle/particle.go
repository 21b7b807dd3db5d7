// Package particle is a small decaying particle system used for the sketch's
// sparkles and floating shapes.
package particle

import (
	"image/color"
	"math"
	"math/rand"
)

type Shape int

const (
	Circle Shape = iota
	Square
	Triangle
)

type Particle struct {
	X, Y     float64
	VX, VY   float64
	Rot      float64
	Spin     float64
	Radius   float64
	Alpha    float64
	Color    color.RGBA
	Shape    Shape
	Bouncing bool
}

// Config describes one flavour of particle. Damping and Fade are applied
// multiplicatively every step; a particle is dropped once its alpha falls
// to MinAlpha.
type Config struct {
	EmitPerTick int
	Speed       float64
	Damping     float64
	Spin        float64
	Fade        float64
	MinAlpha    float64
	MinRadius   float64
	MaxRadius   float64
	// Max caps the live particles; the oldest go first. Zero means no cap.
	Max int
	// Bounce reflects particles off the bounds instead of letting them leave.
	Bounce bool
}

type System struct {
	cfg           Config
	rng           *rand.Rand
	particles     []Particle
	width, height float64
}

func New(cfg Config, rng *rand.Rand) *System {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if cfg.MaxRadius < cfg.MinRadius {
		cfg.MaxRadius = cfg.MinRadius
	}
	return &System{cfg: cfg, rng: rng}
}

// SetBounds sets the area used for bouncing.
func (s *System) SetBounds(w, h float64) { s.width, s.height = w, h }

// Emit spawns EmitPerTick particles at (x, y) moving in random directions.
func (s *System) Emit(x, y float64, c color.RGBA) {
	for i := 0; i < s.cfg.EmitPerTick; i++ {
		s.Spawn(x, y, c)
	}
}

// Spawn adds a single particle and returns it.
func (s *System) Spawn(x, y float64, c color.RGBA) *Particle {
	angle := s.rng.Float64() * 2 * math.Pi
	speed := s.cfg.Speed * (0.5 + s.rng.Float64())
	p := Particle{
		X:        x,
		Y:        y,
		VX:       math.Cos(angle) * speed,
		VY:       math.Sin(angle) * speed,
		Rot:      s.rng.Float64() * 2 * math.Pi,
		Spin:     (s.rng.Float64() - 0.5) * s.cfg.Spin,
		Radius:   s.cfg.MinRadius + s.rng.Float64()*(s.cfg.MaxRadius-s.cfg.MinRadius),
		Alpha:    1,
		Color:    c,
		Shape:    Shape(s.rng.Intn(3)),
		Bouncing: s.cfg.Bounce,
	}
	s.particles = append(s.particles, p)
	if s.cfg.Max > 0 && len(s.particles) > s.cfg.Max {
		s.particles = append(s.particles[:0], s.particles[len(s.particles)-s.cfg.Max:]...)
	}
	return &s.particles[len(s.particles)-1]
}

// Step advances every particle by one tick and drops the faded ones.
func (s *System) Step() {
	live := s.particles[:0]
	for _, p := range s.particles {
		p.X += p.VX
		p.Y += p.VY
		p.VX *= s.cfg.Damping
		p.VY *= s.cfg.Damping
		p.Rot += p.Spin
		p.Alpha *= s.cfg.Fade
		if p.Bouncing && s.width > 0 && s.height > 0 {
			if p.X < p.Radius || p.X > s.width-p.Radius {
				p.VX = -p.VX
			}
			if p.Y < p.Radius || p.Y > s.height-p.Radius {
				p.VY = -p.VY
			}
		}
		if p.Alpha > s.cfg.MinAlpha {
			live = append(live, p)
		}
	}
	s.particles = live
}

// Particles returns the live particles. The slice is only valid until the
// next Emit or Step.
func (s *System) Particles() []Particle { return s.particles }

func (s *System) Len() int { return len(s.particles) }

func (s *System) Clear() { s.particles = s.particles[:0] }
