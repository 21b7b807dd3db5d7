package particle

import (
	"image/color"
	"math"
	"math/rand"
	"testing"
)

var white = color.RGBA{255, 255, 255, 255}

func testConfig() Config {
	return Config{
		EmitPerTick: 4,
		Speed:       2,
		Damping:     0.9,
		Spin:        0.02,
		Fade:        0.5,
		MinAlpha:    0.1,
		MinRadius:   1,
		MaxRadius:   3,
	}
}

func TestEmitSpawnsConfiguredCount(t *testing.T) {
	s := New(testConfig(), rand.New(rand.NewSource(7)))
	s.Emit(10, 20, white)
	if s.Len() != 4 {
		t.Fatalf("len = %d", s.Len())
	}
	for _, p := range s.Particles() {
		if p.X != 10 || p.Y != 20 || p.Alpha != 1 {
			t.Fatalf("particle %+v", p)
		}
		if p.Radius < 1 || p.Radius > 3 {
			t.Fatalf("radius %v out of range", p.Radius)
		}
	}
}

func TestStepDecaysAndDrops(t *testing.T) {
	s := New(testConfig(), rand.New(rand.NewSource(7)))
	s.Emit(0, 0, white)
	before := s.Particles()[0]
	s.Step()
	after := s.Particles()[0]
	if after.Alpha != 0.5 {
		t.Fatalf("alpha = %v", after.Alpha)
	}
	if math.Abs(after.VX-before.VX*0.9) > 1e-12 || after.X != before.VX {
		t.Fatalf("motion %+v -> %+v", before, after)
	}
	// 0.25, then 0.125, then 0.0625 <= MinAlpha
	s.Step()
	s.Step()
	if s.Len() != 4 {
		t.Fatalf("dropped too early: %d", s.Len())
	}
	s.Step()
	if s.Len() != 0 {
		t.Fatalf("len = %d after fading out", s.Len())
	}
}

func TestMaxDropsOldest(t *testing.T) {
	cfg := testConfig()
	cfg.Max = 5
	s := New(cfg, rand.New(rand.NewSource(1)))
	s.Emit(0, 0, white)
	s.Emit(100, 100, white)
	if s.Len() != 5 {
		t.Fatalf("len = %d", s.Len())
	}
	if s.Particles()[0].X != 0 || s.Particles()[1].X != 100 {
		t.Fatalf("wrong particles kept: %+v", s.Particles())
	}
}

func TestBounce(t *testing.T) {
	cfg := testConfig()
	cfg.Bounce = true
	cfg.Fade = 1
	cfg.Damping = 1
	s := New(cfg, rand.New(rand.NewSource(1)))
	s.SetBounds(100, 100)
	p := s.Spawn(98, 50, white)
	p.VX, p.VY, p.Radius = 5, 0, 2
	s.Step()
	if got := s.Particles()[0]; got.VX != -5 {
		t.Fatalf("did not bounce: %+v", got)
	}
}

func TestDeterministicWithSeed(t *testing.T) {
	a := New(testConfig(), rand.New(rand.NewSource(42)))
	b := New(testConfig(), rand.New(rand.NewSource(42)))
	a.Emit(1, 1, white)
	b.Emit(1, 1, white)
	for i := range a.Particles() {
		if a.Particles()[i] != b.Particles()[i] {
			t.Fatal("same seed produced different particles")
		}
	}
}
