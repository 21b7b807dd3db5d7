package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iburimskiy/wavesketch/internal/audio"
	"github.com/iburimskiy/wavesketch/internal/scale"
)

const (
	WindowWidth  = 1024
	WindowHeight = 512

	VisualRingSize  = 8192
	SmoothingFactor = 0.6
	SpectrumBands   = 64
)

type Config struct {
	Window   Window   `yaml:"window"`
	Audio    Audio    `yaml:"audio"`
	Scale    Scale    `yaml:"scale"`
	Gesture  Gesture  `yaml:"gesture"`
	Palette  Palette  `yaml:"palette"`
	Rhythm   Rhythm   `yaml:"rhythm"`
	Playback Playback `yaml:"playback"`
	Export   Export   `yaml:"export"`
	Visual   Visual   `yaml:"visual"`
	Particle Particle `yaml:"particle"`
	Log      Log      `yaml:"log"`
}

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Audio.Volume is the master gain in doublings; 0 is unity.
type Audio struct {
	SampleRate   int     `yaml:"sampleRate"`
	BufferMillis int     `yaml:"bufferMillis"`
	Volume       float64 `yaml:"volume"`
}

type Scale struct {
	Name string `yaml:"name"`
}

type Gesture struct {
	ThresholdX float64 `yaml:"thresholdX"`
	ThresholdY float64 `yaml:"thresholdY"`
}

type Palette struct {
	Size       int     `yaml:"size"`
	Saturation float64 `yaml:"saturation"`
	Value      float64 `yaml:"value"`
}

type Rhythm struct {
	ToneMillis int     `yaml:"toneMillis"`
	Gain       float64 `yaml:"gain"`
	Amplitude  float64 `yaml:"amplitude"`
	Wavelength float64 `yaml:"wavelength"`
}

type Playback struct {
	ToneMillis int     `yaml:"toneMillis"`
	Gain       float64 `yaml:"gain"`
	Waveform   string  `yaml:"waveform"`
}

type Export struct {
	Gain float64 `yaml:"gain"`
	// Dir is where the save dialog starts. Empty means the working directory.
	Dir string `yaml:"dir"`
	// Headless writes straight into Dir without a dialog.
	Headless bool `yaml:"headless"`
}

type Visual struct {
	RingSize  int     `yaml:"ringSize"`
	Smoothing float64 `yaml:"smoothing"`
	Bands     int     `yaml:"bands"`
}

type Particle struct {
	EmitPerTick int     `yaml:"emitPerTick"`
	Speed       float64 `yaml:"speed"`
	Damping     float64 `yaml:"damping"`
	Spin        float64 `yaml:"spin"`
	Fade        float64 `yaml:"fade"`
	MinAlpha    float64 `yaml:"minAlpha"`
	MinRadius   float64 `yaml:"minRadius"`
	MaxRadius   float64 `yaml:"maxRadius"`
	Max         int     `yaml:"max"`
}

type Log struct {
	Debug bool   `yaml:"debug"`
	Dir   string `yaml:"dir"`
}

func Default() Config {
	return Config{
		Window: Window{Width: WindowWidth, Height: WindowHeight, Title: "wavesketch"},
		Audio:  Audio{SampleRate: 44100, BufferMillis: 50},
		Scale:  Scale{Name: "chromatic"},
		Gesture: Gesture{
			ThresholdX: 8,
			ThresholdY: 8,
		},
		Palette: Palette{Size: 8, Saturation: 0.65, Value: 0.95},
		Rhythm: Rhythm{
			ToneMillis: 180,
			Gain:       0.25,
			Amplitude:  40,
			Wavelength: 80,
		},
		Playback: Playback{ToneMillis: 350, Gain: 0.3, Waveform: "sine"},
		Export:   Export{Gain: 0.3},
		Visual: Visual{
			RingSize:  VisualRingSize,
			Smoothing: SmoothingFactor,
			Bands:     SpectrumBands,
		},
		Particle: Particle{
			EmitPerTick: 3,
			Speed:       1.6,
			Damping:     0.96,
			Spin:        0.02,
			Fade:        0.97,
			MinAlpha:    0.03,
			MinRadius:   1.5,
			MaxRadius:   4,
			Max:         400,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result. Unknown keys
// are rejected so typos don't pass silently.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.sampleRate %d must be positive", c.Audio.SampleRate))
	}
	if c.Audio.BufferMillis <= 0 {
		errs = append(errs, fmt.Errorf("audio.bufferMillis %d must be positive", c.Audio.BufferMillis))
	}
	if c.Scale.Name == "" {
		errs = append(errs, errors.New("scale.name is empty"))
	} else if _, err := scale.ByName(c.Scale.Name); err != nil {
		errs = append(errs, err)
	}
	if c.Gesture.ThresholdX < 0 || c.Gesture.ThresholdY < 0 {
		errs = append(errs, errors.New("gesture thresholds must not be negative"))
	}
	if c.Palette.Size < 1 {
		errs = append(errs, fmt.Errorf("palette.size %d must be at least 1", c.Palette.Size))
	}
	if _, err := audio.ParseWaveform(c.Playback.Waveform); err != nil {
		errs = append(errs, err)
	}
	if c.Rhythm.ToneMillis <= 0 || c.Playback.ToneMillis <= 0 {
		errs = append(errs, errors.New("tone lengths must be positive"))
	}
	if c.Visual.RingSize <= 0 || c.Visual.Bands <= 0 {
		errs = append(errs, errors.New("visual.ringSize and visual.bands must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (a Audio) Buffer() time.Duration {
	return time.Duration(a.BufferMillis) * time.Millisecond
}

func (r Rhythm) ToneLen() time.Duration {
	return time.Duration(r.ToneMillis) * time.Millisecond
}

func (p Playback) ToneLen() time.Duration {
	return time.Duration(p.ToneMillis) * time.Millisecond
}
