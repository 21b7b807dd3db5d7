package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/iburimskiy/wavesketch/internal/audio"
	"github.com/iburimskiy/wavesketch/internal/config"
	"github.com/iburimskiy/wavesketch/internal/export"
	"github.com/iburimskiy/wavesketch/internal/game"
	"github.com/iburimskiy/wavesketch/internal/logging"
)

const spectrumWindow = 2048

func main() {
	configPath := flag.String("config", "wavesketch.yml", "path to a YAML config file")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *debug {
		cfg.Log.Debug = true
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Info("starting",
		zap.String("config", *configPath),
		zap.String("scale", cfg.Scale.Name),
		zap.Int("sampleRate", cfg.Audio.SampleRate),
		zap.String("logFile", log.Path))

	err = run(cfg, log.Logger)
	if err != nil {
		log.Error("wavesketch failed", zap.Error(err))
	}
	_ = log.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	tap := audio.NewTap(nil, cfg.Visual.RingSize)
	out := audio.NewOutput(cfg.Audio.SampleRate, audio.SpeakerLock{}, cfg.Audio.Volume, tap)

	var dev audio.Device = out
	if err := audio.OpenSpeaker(out, cfg.Audio.Buffer()); err != nil {
		log.Warn("no audio output, running silent", zap.Error(err))
		dev = audio.Discard{Rate: cfg.Audio.SampleRate}
		tap = nil
	} else {
		defer audio.CloseSpeaker(out)
		log.Info("audio output ready", zap.Duration("buffer", cfg.Audio.Buffer()))
	}

	var saver export.Saver = export.DialogSaver{Dir: cfg.Export.Dir}
	if cfg.Export.Headless {
		saver = export.DirSaver{Dir: cfg.Export.Dir}
	}
	exp := export.NewExporter(saver, cfg.Audio.SampleRate, cfg.Export.Gain, log)

	st, err := game.NewState(cfg, dev, exp, rand.New(rand.NewSource(time.Now().UnixNano())), log)
	if err != nil {
		return err
	}
	defer st.Close()

	window := spectrumWindow
	if cfg.Visual.RingSize < window {
		window = cfg.Visual.RingSize
	}
	g := game.New(st, tap, audio.NewSpectrum(cfg.Visual.Bands, window, cfg.Visual.Smoothing), log)

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title + " - drag to draw, Enter: save WAV, Esc/Q: quit")
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
