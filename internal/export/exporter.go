package export

import (
	"errors"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/iburimskiy/wavesketch/internal/gesture"
)

// Result describes what an export did. A zero Result with a nil error means
// nothing happened: the gesture was empty or the user canceled.
type Result struct {
	Path string
	Size int
}

// Saved reports whether a file was written.
func (r Result) Saved() bool { return r.Path != "" }

// String is a short status line such as "arpeggiation.wav (106 kB)".
func (r Result) String() string {
	if !r.Saved() {
		return ""
	}
	return r.Path + " (" + humanize.Bytes(uint64(r.Size)) + ")"
}

// Exporter renders gestures and hands them to a Saver.
type Exporter struct {
	saver      Saver
	sampleRate int
	gain       float64
	log        *zap.Logger
}

func NewExporter(saver Saver, sampleRate int, gain float64, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{saver: saver, sampleRate: sampleRate, gain: gain, log: log}
}

// WAV exports the gesture's notes as audio. Empty input is a no-op.
func (e *Exporter) WAV(points []gesture.Point) (Result, error) {
	f, ok := WAV(points, e.sampleRate, e.gain)
	if !ok {
		return Result{}, nil
	}
	return e.save(f)
}

// MIDI exports the gesture's notes as a MIDI file. Empty input is a no-op.
func (e *Exporter) MIDI(points []gesture.Point) (Result, error) {
	f, ok, err := MIDI(points)
	if err != nil || !ok {
		return Result{}, err
	}
	return e.save(f)
}

func (e *Exporter) save(f File) (Result, error) {
	path, err := e.saver.Save(f)
	if errors.Is(err, ErrCanceled) {
		e.log.Info("export canceled", zap.String("file", f.Name))
		return Result{}, nil
	}
	if err != nil {
		e.log.Error("export failed", zap.String("file", f.Name), zap.Error(err))
		return Result{}, err
	}
	e.log.Info("export saved",
		zap.String("path", path),
		zap.String("mime", f.MIMEType),
		zap.String("size", humanize.Bytes(uint64(len(f.Data)))))
	return Result{Path: path, Size: len(f.Data)}, nil
}
