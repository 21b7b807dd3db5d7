// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iburimskiy/wavesketch/internal/config"
)

// Logger is a zap logger plus the file it tees into, if any.
type Logger struct {
	*zap.Logger
	Path string
	file *os.File
}

// New logs to stderr in console form. When cfg.Dir is set, every entry is also
// written as JSON to <dir>/wavesketch-<timestamp>.log.
func New(cfg config.Log) (*Logger, error) {
	return newLogger(cfg, os.Stderr, time.Now())
}

func newLogger(cfg config.Log, console io.Writer, now time.Time) (*Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if cfg.Debug {
		level.SetLevel(zapcore.DebugLevel)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(console), level),
	}

	l := &Logger{}
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		l.Path = filepath.Join(cfg.Dir, fmt.Sprintf("wavesketch-%s.log", now.Format("20060102-150405")))
		f, err := os.Create(l.Path)
		if err != nil {
			return nil, fmt.Errorf("create log file: %w", err)
		}
		l.file = f
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(f),
			level,
		))
	}

	l.Logger = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return l, nil
}

// Close flushes buffered entries and closes the log file.
func (l *Logger) Close() error {
	_ = l.Sync()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
