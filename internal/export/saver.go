package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ncruces/zenity"
)

// ErrCanceled is returned by a Saver when the user backs out.
var ErrCanceled = errors.New("export: canceled")

// Saver stores a file somewhere the user can reach it and returns the path.
type Saver interface {
	Save(f File) (string, error)
}

// DialogSaver asks where to save with a native dialog, suggesting the file's
// default name inside Dir.
type DialogSaver struct {
	Dir string
}

func (d DialogSaver) Save(f File) (string, error) {
	ext := filepath.Ext(f.Name)
	path, err := zenity.SelectFileSave(
		zenity.Title("Save "+f.Name),
		zenity.Filename(filepath.Join(d.Dir, f.Name)),
		zenity.ConfirmOverwrite(),
		zenity.FileFilters{{
			Name:     strings.ToUpper(strings.TrimPrefix(ext, ".")) + " (" + f.MIMEType + ")",
			Patterns: []string{"*" + ext},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", ErrCanceled
		}
		return "", fmt.Errorf("save dialog: %w", err)
	}
	if filepath.Ext(path) == "" {
		path += ext
	}
	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// DirSaver writes files under Dir with their default names.
type DirSaver struct {
	Dir string
}

func (d DirSaver) Save(f File) (string, error) {
	if d.Dir != "" {
		if err := os.MkdirAll(d.Dir, 0o755); err != nil {
			return "", fmt.Errorf("create %s: %w", d.Dir, err)
		}
	}
	path := filepath.Join(d.Dir, f.Name)
	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
