package scale

import (
	"errors"
	"fmt"
	"math"
)

// Note is one pitch of a scale.
type Note struct {
	Freq  float64
	Label string
}

// Scale is an ordered set of notes, lowest first. The top of the canvas maps
// to the last note and the bottom to the first.
type Scale struct {
	notes []Note
}

var (
	// Chromatic spans C4 to C5 in semitones.
	Chromatic = MustNew(
		Note{261.63, "C4"},
		Note{277.18, "C#4"},
		Note{293.66, "D4"},
		Note{311.13, "D#4"},
		Note{329.63, "E4"},
		Note{349.23, "F4"},
		Note{369.99, "F#4"},
		Note{392.00, "G4"},
		Note{415.30, "G#4"},
		Note{440.00, "A4"},
		Note{466.16, "A#4"},
		Note{493.88, "B4"},
		Note{523.25, "C5"},
	)

	// Diatonic is C major from C4 to C5.
	Diatonic = MustNew(
		Note{261.63, "C4"},
		Note{293.66, "D4"},
		Note{329.63, "E4"},
		Note{349.23, "F4"},
		Note{392.00, "G4"},
		Note{440.00, "A4"},
		Note{493.88, "B4"},
		Note{523.25, "C5"},
	)

	ErrEmpty     = errors.New("scale: no notes")
	ErrUnordered = errors.New("scale: frequencies must strictly increase")
)

// New builds a scale from notes given low to high.
func New(notes ...Note) (Scale, error) {
	if len(notes) == 0 {
		return Scale{}, ErrEmpty
	}
	for i, n := range notes {
		if !(n.Freq > 0) {
			return Scale{}, fmt.Errorf("scale: note %q has non-positive frequency %v", n.Label, n.Freq)
		}
		if i > 0 && n.Freq <= notes[i-1].Freq {
			return Scale{}, fmt.Errorf("%w: %s after %s", ErrUnordered, n.Label, notes[i-1].Label)
		}
	}
	return Scale{notes: append([]Note(nil), notes...)}, nil
}

// MustNew is like New but panics on invalid input.
func MustNew(notes ...Note) Scale {
	s, err := New(notes...)
	if err != nil {
		panic(err)
	}
	return s
}

// ByName returns one of the built-in scales.
func ByName(name string) (Scale, error) {
	switch name {
	case "", "chromatic":
		return Chromatic, nil
	case "diatonic":
		return Diatonic, nil
	}
	return Scale{}, fmt.Errorf("scale: unknown scale %q", name)
}

func (s Scale) Len() int { return len(s.notes) }

// Notes returns a copy of the notes, lowest first.
func (s Scale) Notes() []Note { return append([]Note(nil), s.notes...) }

// Note returns the note at index i.
func (s Scale) Note(i int) Note { return s.notes[i] }

// Contains reports whether freq is exactly one of the scale's frequencies.
func (s Scale) Contains(freq float64) bool {
	for _, n := range s.notes {
		if n.Freq == freq {
			return true
		}
	}
	return false
}

// Index maps a vertical canvas coordinate to a note index. Up is higher
// pitch. Coordinates outside [0, height] clamp to the nearest end.
func (s Scale) Index(y, height float64) int {
	n := len(s.notes)
	if n == 0 || !(height > 0) {
		return 0
	}
	idx := int(math.Floor((height - y) / height * float64(n)))
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}

// Quantize returns the note for y on a canvas of the given height.
func (s Scale) Quantize(y, height float64) Note {
	return s.notes[s.Index(y, height)]
}

// Snap quantizes y and also returns the y of the center of that note's band.
func (s Scale) Snap(y, height float64) (Note, float64) {
	idx := s.Index(y, height)
	return s.notes[idx], s.RowY(idx, height)
}

// RowY is the center y of band idx.
func (s Scale) RowY(idx int, height float64) float64 {
	band := height / float64(len(s.notes))
	return height - (float64(idx)+0.5)*band
}
