package gesture

// Board keeps finished gestures for redisplay and replay until cleared.
type Board struct {
	gestures []*Gesture
}

// Add stores a finished gesture. Empty gestures are ignored.
func (b *Board) Add(g *Gesture) {
	if g == nil || g.Len() == 0 {
		return
	}
	b.gestures = append(b.gestures, g)
}

// Last returns the most recently added gesture.
func (b *Board) Last() (*Gesture, bool) {
	if len(b.gestures) == 0 {
		return nil, false
	}
	return b.gestures[len(b.gestures)-1], true
}

func (b *Board) All() []*Gesture { return append([]*Gesture(nil), b.gestures...) }

func (b *Board) Len() int { return len(b.gestures) }

func (b *Board) Clear() { b.gestures = nil }
