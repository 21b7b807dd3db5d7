package audio

import (
	"fmt"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// SpeakerLock is the sync.Locker guarding everything the speaker streams.
type SpeakerLock struct{}

func (SpeakerLock) Lock()   { speaker.Lock() }
func (SpeakerLock) Unlock() { speaker.Unlock() }

// OpenSpeaker initializes the sound card once and starts streaming the
// output's master signal. Build the Output with SpeakerLock.
func OpenSpeaker(o *Output, buffer time.Duration) error {
	sr := beep.SampleRate(o.SampleRate())
	if err := speaker.Init(sr, sr.N(buffer)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(o.Streamer())
	return nil
}

// CloseSpeaker stops playback and releases the sound card.
func CloseSpeaker(o *Output) {
	o.Clear()
	speaker.Clear()
	speaker.Close()
}
