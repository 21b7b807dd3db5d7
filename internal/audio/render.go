package audio

import "github.com/faiface/beep"

const renderChunk = 512

// Render mixes tones offline into exactly length mono samples. Nothing here
// touches an audio device.
func Render(tones []Tone, sampleRate, length int) []float64 {
	if length <= 0 {
		return nil
	}
	var mixer beep.Mixer
	for _, t := range tones {
		mixer.Add(t.Streamer(sampleRate))
	}
	out := make([]float64, length)
	buf := make([][2]float64, renderChunk)
	for pos := 0; pos < length; {
		n := len(buf)
		if rest := length - pos; rest < n {
			n = rest
		}
		mixer.Stream(buf[:n])
		for i := 0; i < n; i++ {
			out[pos+i] = buf[i][0]
		}
		pos += n
	}
	return out
}
