// Package wav writes canonical 44-byte-header PCM WAVE files.
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	HeaderSize    = 44
	BitsPerSample = 16
	formatPCM     = 1
	fmtChunkSize  = 16
)

// Header is the decoded canonical header.
type Header struct {
	RIFFSize      uint32
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataSize      uint32
}

// Frames is the number of sample frames in the data chunk.
func (h Header) Frames() int {
	if h.BlockAlign == 0 {
		return 0
	}
	return int(h.DataSize) / int(h.BlockAlign)
}

// Duration is the playing time of the data chunk.
func (h Header) Duration() time.Duration {
	if h.SampleRate == 0 {
		return 0
	}
	return time.Duration(h.Frames()) * time.Second / time.Duration(h.SampleRate)
}

var ErrNotWAV = errors.New("wav: not a canonical PCM WAVE file")

// Quantize converts a float sample to 16-bit PCM. Negative values scale by
// 32768 and positive by 32767, so -1 and 1 both reach full scale.
func Quantize(s float64) int16 {
	if s < -1 {
		s = -1
	} else if s > 1 {
		s = 1
	}
	if s < 0 {
		return int16(math.Round(s * 32768))
	}
	return int16(math.Round(s * 32767))
}

// Encode serializes mono samples as a 16-bit PCM WAVE file.
func Encode(samples []float64, sampleRate int) []byte {
	return EncodeChannels([][]float64{samples}, sampleRate)
}

// EncodeChannels serializes one slice per channel, interleaved. Channels
// shorter than the first are padded with silence.
func EncodeChannels(channels [][]float64, sampleRate int) []byte {
	numChan := len(channels)
	if numChan == 0 {
		numChan = 1
		channels = [][]float64{nil}
	}
	frames := len(channels[0])
	dataSize := frames * numChan * 2
	total := HeaderSize + dataSize
	out := make([]byte, total)

	copy(out[0:], "RIFF")
	binary.LittleEndian.PutUint32(out[4:], uint32(total-8))
	copy(out[8:], "WAVE")
	copy(out[12:], "fmt ")
	binary.LittleEndian.PutUint32(out[16:], fmtChunkSize)
	binary.LittleEndian.PutUint16(out[20:], formatPCM)
	binary.LittleEndian.PutUint16(out[22:], uint16(numChan))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(sampleRate*numChan*2))
	binary.LittleEndian.PutUint16(out[32:], uint16(numChan*2))
	binary.LittleEndian.PutUint16(out[34:], BitsPerSample)
	copy(out[36:], "data")
	binary.LittleEndian.PutUint32(out[40:], uint32(total-HeaderSize))

	off := HeaderSize
	for i := 0; i < frames; i++ {
		for _, ch := range channels {
			var s float64
			if i < len(ch) {
				s = ch[i]
			}
			binary.LittleEndian.PutUint16(out[off:], uint16(Quantize(s)))
			off += 2
		}
	}
	return out
}

// ParseHeader reads the canonical header from the start of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrNotWAV, len(b))
	}
	if !bytes.Equal(b[0:4], []byte("RIFF")) || !bytes.Equal(b[8:12], []byte("WAVE")) ||
		!bytes.Equal(b[12:16], []byte("fmt ")) || !bytes.Equal(b[36:40], []byte("data")) {
		return Header{}, ErrNotWAV
	}
	h := Header{
		RIFFSize:      binary.LittleEndian.Uint32(b[4:]),
		AudioFormat:   binary.LittleEndian.Uint16(b[20:]),
		Channels:      binary.LittleEndian.Uint16(b[22:]),
		SampleRate:    binary.LittleEndian.Uint32(b[24:]),
		ByteRate:      binary.LittleEndian.Uint32(b[28:]),
		BlockAlign:    binary.LittleEndian.Uint16(b[32:]),
		BitsPerSample: binary.LittleEndian.Uint16(b[34:]),
		DataSize:      binary.LittleEndian.Uint32(b[40:]),
	}
	if binary.LittleEndian.Uint32(b[16:]) != fmtChunkSize || h.AudioFormat != formatPCM {
		return h, fmt.Errorf("%w: format %d", ErrNotWAV, h.AudioFormat)
	}
	return h, nil
}

// Samples decodes the PCM payload of a file produced by Encode back into
// 16-bit values, interleaved.
func Samples(b []byte) ([]int16, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}
	payload := b[HeaderSize:]
	if int(h.DataSize) < len(payload) {
		payload = payload[:h.DataSize]
	}
	out := make([]int16, len(payload)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(payload[2*i:]))
	}
	return out, nil
}
