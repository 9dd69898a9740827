package audio

import (
	"encoding/binary"

	"github.com/gopxl/beep/v2"

	"github.com/wayfinder-ai/go-wayfinder/pkg/tts"
)

// pcmStreamer adapts a raw PCM16 mono buffer to beep.StreamSeeker.
type pcmStreamer struct {
	data []byte
	pos  int // byte offset, always even
}

const pcmBytesPerSample = 2

func newPCMStreamer(data []byte) *pcmStreamer {
	// Drop a trailing half sample rather than stream garbage.
	if len(data)%pcmBytesPerSample != 0 {
		data = data[:len(data)-1]
	}
	return &pcmStreamer{data: data}
}

func (s *pcmStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) && s.pos < len(s.data) {
		raw := int16(binary.LittleEndian.Uint16(s.data[s.pos:]))
		v := float64(raw) / (1 << 15)
		samples[n][0] = v
		samples[n][1] = v
		s.pos += pcmBytesPerSample
		n++
	}
	return n, n > 0
}

func (s *pcmStreamer) Err() error {
	return nil
}

func (s *pcmStreamer) Len() int {
	return len(s.data) / pcmBytesPerSample
}

func (s *pcmStreamer) Position() int {
	return s.pos / pcmBytesPerSample
}

func (s *pcmStreamer) Seek(p int) error {
	s.pos = p * pcmBytesPerSample
	return nil
}

// pcmFormat maps synthesis metadata onto a beep format.
func pcmFormat(f tts.AudioFormat) beep.Format {
	rate := f.SampleRate
	if rate == 0 {
		rate = tts.SampleRateFromEncoding(f.Encoding)
	}
	return beep.Format{
		SampleRate:  beep.SampleRate(rate),
		NumChannels: 1,
		Precision:   2,
	}
}

var _ beep.StreamSeeker = (*pcmStreamer)(nil)
