package audio

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/wayfinder-ai/go-wayfinder/internal/log"
	"github.com/wayfinder-ai/go-wayfinder/pkg/tts"
)

const targetSampleRate = beep.SampleRate(48000)

// Speaker implements Player using gopxl/beep and the local audio device.
type Speaker struct {
	mu                 sync.RWMutex
	ctrl               *beep.Ctrl
	volume             float64
	speakerInitialized bool
	generation         uint64
}

// NewSpeaker creates a local speaker player.
func NewSpeaker() *Speaker {
	return &Speaker{volume: 1.0}
}

// Play decodes and plays a synthesis result, interrupting current playback.
func (s *Speaker) Play(result *tts.AudioResult, rate float64, onComplete func()) error {
	if result == nil || len(result.Audio) == 0 {
		return fmt.Errorf("audio: empty synthesis result")
	}
	if rate <= 0 {
		rate = 1.0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	streamer, format, err := decode(result)
	if err != nil {
		return err
	}

	if !s.speakerInitialized {
		if err := speaker.Init(targetSampleRate, targetSampleRate.N(time.Second/10)); err != nil {
			return fmt.Errorf("audio: speaker init: %w", err)
		}
		s.speakerInitialized = true
	}

	// Resample to the device rate; a rate above 1.0 consumes the source
	// faster, speeding up speech without reinitializing the device.
	ratio := float64(format.SampleRate) * rate / float64(targetSampleRate)
	resampled := beep.ResampleRatio(3, ratio, streamer)

	volStreamer := &effects.Volume{
		Streamer: resampled,
		Base:     2,
		Volume:   volumeToPower(s.volume),
		Silent:   s.volume <= 0.01,
	}

	ctrl := &beep.Ctrl{Streamer: volStreamer}
	s.ctrl = ctrl
	s.generation++
	gen := s.generation

	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		go func() {
			s.mu.Lock()
			// Only clear if a newer Play has not replaced us.
			if s.generation == gen {
				s.ctrl = nil
			}
			interrupted := s.generation != gen
			s.mu.Unlock()

			if !interrupted && onComplete != nil {
				onComplete()
			}
		}()
	})))

	log.Debug("playing audio", "bytes", len(result.Audio), "rate", rate)
	return nil
}

// Stop interrupts current playback without firing onComplete.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Speaker) stopLocked() {
	if s.ctrl != nil {
		// Bump the generation so the pending callback knows it was cut off.
		s.generation++
		speaker.Clear()
		s.ctrl = nil
	}
}

// IsPlaying reports whether audio is currently playing.
func (s *Speaker) IsPlaying() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctrl != nil
}

// SetVolume sets playback volume (0.0 to 1.0).
func (s *Speaker) SetVolume(vol float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = math.Max(0, math.Min(1, vol))
}

// Shutdown stops playback. The underlying device stays open; beep does
// not support re-initialization within a process.
func (s *Speaker) Shutdown() {
	s.Stop()
}

// decode picks a decoder from the synthesis format.
func decode(result *tts.AudioResult) (beep.Streamer, beep.Format, error) {
	switch result.Format.Encoding {
	case tts.EncodingMP3:
		streamer, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(result.Audio)))
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("audio: decode mp3: %w", err)
		}
		return streamer, format, nil

	case tts.EncodingPCM24:
		return newPCMStreamer(result.Audio), pcmFormat(result.Format), nil

	default:
		return nil, beep.Format{}, fmt.Errorf("audio: unsupported encoding %q", result.Format.Encoding)
	}
}

// volumeToPower maps linear 0..1 volume to the base-2 power scale beep uses.
func volumeToPower(vol float64) float64 {
	if vol <= 0.01 {
		return -10
	}
	return math.Log2(vol)
}

// Verify Speaker implements Player at compile time.
var _ Player = (*Speaker)(nil)
