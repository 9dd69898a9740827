package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/wayfinder-ai/go-wayfinder/pkg/tts"
)

// Null implements Player without touching the audio device. Playback is
// simulated by waiting out the estimated duration. Used for headless
// deployments and tests.
type Null struct {
	mu      sync.Mutex
	playing bool
	cancel  chan struct{}
	volume  float64
}

// NewNull creates a silent player.
func NewNull() *Null {
	return &Null{volume: 1.0}
}

// Play simulates playback for the result's duration.
func (n *Null) Play(result *tts.AudioResult, rate float64, onComplete func()) error {
	if result == nil {
		return fmt.Errorf("audio: empty synthesis result")
	}
	if rate <= 0 {
		rate = 1.0
	}

	n.mu.Lock()
	if n.cancel != nil {
		close(n.cancel)
	}
	cancel := make(chan struct{})
	n.cancel = cancel
	n.playing = true
	n.mu.Unlock()

	duration := time.Duration(float64(result.Duration) / rate)

	go func() {
		timer := time.NewTimer(duration)
		defer timer.Stop()

		select {
		case <-timer.C:
			n.mu.Lock()
			if n.cancel == cancel {
				n.playing = false
				n.cancel = nil
			}
			n.mu.Unlock()
			if onComplete != nil {
				onComplete()
			}
		case <-cancel:
		}
	}()

	return nil
}

// Stop cancels simulated playback.
func (n *Null) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cancel != nil {
		close(n.cancel)
		n.cancel = nil
	}
	n.playing = false
}

// IsPlaying reports whether simulated playback is in progress.
func (n *Null) IsPlaying() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.playing
}

// SetVolume records the volume; it has no audible effect.
func (n *Null) SetVolume(vol float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.volume = vol
}

// Shutdown stops simulated playback.
func (n *Null) Shutdown() {
	n.Stop()
}

// Verify Null implements Player at compile time.
var _ Player = (*Null)(nil)
