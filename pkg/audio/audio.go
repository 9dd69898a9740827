// Package audio plays synthesized speech buffers on the local speaker.
//
// Playback is fire-and-forget with an interrupt: starting a new buffer or
// calling Stop cancels whatever is currently playing, which is what a
// navigation announcer needs when an urgent warning preempts routine
// guidance.
package audio

import "github.com/wayfinder-ai/go-wayfinder/pkg/tts"

// Player defines the playback interface.
type Player interface {
	// Play starts playback of a synthesis result, interrupting any audio
	// already playing. rate is a speed multiplier (1.0 is normal; urgent
	// warnings use a slightly higher rate). onComplete is called when
	// playback finishes naturally, not when it is interrupted.
	Play(result *tts.AudioResult, rate float64, onComplete func()) error

	// Stop interrupts current playback. No-op when idle.
	Stop()

	// IsPlaying reports whether audio is currently playing.
	IsPlaying() bool

	// SetVolume sets playback volume (0.0 to 1.0).
	SetVolume(vol float64)

	// Shutdown stops playback and releases the audio device.
	Shutdown()
}
