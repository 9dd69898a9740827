// Package announcer turns navigation context into speech.
//
// The announcer is the gate between the analysis loop, which produces a
// guidance phrase for every frame, and the speaker, which must not repeat
// itself thirty times a second. A phrase is only spoken when the guidance
// text or the safety verdict changes. Unsafe scenes are announced in two
// stages: the warning is spoken immediately at a faster rate, then after a
// short pause the detailed guidance follows, unless a newer scene has
// arrived in the meantime.
package announcer

import (
	"context"
	"sync"
	"time"

	"github.com/wayfinder-ai/go-wayfinder/internal/log"
	"github.com/wayfinder-ai/go-wayfinder/pkg/audio"
	"github.com/wayfinder-ai/go-wayfinder/pkg/guidance"
	"github.com/wayfinder-ai/go-wayfinder/pkg/tts"
)

// State identifies what the announcer is doing.
type State int

const (
	// StateIdle means nothing is being spoken or scheduled.
	StateIdle State = iota
	// StateSpeakingUrgent means a safety warning is being spoken.
	StateSpeakingUrgent
	// StateWaitingGap means the post-warning pause is running.
	StateWaitingGap
	// StateSpeakingNormal means guidance is being spoken.
	StateSpeakingNormal
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSpeakingUrgent:
		return "speaking_urgent"
	case StateWaitingGap:
		return "waiting_gap"
	case StateSpeakingNormal:
		return "speaking_normal"
	default:
		return "unknown"
	}
}

// Config holds announcer tuning.
type Config struct {
	// GuidanceDelay is the pause between an urgent warning and the
	// guidance that follows it.
	GuidanceDelay time.Duration

	// UrgentRate is the speech rate multiplier for safety warnings.
	UrgentRate float64

	// NormalRate is the speech rate multiplier for guidance.
	NormalRate float64

	// SynthesisTimeout bounds each synthesis request.
	SynthesisTimeout time.Duration
}

// DefaultConfig returns announcer defaults.
func DefaultConfig() Config {
	return Config{
		GuidanceDelay:    2 * time.Second,
		UrgentRate:       1.15,
		NormalRate:       1.0,
		SynthesisTimeout: 10 * time.Second,
	}
}

// Announcer speaks navigation context changes.
type Announcer struct {
	provider tts.Provider
	player   audio.Player
	cfg      Config

	mu           sync.Mutex
	state        State
	lastGuidance string
	lastSafe     bool
	spokenOnce   bool
	gapTimer     *time.Timer

	// generation invalidates in-flight speech and pending timers when a
	// newer scene arrives or the announcer shuts down.
	generation uint64
}

// New creates an announcer speaking through the given provider and player.
func New(provider tts.Provider, player audio.Player, cfg Config) *Announcer {
	if cfg.GuidanceDelay == 0 {
		cfg.GuidanceDelay = DefaultConfig().GuidanceDelay
	}
	if cfg.UrgentRate == 0 {
		cfg.UrgentRate = DefaultConfig().UrgentRate
	}
	if cfg.NormalRate == 0 {
		cfg.NormalRate = DefaultConfig().NormalRate
	}
	if cfg.SynthesisTimeout == 0 {
		cfg.SynthesisTimeout = DefaultConfig().SynthesisTimeout
	}
	return &Announcer{
		provider: provider,
		player:   player,
		cfg:      cfg,
	}
}

// Announce speaks the scene if it differs from the last spoken one.
// Identical consecutive scenes are silent. A scene counts as changed when
// either the guidance text or the safety verdict differs.
func (a *Announcer) Announce(ctx context.Context, nav guidance.NavigationContext) {
	a.mu.Lock()

	changed := !a.spokenOnce || nav.Guidance != a.lastGuidance || nav.SafeToMove != a.lastSafe
	if !changed {
		a.mu.Unlock()
		return
	}

	a.generation++
	gen := a.generation
	a.stopGapTimerLocked()
	a.lastGuidance = nav.Guidance
	a.lastSafe = nav.SafeToMove
	a.spokenOnce = true

	urgent := !nav.SafeToMove && nav.Warning != ""
	a.mu.Unlock()

	if urgent {
		followup := nav.Guidance
		a.speak(ctx, gen, nav.Warning, a.cfg.UrgentRate, StateSpeakingUrgent, func() {
			a.scheduleGuidance(gen, followup)
		})
		return
	}

	if nav.Guidance == "" {
		return
	}
	a.speak(ctx, gen, nav.Guidance, a.cfg.NormalRate, StateSpeakingNormal, nil)
}

// State returns the current announcer state.
func (a *Announcer) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// LastSpoken returns the guidance and safety verdict last announced.
func (a *Announcer) LastSpoken() (guidanceText string, safe bool, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastGuidance, a.lastSafe, a.spokenOnce
}

// Shutdown cancels pending speech and stops playback.
func (a *Announcer) Shutdown() {
	a.mu.Lock()
	a.generation++
	a.stopGapTimerLocked()
	a.state = StateIdle
	a.mu.Unlock()

	a.player.Stop()
}

// speak synthesizes text and plays it, unless a newer scene supersedes it
// while synthesis is in flight. Synthesis failure is logged and swallowed;
// the spoken record is cleared so the phrase retries on the next frame.
func (a *Announcer) speak(ctx context.Context, gen uint64, text string, rate float64, state State, onDone func()) {
	synthCtx, cancel := context.WithTimeout(ctx, a.cfg.SynthesisTimeout)
	defer cancel()

	result, err := a.provider.Synthesize(synthCtx, text)
	if err != nil {
		log.Warn("speech synthesis failed", "error", err, "chars", len(text))
		a.mu.Lock()
		if a.generation == gen {
			a.spokenOnce = false
			a.state = StateIdle
		}
		a.mu.Unlock()
		return
	}

	a.mu.Lock()
	if a.generation != gen {
		a.mu.Unlock()
		return
	}
	a.state = state
	a.mu.Unlock()

	a.player.Stop()
	err = a.player.Play(result, rate, func() {
		a.mu.Lock()
		if a.generation != gen {
			a.mu.Unlock()
			return
		}
		a.state = StateIdle
		a.mu.Unlock()

		if onDone != nil {
			onDone()
		}
	})
	if err != nil {
		log.Warn("speech playback failed", "error", err)
		a.mu.Lock()
		if a.generation == gen {
			a.state = StateIdle
		}
		a.mu.Unlock()
	}
}

// scheduleGuidance starts the post-warning pause, after which the guidance
// is spoken at normal rate. A newer scene cancels the pending guidance.
func (a *Announcer) scheduleGuidance(gen uint64, text string) {
	if text == "" {
		return
	}

	a.mu.Lock()
	if a.generation != gen {
		a.mu.Unlock()
		return
	}
	a.state = StateWaitingGap
	a.gapTimer = time.AfterFunc(a.cfg.GuidanceDelay, func() {
		a.mu.Lock()
		if a.generation != gen {
			a.mu.Unlock()
			return
		}
		a.gapTimer = nil
		a.mu.Unlock()

		a.speak(context.Background(), gen, text, a.cfg.NormalRate, StateSpeakingNormal, nil)
	})
	a.mu.Unlock()
}

func (a *Announcer) stopGapTimerLocked() {
	if a.gapTimer != nil {
		a.gapTimer.Stop()
		a.gapTimer = nil
	}
}
