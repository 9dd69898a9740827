package pipeline

import (
	"fmt"
	"time"

	"github.com/wayfinder-ai/go-wayfinder/pkg/camera"
)

// Config holds pipeline tuning.
type Config struct {
	// MinInterval is the minimum time between inference runs. Frames
	// arriving sooner are dropped, never queued.
	MinInterval time.Duration

	// SourceRetryDelay is how long to wait before reading again after a
	// frame source error.
	SourceRetryDelay time.Duration

	// ResultBuffer is the capacity of the results channel. When the
	// consumer falls behind, the oldest unread result is discarded.
	ResultBuffer int

	// OnFrame, when set, is invoked for every captured frame, including
	// ones the inference loop drops. Used for the dashboard preview.
	// It must not block.
	OnFrame func(frame camera.Frame)
}

// DefaultConfig returns pipeline defaults.
func DefaultConfig() Config {
	return Config{
		MinInterval:      500 * time.Millisecond,
		SourceRetryDelay: time.Second,
		ResultBuffer:     8,
	}
}

// Validate checks configuration sanity.
func (c Config) Validate() error {
	if c.MinInterval < 0 {
		return fmt.Errorf("pipeline: MinInterval must not be negative")
	}
	if c.ResultBuffer < 1 {
		return fmt.Errorf("pipeline: ResultBuffer must be at least 1")
	}
	return nil
}
