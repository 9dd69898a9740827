package app

import (
	"fmt"
	"time"

	"github.com/wayfinder-ai/go-wayfinder/pkg/camera"
)

// Source modes.
const (
	SourceWebcam = "webcam"
	SourceRemote = "remote"
)

// Config holds the full application configuration.
type Config struct {
	// Debug enables verbose logging.
	Debug bool

	// SourceMode selects the frame source: webcam or remote.
	SourceMode string

	// RemoteURL is the companion feed endpoint for remote mode.
	RemoteURL string

	// Camera holds local webcam settings for webcam mode.
	Camera camera.Config

	// ModelPath is the detection model file. When empty the app runs
	// with a no-op detector and reports empty scenes.
	ModelPath string

	// Confidence is the detection confidence threshold.
	Confidence float32

	// OpenAIKey enables speech synthesis. When empty the app runs
	// silent and only the dashboard reports guidance.
	OpenAIKey string

	// TTSVoice selects the synthesis voice.
	TTSVoice string

	// Mute disables the local speaker while keeping synthesis active
	// state visible on the dashboard.
	Mute bool

	// MinInterval is the minimum time between inference runs.
	MinInterval time.Duration

	// GuidanceDelay is the pause between an urgent warning and the
	// guidance that follows it.
	GuidanceDelay time.Duration

	// WebPort is the dashboard port. Empty disables the dashboard.
	WebPort string
}

// DefaultConfig returns application defaults.
func DefaultConfig() Config {
	return Config{
		SourceMode:    SourceWebcam,
		Camera:        camera.DefaultConfig(),
		ModelPath:     "yolov8n.onnx",
		Confidence:    0.5,
		TTSVoice:      "nova",
		MinInterval:   500 * time.Millisecond,
		GuidanceDelay: 2 * time.Second,
		WebPort:       "8080",
	}
}

// Validate checks configuration sanity.
func (c Config) Validate() error {
	switch c.SourceMode {
	case SourceWebcam:
		if err := c.Camera.Validate(); err != nil {
			return err
		}
	case SourceRemote:
		if c.RemoteURL == "" {
			return fmt.Errorf("app: remote mode requires a companion URL")
		}
	default:
		return fmt.Errorf("app: unknown source mode %q", c.SourceMode)
	}
	return nil
}
