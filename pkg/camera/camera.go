// Package camera provides frame sources for the guidance pipeline.
package camera

import (
	"context"
	"time"
)

// Frame is one captured image ready for inference.
type Frame struct {
	// JPEG is the encoded image.
	JPEG []byte
	// Width is the source image's pixel width, needed downstream for
	// direction normalization.
	Width int
	// Timestamp is the capture time.
	Timestamp time.Time
}

// Source is the interface for frame producers: a local webcam, a remote
// companion device, or a test stub.
type Source interface {
	// NextFrame blocks until a frame is available or the context is done.
	NextFrame(ctx context.Context) (Frame, error)

	// Close releases the capture device.
	Close() error
}

// Device describes an available capture device. The device list is an
// explicit value returned by enumeration at startup and passed into
// configuration; nothing is stored globally.
type Device struct {
	ID   int
	Name string
}
