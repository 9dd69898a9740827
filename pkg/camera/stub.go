package camera

import (
	"context"
	"time"
)

// Stub implements Source for tests: it serves a fixed frame, or whatever
// NextFrameFunc returns when set.
type Stub struct {
	// NextFrameFunc overrides frame production when non-nil.
	NextFrameFunc func(ctx context.Context) (Frame, error)

	// Fixed frame served when NextFrameFunc is nil.
	JPEG  []byte
	Width int
}

// NextFrame serves the stubbed frame.
func (s *Stub) NextFrame(ctx context.Context) (Frame, error) {
	if s.NextFrameFunc != nil {
		return s.NextFrameFunc(ctx)
	}
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	return Frame{JPEG: s.JPEG, Width: s.Width, Timestamp: time.Now()}, nil
}

// Close is a no-op.
func (s *Stub) Close() error {
	return nil
}

// Verify Stub implements Source at compile time.
var _ Source = (*Stub)(nil)
