package detection

import (
	"context"
	"sync"
)

// Mock implements Detector for testing and for running the pipeline
// without a model file.
type Mock struct {
	// DetectFunc is called when Detect is invoked.
	// If nil, returns an empty result.
	DetectFunc func(ctx context.Context, jpeg []byte) (Result, error)

	mu    sync.Mutex
	calls int
}

// NewMock creates a mock that always reports the given objects.
func NewMock(frameWidth int, objects ...Object) *Mock {
	return &Mock{
		DetectFunc: func(ctx context.Context, jpeg []byte) (Result, error) {
			return Result{Objects: objects, FrameWidth: frameWidth}, nil
		},
	}
}

// Detect calls DetectFunc and counts the call.
func (m *Mock) Detect(ctx context.Context, jpeg []byte) (Result, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.DetectFunc != nil {
		return m.DetectFunc(ctx, jpeg)
	}
	return Result{}, nil
}

// Close is a no-op.
func (m *Mock) Close() error {
	return nil
}

// Calls returns how many times Detect was invoked.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Verify Mock implements Detector at compile time.
var _ Detector = (*Mock)(nil)
