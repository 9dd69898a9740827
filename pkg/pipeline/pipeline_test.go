package pipeline_test

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/wayfinder-ai/go-wayfinder/pkg/camera"
	"github.com/wayfinder-ai/go-wayfinder/pkg/detection"
	"github.com/wayfinder-ai/go-wayfinder/pkg/pipeline"
)

// slowStub produces a frame every interval.
func slowStub(interval time.Duration) *camera.Stub {
	return &camera.Stub{
		NextFrameFunc: func(ctx context.Context) (camera.Frame, error) {
			select {
			case <-time.After(interval):
				return camera.Frame{JPEG: []byte{0xFF, 0xD8}, Width: 640, Timestamp: time.Now()}, nil
			case <-ctx.Done():
				return camera.Frame{}, ctx.Err()
			}
		},
	}
}

func testConfig() pipeline.Config {
	cfg := pipeline.DefaultConfig()
	cfg.MinInterval = 0
	cfg.SourceRetryDelay = time.Millisecond
	return cfg
}

// nextResult reads one result or fails the test.
func nextResult(t *testing.T, p *pipeline.Pipeline) pipeline.Result {
	t.Helper()
	select {
	case r, ok := <-p.Results():
		if !ok {
			t.Fatal("results channel closed early")
		}
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for result")
		return pipeline.Result{}
	}
}

func TestReadyEmittedFirst(t *testing.T) {
	p, err := pipeline.New(slowStub(time.Millisecond), detection.NewMock(640), testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	p.Start(context.Background())
	defer p.Stop()

	if r := nextResult(t, p); r.Kind != pipeline.KindReady {
		t.Errorf("first result Kind = %v, want %v", r.Kind, pipeline.KindReady)
	}
}

func TestDetectionsCarryGuidance(t *testing.T) {
	person := detection.Object{
		Label:      "person",
		Confidence: 0.9,
		Box:        image.Rect(280, 100, 360, 400),
		HasBox:     true,
	}
	p, err := pipeline.New(slowStub(time.Millisecond), detection.NewMock(640, person), testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	p.Start(context.Background())
	defer p.Stop()

	for {
		r := nextResult(t, p)
		if r.Kind != pipeline.KindDetections {
			continue
		}
		if !strings.Contains(r.Nav.Guidance, "person") {
			t.Errorf("Guidance = %q, want mention of person", r.Nav.Guidance)
		}
		if !r.Nav.SafeToMove {
			t.Error("SafeToMove = false, want true for a person-only scene")
		}
		if len(r.Nav.Objects) != 1 {
			t.Errorf("Objects = %d, want 1", len(r.Nav.Objects))
		}
		return
	}
}

func TestDetectorFailureEmitted(t *testing.T) {
	boom := errors.New("inference blew up")
	det := &detection.Mock{
		DetectFunc: func(ctx context.Context, jpeg []byte) (detection.Result, error) {
			return detection.Result{}, boom
		},
	}

	p, err := pipeline.New(slowStub(time.Millisecond), det, testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	p.Start(context.Background())
	defer p.Stop()

	for {
		r := nextResult(t, p)
		if r.Kind != pipeline.KindFailure {
			continue
		}
		if !errors.Is(r.Err, boom) {
			t.Errorf("Err = %v, want %v", r.Err, boom)
		}
		return
	}
}

func TestMinIntervalLimitsInference(t *testing.T) {
	det := detection.NewMock(640)
	cfg := testConfig()
	cfg.MinInterval = 250 * time.Millisecond

	p, err := pipeline.New(slowStub(time.Millisecond), det, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	p.Start(context.Background())
	time.Sleep(300 * time.Millisecond)
	p.Stop()

	// At 250ms spacing over 300ms, at most two inferences fit.
	if calls := det.Calls(); calls > 2 {
		t.Errorf("Detect calls = %d, want at most 2", calls)
	}
	if stats := p.Stats(); stats.FramesDropped == 0 {
		t.Error("FramesDropped = 0, want frames dropped while throttled")
	}
}

func TestFramesDroppedWhileBusy(t *testing.T) {
	det := &detection.Mock{
		DetectFunc: func(ctx context.Context, jpeg []byte) (detection.Result, error) {
			select {
			case <-time.After(100 * time.Millisecond):
			case <-ctx.Done():
				return detection.Result{}, ctx.Err()
			}
			return detection.Result{FrameWidth: 640}, nil
		},
	}

	p, err := pipeline.New(slowStub(time.Millisecond), det, testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	p.Start(context.Background())
	time.Sleep(250 * time.Millisecond)
	p.Stop()

	stats := p.Stats()
	if stats.FramesDropped == 0 {
		t.Error("FramesDropped = 0, want frames dropped during slow inference")
	}
	if stats.FramesCaptured <= stats.Inferences {
		t.Errorf("captured %d, inferences %d: capture should outpace inference",
			stats.FramesCaptured, stats.Inferences)
	}
}

func TestStopClosesResults(t *testing.T) {
	p, err := pipeline.New(slowStub(time.Millisecond), detection.NewMock(640), testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	p.Start(context.Background())
	p.Stop()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-p.Results():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("results channel never closed")
		}
	}
}

func TestStopIsIdempotent(t *testing.T) {
	p, err := pipeline.New(slowStub(time.Millisecond), detection.NewMock(640), testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	p.Start(context.Background())
	p.Stop()
	p.Stop()
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*pipeline.Config)
		wantErr bool
	}{
		{"defaults", func(c *pipeline.Config) {}, false},
		{"negative interval", func(c *pipeline.Config) { c.MinInterval = -1 }, true},
		{"zero buffer", func(c *pipeline.Config) { c.ResultBuffer = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := pipeline.DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResultKindString(t *testing.T) {
	tests := []struct {
		kind pipeline.ResultKind
		want string
	}{
		{pipeline.KindReady, "ready"},
		{pipeline.KindDetections, "detections"},
		{pipeline.KindFailure, "failure"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ResultKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
