// Package pipeline runs the capture and inference loop.
//
// Frames flow from a camera source through the detector into enriched
// navigation context. Inference is the slow stage, so the pipeline keeps
// exactly one inference in flight and drops frames that arrive while it is
// busy. Dropping is deliberate: a stale frame is worse than no frame, and
// queueing would only grow latency.
package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wayfinder-ai/go-wayfinder/internal/log"
	"github.com/wayfinder-ai/go-wayfinder/pkg/camera"
	"github.com/wayfinder-ai/go-wayfinder/pkg/detection"
	"github.com/wayfinder-ai/go-wayfinder/pkg/guidance"
)

// ResultKind discriminates pipeline results.
type ResultKind int

const (
	// KindReady is emitted once when the pipeline starts.
	KindReady ResultKind = iota
	// KindDetections carries the navigation context for one frame.
	KindDetections
	// KindFailure reports a detector error. The pipeline keeps running.
	KindFailure
)

// String returns a human-readable kind name.
func (k ResultKind) String() string {
	switch k {
	case KindReady:
		return "ready"
	case KindDetections:
		return "detections"
	case KindFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Result is one pipeline output. Exactly one of the payload fields is
// meaningful, selected by Kind.
type Result struct {
	Kind ResultKind

	// Nav is set for KindDetections.
	Nav guidance.NavigationContext

	// Err is set for KindFailure.
	Err error
}

// Stats is a snapshot of pipeline counters.
type Stats struct {
	FramesCaptured uint64
	FramesDropped  uint64
	Inferences     uint64
	Failures       uint64
}

// Pipeline couples a frame source to a detector.
type Pipeline struct {
	source   camera.Source
	detector detection.Detector
	cfg      Config

	frames  chan camera.Frame
	results chan Result

	framesCaptured atomic.Uint64
	framesDropped  atomic.Uint64
	inferences     atomic.Uint64
	failures       atomic.Uint64

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex
}

// New creates a pipeline. Start must be called before results flow.
func New(source camera.Source, detector detection.Detector, cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		source:   source,
		detector: detector,
		cfg:      cfg,
		frames:   make(chan camera.Frame, 1),
		results:  make(chan Result, cfg.ResultBuffer),
	}, nil
}

// Results returns the output channel. It is closed by Stop.
func (p *Pipeline) Results() <-chan Result {
	return p.results
}

// Stats returns a counter snapshot.
func (p *Pipeline) Stats() Stats {
	return Stats{
		FramesCaptured: p.framesCaptured.Load(),
		FramesDropped:  p.framesDropped.Load(),
		Inferences:     p.inferences.Load(),
		Failures:       p.failures.Load(),
	}
}

// Start launches the capture and inference loops.
func (p *Pipeline) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.emit(Result{Kind: KindReady})

	p.wg.Add(2)
	go p.captureLoop(runCtx)
	go p.inferLoop(runCtx)

	log.Info("pipeline started", "min_interval", p.cfg.MinInterval)
}

// Stop shuts down the loops and closes the results channel.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	if !p.started || p.cancel == nil {
		p.mu.Unlock()
		return
	}
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	cancel()
	p.wg.Wait()
	close(p.results)

	stats := p.Stats()
	log.Info("pipeline stopped",
		"frames_captured", stats.FramesCaptured,
		"frames_dropped", stats.FramesDropped,
		"inferences", stats.Inferences,
	)
}

// captureLoop pulls frames from the source as fast as it produces them.
// When the inference loop is busy the frame is dropped on the floor.
func (p *Pipeline) captureLoop(ctx context.Context) {
	defer p.wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}

		frame, err := p.source.NextFrame(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn("frame source error", "error", err)
			select {
			case <-time.After(p.cfg.SourceRetryDelay):
			case <-ctx.Done():
				return
			}
			continue
		}

		p.framesCaptured.Add(1)
		if p.cfg.OnFrame != nil {
			p.cfg.OnFrame(frame)
		}

		select {
		case p.frames <- frame:
		default:
			p.framesDropped.Add(1)
		}
	}
}

// inferLoop runs detection on at most one frame at a time, spaced at least
// MinInterval apart.
func (p *Pipeline) inferLoop(ctx context.Context) {
	defer p.wg.Done()

	var lastRun time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-p.frames:
			if since := time.Since(lastRun); since < p.cfg.MinInterval {
				p.framesDropped.Add(1)
				continue
			}
			lastRun = time.Now()

			p.runInference(ctx, frame)
		}
	}
}

func (p *Pipeline) runInference(ctx context.Context, frame camera.Frame) {
	result, err := p.detector.Detect(ctx, frame.JPEG)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.failures.Add(1)
		log.Warn("detection failed", "error", err)
		p.emit(Result{Kind: KindFailure, Err: err})
		return
	}

	p.inferences.Add(1)

	width := result.FrameWidth
	if width == 0 {
		width = frame.Width
	}

	objects := guidance.EnrichAll(result.Observations(), width)
	nav := guidance.Analyze(objects)

	p.emit(Result{Kind: KindDetections, Nav: nav})
}

// emit delivers a result without ever blocking the inference loop. When
// the consumer lags, the oldest unread result is discarded.
func (p *Pipeline) emit(r Result) {
	select {
	case p.results <- r:
		return
	default:
	}

	select {
	case <-p.results:
	default:
	}

	select {
	case p.results <- r:
	default:
	}
}
