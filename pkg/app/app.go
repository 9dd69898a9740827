// Package app wires the frame source, detector, announcer and dashboard
// into a running application.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/wayfinder-ai/go-wayfinder/internal/log"
	"github.com/wayfinder-ai/go-wayfinder/pkg/announcer"
	"github.com/wayfinder-ai/go-wayfinder/pkg/audio"
	"github.com/wayfinder-ai/go-wayfinder/pkg/camera"
	"github.com/wayfinder-ai/go-wayfinder/pkg/detection"
	"github.com/wayfinder-ai/go-wayfinder/pkg/guidance"
	"github.com/wayfinder-ai/go-wayfinder/pkg/pipeline"
	"github.com/wayfinder-ai/go-wayfinder/pkg/remote"
	"github.com/wayfinder-ai/go-wayfinder/pkg/tts"
	"github.com/wayfinder-ai/go-wayfinder/pkg/web"
)

// App is the assembled application.
type App struct {
	cfg Config

	detector  detection.Detector
	provider  tts.Provider
	player    audio.Player
	announcer *announcer.Announcer
	server    *web.Server
}

// New validates the configuration and returns an unstarted app.
func New(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &App{cfg: cfg}, nil
}

// Init builds the components that do not need a running context.
func (a *App) Init() error {
	if a.cfg.Debug {
		log.Init("debug")
	} else {
		log.Init("info")
	}

	// Detector. A missing model is not fatal: the app degrades to empty
	// scenes so the rest of the stack stays debuggable.
	if a.cfg.ModelPath != "" {
		yoloCfg := detection.DefaultYOLOConfig()
		yoloCfg.ModelPath = a.cfg.ModelPath
		if a.cfg.Confidence > 0 {
			yoloCfg.ConfidenceThresh = a.cfg.Confidence
		}

		det, err := detection.NewYOLO(yoloCfg)
		if err != nil {
			log.Warn("detector unavailable, running with empty scenes", "error", err)
			a.detector = detection.NewMock(a.cfg.Camera.Width)
		} else {
			a.detector = det
		}
	} else {
		log.Warn("no model configured, running with empty scenes")
		a.detector = detection.NewMock(a.cfg.Camera.Width)
	}

	// Speech. Without an API key the app runs silent.
	if a.cfg.OpenAIKey != "" {
		provider, err := tts.NewOpenAI(
			tts.WithAPIKey(a.cfg.OpenAIKey),
			tts.WithVoice(a.cfg.TTSVoice),
			tts.WithLogger(log.L()),
		)
		if err != nil {
			return fmt.Errorf("app: tts setup: %w", err)
		}
		a.provider = provider
	} else {
		log.Warn("no OpenAI key, speech disabled")
		a.provider = tts.NewMock()
	}

	if a.cfg.Mute || a.cfg.OpenAIKey == "" {
		a.player = audio.NewNull()
	} else {
		a.player = audio.NewSpeaker()
	}

	annCfg := announcer.DefaultConfig()
	annCfg.GuidanceDelay = a.cfg.GuidanceDelay
	a.announcer = announcer.New(a.provider, a.player, annCfg)

	if a.cfg.WebPort != "" {
		a.server = web.NewServer(a.cfg.WebPort)
	}

	return nil
}

// Run opens the frame source and drives the pipeline until ctx is done.
func (a *App) Run(ctx context.Context) error {
	source, err := a.openSource(ctx)
	if err != nil {
		return err
	}
	defer source.Close()

	// In remote mode the companion gets guidance pushed back to it.
	companion, _ := source.(*remote.Source)

	pipeCfg := pipeline.DefaultConfig()
	pipeCfg.MinInterval = a.cfg.MinInterval
	if a.server != nil {
		server := a.server
		pipeCfg.OnFrame = func(frame camera.Frame) {
			server.SendCameraFrame(frame.JPEG)
		}
	}

	pipe, err := pipeline.New(source, a.detector, pipeCfg)
	if err != nil {
		return err
	}

	if a.server != nil {
		a.server.UpdateState(func(st *web.NavState) {
			st.SourceKind = a.cfg.SourceMode
			st.SpeechState = a.announcer.State().String()
		})
		a.server.StartAsync()
	}

	// Announcements run on their own goroutine so slow synthesis never
	// stalls the result loop. Only the latest scene is kept.
	navCh := make(chan guidance.NavigationContext, 1)
	go a.announceLoop(ctx, navCh)

	pipe.Start(ctx)
	defer pipe.Stop()

	statsTicker := time.NewTicker(time.Second)
	defer statsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-statsTicker.C:
			a.publishStats(pipe)

		case result, ok := <-pipe.Results():
			if !ok {
				return nil
			}
			a.handleResult(result, navCh, companion)
		}
	}
}

// Shutdown releases everything Init built.
func (a *App) Shutdown() {
	if a.announcer != nil {
		a.announcer.Shutdown()
	}
	if a.player != nil {
		a.player.Shutdown()
	}
	if a.provider != nil {
		a.provider.Close()
	}
	if a.detector != nil {
		a.detector.Close()
	}
	if a.server != nil {
		a.server.Shutdown()
	}
}

func (a *App) openSource(ctx context.Context) (camera.Source, error) {
	switch a.cfg.SourceMode {
	case SourceRemote:
		return remote.Dial(ctx, remote.DefaultConfig(a.cfg.RemoteURL))
	default:
		return camera.OpenWebcam(a.cfg.Camera)
	}
}

func (a *App) handleResult(result pipeline.Result, navCh chan guidance.NavigationContext, companion *remote.Source) {
	switch result.Kind {
	case pipeline.KindReady:
		log.Info("pipeline ready")
		if a.server != nil {
			a.server.AddLog("info", "pipeline ready")
			a.server.UpdateState(func(st *web.NavState) {
				st.DetectorReady = true
			})
		}

	case pipeline.KindDetections:
		if a.server != nil {
			a.server.SetScene(result.Nav)
		}
		if companion != nil {
			if err := companion.SendGuidance(result.Nav); err != nil {
				log.Debug("guidance push failed", "error", err)
			}
			if err := companion.SendDetections(result.Nav.Objects); err != nil {
				log.Debug("detections push failed", "error", err)
			}
		}

		// Replace any unconsumed scene with the newest one.
		select {
		case navCh <- result.Nav:
		default:
			select {
			case <-navCh:
			default:
			}
			select {
			case navCh <- result.Nav:
			default:
			}
		}

	case pipeline.KindFailure:
		log.Warn("detection failure", "error", result.Err)
		if a.server != nil {
			a.server.AddLog("error", fmt.Sprintf("detection failure: %v", result.Err))
		}
	}
}

func (a *App) announceLoop(ctx context.Context, navCh <-chan guidance.NavigationContext) {
	for {
		select {
		case <-ctx.Done():
			return
		case nav := <-navCh:
			a.announcer.Announce(ctx, nav)
			if a.server != nil {
				a.server.UpdateState(func(st *web.NavState) {
					st.SpeechState = a.announcer.State().String()
				})
			}
		}
	}
}

func (a *App) publishStats(pipe *pipeline.Pipeline) {
	if a.server == nil {
		return
	}
	stats := pipe.Stats()
	a.server.UpdateState(func(st *web.NavState) {
		st.FramesCaptured = stats.FramesCaptured
		st.FramesDropped = stats.FramesDropped
		st.Inferences = stats.Inferences
		st.SpeechState = a.announcer.State().String()
	})
}
