// Wayfinder narrates the camera scene for blind and low-vision users:
// it detects nearby objects, turns them into spoken guidance, and serves
// a live status dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/wayfinder-ai/go-wayfinder/internal/config"
	"github.com/wayfinder-ai/go-wayfinder/pkg/app"
	"github.com/wayfinder-ai/go-wayfinder/pkg/camera"
)

func main() {
	cfg, listDevices := parseFlags()

	if listDevices {
		printDevices()
		return
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	if err := a.Init(); err != nil {
		log.Fatalf("initialization failed: %v", err)
	}
	defer a.Shutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := a.Run(ctx); err != nil {
		log.Fatalf("runtime error: %v", err)
	}
}

// parseFlags parses command line flags and environment into configuration.
// Flags win over environment variables; both win over defaults.
func parseFlags() (app.Config, bool) {
	// Optional .env for local development.
	godotenv.Load()

	cfg := app.DefaultConfig()

	cfg.SourceMode = config.Getenv("WAYFINDER_SOURCE", cfg.SourceMode)
	cfg.RemoteURL = config.Getenv("WAYFINDER_REMOTE_URL", cfg.RemoteURL)
	cfg.ModelPath = config.Getenv("WAYFINDER_MODEL", cfg.ModelPath)
	cfg.WebPort = config.Getenv("WAYFINDER_PORT", cfg.WebPort)
	cfg.TTSVoice = config.Getenv("WAYFINDER_VOICE", cfg.TTSVoice)
	cfg.Camera.DeviceID = config.GetenvInt("WAYFINDER_CAMERA", cfg.Camera.DeviceID)
	cfg.MinInterval = config.GetenvDuration("WAYFINDER_MIN_INTERVAL", cfg.MinInterval)
	cfg.GuidanceDelay = config.GetenvDuration("WAYFINDER_GUIDANCE_DELAY", cfg.GuidanceDelay)
	cfg.Mute = config.GetenvBool("WAYFINDER_MUTE", cfg.Mute)
	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")

	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	source := flag.String("source", cfg.SourceMode, "Frame source: webcam or remote")
	remoteURL := flag.String("remote-url", cfg.RemoteURL, "Companion feed URL for remote mode")
	device := flag.Int("camera", cfg.Camera.DeviceID, "Webcam device ID")
	model := flag.String("model", cfg.ModelPath, "Detection model path (ONNX)")
	port := flag.String("port", cfg.WebPort, "Dashboard port, empty to disable")
	voice := flag.String("voice", cfg.TTSVoice, "Speech voice")
	mute := flag.Bool("mute", cfg.Mute, "Disable the local speaker")
	list := flag.Bool("list-devices", false, "List capture devices and exit")
	flag.Parse()

	cfg.Debug = *debug
	cfg.SourceMode = *source
	cfg.RemoteURL = *remoteURL
	cfg.Camera.DeviceID = *device
	cfg.ModelPath = *model
	cfg.WebPort = *port
	cfg.TTSVoice = *voice
	cfg.Mute = *mute

	return cfg, *list
}

// printDevices probes and lists the local capture devices.
func printDevices() {
	devices := camera.EnumerateDevices()
	if len(devices) == 0 {
		fmt.Println("no capture devices found")
		return
	}
	for _, d := range devices {
		fmt.Printf("%d: %s\n", d.ID, d.Name)
	}
}
