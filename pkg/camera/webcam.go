package camera

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/wayfinder-ai/go-wayfinder/internal/log"
)

// maxProbeDevices bounds how many device indices enumeration probes.
const maxProbeDevices = 8

// Webcam captures frames from a local video device via OpenCV.
type Webcam struct {
	cap    *gocv.VideoCapture
	config Config
	mu     sync.Mutex
	mat    gocv.Mat
	closed bool
}

// OpenWebcam opens the configured capture device.
func OpenWebcam(cfg Config) (*Webcam, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cap, err := gocv.OpenVideoCapture(cfg.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("open device %d: %w", cfg.DeviceID, err)
	}

	if cfg.Width > 0 {
		cap.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	}
	if cfg.Height > 0 {
		cap.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}

	log.Info("camera opened", "device", cfg.DeviceID, "width", cfg.Width, "height", cfg.Height)

	return &Webcam{
		cap:    cap,
		config: cfg,
		mat:    gocv.NewMat(),
	}, nil
}

// NextFrame grabs and JPEG-encodes the next frame from the device.
func (w *Webcam) NextFrame(ctx context.Context) (Frame, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return Frame{}, fmt.Errorf("camera: device closed")
	}
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	if ok := w.cap.Read(&w.mat); !ok || w.mat.Empty() {
		return Frame{}, fmt.Errorf("camera: failed to read frame from device %d", w.config.DeviceID)
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, w.mat,
		[]int{gocv.IMWriteJpegQuality, w.config.Quality})
	if err != nil {
		return Frame{}, fmt.Errorf("camera: encode frame: %w", err)
	}
	defer buf.Close()

	jpeg := make([]byte, buf.Len())
	copy(jpeg, buf.GetBytes())

	return Frame{
		JPEG:      jpeg,
		Width:     w.mat.Cols(),
		Timestamp: time.Now(),
	}, nil
}

// Close releases the capture device.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	w.mat.Close()
	return w.cap.Close()
}

// EnumerateDevices probes the first few device indices and returns the
// ones that open successfully. The caller passes the result into its
// configuration; the list is never cached globally.
func EnumerateDevices() []Device {
	var devices []Device
	for id := 0; id < maxProbeDevices; id++ {
		cap, err := gocv.OpenVideoCapture(id)
		if err != nil {
			continue
		}
		opened := cap.IsOpened()
		cap.Close()
		if opened {
			devices = append(devices, Device{
				ID:   id,
				Name: fmt.Sprintf("video%d", id),
			})
		}
	}
	return devices
}

// Verify Webcam implements Source at compile time.
var _ Source = (*Webcam)(nil)
