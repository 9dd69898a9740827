package camera

import "fmt"

// Config holds capture configuration.
type Config struct {
	// DeviceID selects the capture device, from the list returned by
	// EnumerateDevices.
	DeviceID int
	// Width and Height request a capture resolution. Zero leaves the
	// device default in place.
	Width  int
	Height int
	// Quality is the JPEG encoding quality (1-100).
	Quality int
}

// DefaultConfig returns capture defaults suited to on-device inference:
// 640x480 keeps detection latency low without starving the model.
func DefaultConfig() Config {
	return Config{
		DeviceID: 0,
		Width:    640,
		Height:   480,
		Quality:  80,
	}
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if c.DeviceID < 0 {
		return fmt.Errorf("camera: device id %d out of range", c.DeviceID)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("camera: quality %d out of range 1-100", c.Quality)
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("camera: negative resolution %dx%d", c.Width, c.Height)
	}
	return nil
}
