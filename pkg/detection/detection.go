// Package detection provides object detection over camera frames.
// The detector is treated as a black-box classifier: it yields labels,
// confidence scores and bounding boxes, and everything downstream
// (guidance, narration) works only with that output.
package detection

import (
	"context"
	"image"

	"github.com/wayfinder-ai/go-wayfinder/pkg/guidance"
)

// Object is a single detection: a label with a confidence score and a
// bounding box in source-image coordinates. HasBox is false when the
// backend could not localize the object.
type Object struct {
	Label      string
	Confidence float64
	Box        image.Rectangle
	HasBox     bool
}

// Center returns the center point of the bounding box.
func (o Object) Center() (x, y float64) {
	return float64(o.Box.Min.X) + float64(o.Box.Dx())/2,
		float64(o.Box.Min.Y) + float64(o.Box.Dy())/2
}

// Result is one frame's worth of detections plus the source frame's pixel
// width, which downstream direction math needs.
type Result struct {
	Objects    []Object
	FrameWidth int
}

// Observations converts the result into the guidance package's input form,
// preserving order.
func (r Result) Observations() []guidance.Observation {
	obs := make([]guidance.Observation, 0, len(r.Objects))
	for _, o := range r.Objects {
		obs = append(obs, guidance.Observation{
			Label:      o.Label,
			Confidence: o.Confidence,
			Box:        o.Box,
			HasBox:     o.HasBox,
		})
	}
	return obs
}

// Detector is the interface for object detection backends.
type Detector interface {
	// Detect finds objects in the JPEG image.
	Detect(ctx context.Context, jpeg []byte) (Result, error)

	// Close releases resources.
	Close() error
}

// FilterLabel returns the objects matching a specific label.
func FilterLabel(objects []Object, label string) []Object {
	var filtered []Object
	for _, o := range objects {
		if o.Label == label {
			filtered = append(filtered, o)
		}
	}
	return filtered
}
