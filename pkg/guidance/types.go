// Package guidance turns raw object detections into spoken navigational
// guidance for a visually impaired user. It enriches classifier output with
// type, priority, direction and distance semantics, then evaluates a
// priority-tiered rule cascade to decide what to say and whether it is safe
// to move. All of it is pure: no I/O, no shared state.
package guidance

import (
	"image"
	"time"
)

// ObjectType categorizes what kind of thing a detection is.
type ObjectType int

const (
	TypeObstacle ObjectType = iota
	TypeLandmark
	TypePerson
	TypeVehicle
	TypeFurniture
	TypeFood
	TypeElectronic
	TypeOther
)

// String returns the lowercase name of the object type.
func (t ObjectType) String() string {
	switch t {
	case TypeObstacle:
		return "obstacle"
	case TypeLandmark:
		return "landmark"
	case TypePerson:
		return "person"
	case TypeVehicle:
		return "vehicle"
	case TypeFurniture:
		return "furniture"
	case TypeFood:
		return "food"
	case TypeElectronic:
		return "electronic"
	default:
		return "other"
	}
}

// Priority ranks how urgently an object matters for navigation.
// Lower values are more urgent.
type Priority int

const (
	PriorityCritical Priority = iota
	PriorityHigh
	PriorityMedium
	PriorityLow
)

// String returns the lowercase name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	default:
		return "low"
	}
}

// Direction is the horizontal sector of the frame an object occupies,
// ordered left to right.
type Direction int

const (
	FarLeft Direction = iota
	Left
	Center
	Right
	FarRight
)

// String returns the snake_case name of the direction.
func (d Direction) String() string {
	switch d {
	case FarLeft:
		return "far_left"
	case Left:
		return "left"
	case Center:
		return "center"
	case Right:
		return "right"
	default:
		return "far_right"
	}
}

// Phrase returns the spoken form of the direction.
// The direction enumeration is closed, so there is no default case.
func (d Direction) Phrase() string {
	switch d {
	case FarLeft:
		return "far to your left"
	case Left:
		return "to your left"
	case Center:
		return "directly ahead"
	case Right:
		return "to your right"
	case FarRight:
		return "far to your right"
	}
	return ""
}

// Observation is a single raw classifier output: a label, a confidence
// score, and an optional bounding box in source-image coordinates.
type Observation struct {
	Label      string
	Confidence float64
	Box        image.Rectangle
	HasBox     bool
}

// DetectedObject is an observation enriched with navigation semantics.
// Objects are constructed fresh for every frame and never persist past
// the guidance cycle that created them.
type DetectedObject struct {
	Label      string
	Confidence float64
	Type       ObjectType
	Priority   Priority
	Direction  Direction
	// Distance is a heuristic proximity estimate in [0,1], 0 = very close,
	// 1 = far. It is derived from confidence and box area, not a calibrated
	// depth measurement.
	Distance  float64
	Timestamp time.Time
	Box       image.Rectangle
}

// NavigationContext is the decided output for one guidance cycle.
type NavigationContext struct {
	// Objects is the full ordered sequence considered this cycle.
	Objects []DetectedObject
	// Guidance is the sentence to present or speak.
	Guidance string
	// SafeToMove is false only when a critical-priority object is present.
	SafeToMove bool
	// Warning is empty unless an unsafe or caution condition triggered it.
	Warning string
	Timestamp time.Time
}
