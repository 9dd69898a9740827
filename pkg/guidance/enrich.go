package guidance

import (
	"time"
)

// typeByLabel maps classifier labels to object types. Built once, never
// mutated. Labels not present map to TypeOther.
var typeByLabel = map[string]ObjectType{
	"person":       TypePerson,
	"bicycle":      TypeVehicle,
	"car":          TypeVehicle,
	"motorcycle":   TypeVehicle,
	"bus":          TypeVehicle,
	"truck":        TypeVehicle,
	"bench":        TypeFurniture,
	"chair":        TypeFurniture,
	"couch":        TypeFurniture,
	"bed":          TypeFurniture,
	"dining table": TypeFurniture,
	"laptop":       TypeElectronic,
	"tv":           TypeElectronic,
	"cell phone":   TypeElectronic,
	"keyboard":     TypeElectronic,
	"mouse":        TypeElectronic,
	"bottle":       TypeFood,
	"cup":          TypeFood,
	"bowl":         TypeFood,
	"backpack":     TypeObstacle,
	"suitcase":     TypeObstacle,
	"potted plant": TypeLandmark,
	"clock":        TypeLandmark,
	"vase":         TypeLandmark,
}

// priorityByLabel maps classifier labels to priorities. Vehicles are the
// only critical entries and "person" the only high one; labels not present
// map to PriorityLow. Independent of typeByLabel: a label determines both
// through separate tables.
var priorityByLabel = map[string]Priority{
	"car":          PriorityCritical,
	"bus":          PriorityCritical,
	"truck":        PriorityCritical,
	"motorcycle":   PriorityCritical,
	"bicycle":      PriorityCritical,
	"person":       PriorityHigh,
	"bench":        PriorityMedium,
	"chair":        PriorityMedium,
	"couch":        PriorityMedium,
	"bed":          PriorityMedium,
	"dining table": PriorityMedium,
	"backpack":     PriorityMedium,
	"suitcase":     PriorityMedium,
}

// Degraded-mode defaults when a detection carries no usable geometry.
const (
	DefaultDirection = Center
	DefaultDistance  = 0.5
)

// ClassifyType returns the object type for a label, TypeOther when the
// label is not in the vocabulary.
func ClassifyType(label string) ObjectType {
	if t, ok := typeByLabel[label]; ok {
		return t
	}
	return TypeOther
}

// ClassifyPriority returns the priority for a label, PriorityLow when the
// label is not in the table.
func ClassifyPriority(label string) Priority {
	if p, ok := priorityByLabel[label]; ok {
		return p
	}
	return PriorityLow
}

// ComputeDirection maps a horizontal center position to one of five
// equal-width sectors of the frame. Boundary values belong to the sector
// on their left (strict less-than comparisons).
func ComputeDirection(centerX, imageWidth float64) Direction {
	if imageWidth <= 0 {
		return DefaultDirection
	}
	pos := centerX / imageWidth
	switch {
	case pos < 0.2:
		return FarLeft
	case pos < 0.4:
		return Left
	case pos < 0.6:
		return Center
	case pos < 0.8:
		return Right
	default:
		return FarRight
	}
}

// EstimateDistance derives a proximity proxy in [0,1] from detection
// confidence and normalized box area. Higher confidence and a larger box
// both pull the estimate toward 0 (closer). Callers must not treat the
// result as physical distance.
func EstimateDistance(confidence, boxArea float64) float64 {
	if boxArea > 1 {
		boxArea = 1
	}
	if boxArea < 0 {
		boxArea = 0
	}
	return ((1 - confidence) + (1 - boxArea)) / 2
}

// Enrich converts a raw observation into a DetectedObject, deriving type,
// priority, direction and distance. imageWidth is the source frame's pixel
// width. Observations without a bounding box fall back to the degraded-mode
// defaults; that is not an error.
func Enrich(obs Observation, imageWidth int) DetectedObject {
	obj := DetectedObject{
		Label:      obs.Label,
		Confidence: obs.Confidence,
		Type:       ClassifyType(obs.Label),
		Priority:   ClassifyPriority(obs.Label),
		Direction:  DefaultDirection,
		Distance:   DefaultDistance,
		Timestamp:  time.Now(),
		Box:        obs.Box,
	}

	if obs.HasBox && imageWidth > 0 {
		centerX := float64(obs.Box.Min.X) + float64(obs.Box.Dx())/2
		obj.Direction = ComputeDirection(centerX, float64(imageWidth))

		area := float64(obs.Box.Dx()) * float64(obs.Box.Dy())
		norm := area / (float64(imageWidth) * float64(imageWidth))
		obj.Distance = EstimateDistance(obs.Confidence, norm)
	}

	return obj
}

// EnrichAll enriches a batch of observations, preserving input order.
// A nil or empty input yields an empty slice, never nil dereference.
func EnrichAll(obs []Observation, imageWidth int) []DetectedObject {
	objects := make([]DetectedObject, 0, len(obs))
	for _, o := range obs {
		objects = append(objects, Enrich(o, imageWidth))
	}
	return objects
}
