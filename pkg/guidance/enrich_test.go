package guidance

import (
	"image"
	"testing"
)

func TestClassifyType(t *testing.T) {
	tests := []struct {
		label string
		want  ObjectType
	}{
		{"person", TypePerson},
		{"car", TypeVehicle},
		{"bus", TypeVehicle},
		{"chair", TypeFurniture},
		{"dining table", TypeFurniture},
		{"laptop", TypeElectronic},
		{"bottle", TypeFood},
		{"backpack", TypeObstacle},
		{"clock", TypeLandmark},
		{"giraffe", TypeOther},
		{"", TypeOther},
		{"not-a-label", TypeOther},
	}

	for _, tt := range tests {
		if got := ClassifyType(tt.label); got != tt.want {
			t.Errorf("ClassifyType(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		label string
		want  Priority
	}{
		{"car", PriorityCritical},
		{"truck", PriorityCritical},
		{"bicycle", PriorityCritical},
		{"person", PriorityHigh},
		{"chair", PriorityMedium},
		{"suitcase", PriorityMedium},
		{"bottle", PriorityLow},
		{"laptop", PriorityLow},
		{"giraffe", PriorityLow},
		{"", PriorityLow},
	}

	for _, tt := range tests {
		if got := ClassifyPriority(tt.label); got != tt.want {
			t.Errorf("ClassifyPriority(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestComputeDirection(t *testing.T) {
	const width = 1000.0

	tests := []struct {
		centerX float64
		want    Direction
	}{
		{0, FarLeft},
		{100, FarLeft},
		{199.9, FarLeft},
		{200, Left}, // boundary is exclusive on the lower bin
		{300, Left},
		{400, Center},
		{500, Center},
		{599.9, Center},
		{600, Right},
		{700, Right},
		{800, FarRight},
		{999, FarRight},
	}

	for _, tt := range tests {
		if got := ComputeDirection(tt.centerX, width); got != tt.want {
			t.Errorf("ComputeDirection(%v, %v) = %v, want %v", tt.centerX, width, got, tt.want)
		}
	}
}

func TestComputeDirection_Monotonic(t *testing.T) {
	const width = 640.0

	prev := FarLeft
	for x := 0.0; x < width; x++ {
		d := ComputeDirection(x, width)
		if d < prev {
			t.Fatalf("ComputeDirection(%v, %v) = %v, decreased from %v", x, width, d, prev)
		}
		prev = d
	}
	if prev != FarRight {
		t.Errorf("final direction = %v, want %v", prev, FarRight)
	}
}

func TestEstimateDistance(t *testing.T) {
	tests := []struct {
		confidence float64
		boxArea    float64
		want       float64
	}{
		{1.0, 1.0, 0.0},  // certain and filling the frame: closest
		{0.0, 0.0, 1.0},  // uncertain speck: farthest
		{0.5, 0.5, 0.5},
		{1.0, 5.0, 0.0},  // oversized areas clamp to 1
		{0.8, 0.2, 0.5},
	}

	for _, tt := range tests {
		got := EstimateDistance(tt.confidence, tt.boxArea)
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("EstimateDistance(%v, %v) = %v, want %v", tt.confidence, tt.boxArea, got, tt.want)
		}
	}
}

func TestEstimateDistance_Bounded(t *testing.T) {
	for conf := 0.0; conf <= 1.0; conf += 0.1 {
		for area := 0.0; area <= 3.0; area += 0.25 {
			got := EstimateDistance(conf, area)
			if got < 0 || got > 1 {
				t.Errorf("EstimateDistance(%v, %v) = %v, out of [0,1]", conf, area, got)
			}
		}
	}
}

func TestEnrich_DegradedMode(t *testing.T) {
	obj := Enrich(Observation{Label: "person", Confidence: 0.9}, 640)

	if obj.Direction != DefaultDirection {
		t.Errorf("Direction = %v, want %v (no box)", obj.Direction, DefaultDirection)
	}
	if obj.Distance != DefaultDistance {
		t.Errorf("Distance = %v, want %v (no box)", obj.Distance, DefaultDistance)
	}
	if obj.Type != TypePerson {
		t.Errorf("Type = %v, want %v", obj.Type, TypePerson)
	}
	if obj.Priority != PriorityHigh {
		t.Errorf("Priority = %v, want %v", obj.Priority, PriorityHigh)
	}
}

func TestEnrich_WithBox(t *testing.T) {
	// Box centered at x=100 in a 1000px frame: far left sector.
	obs := Observation{
		Label:      "car",
		Confidence: 0.85,
		Box:        image.Rect(50, 200, 150, 300),
		HasBox:     true,
	}

	obj := Enrich(obs, 1000)

	if obj.Direction != FarLeft {
		t.Errorf("Direction = %v, want %v", obj.Direction, FarLeft)
	}
	if obj.Distance < 0 || obj.Distance > 1 {
		t.Errorf("Distance = %v, out of [0,1]", obj.Distance)
	}
	if obj.Timestamp.IsZero() {
		t.Error("Timestamp is zero, want creation time")
	}
}

func TestEnrichAll_PreservesOrder(t *testing.T) {
	obs := []Observation{
		{Label: "chair", Confidence: 0.7},
		{Label: "car", Confidence: 0.9},
		{Label: "bottle", Confidence: 0.6},
	}

	objects := EnrichAll(obs, 640)
	if len(objects) != 3 {
		t.Fatalf("EnrichAll() len = %d, want 3", len(objects))
	}
	for i, o := range objects {
		if o.Label != obs[i].Label {
			t.Errorf("objects[%d].Label = %q, want %q", i, o.Label, obs[i].Label)
		}
	}
}

func TestEnrichAll_Empty(t *testing.T) {
	objects := EnrichAll(nil, 640)
	if objects == nil || len(objects) != 0 {
		t.Errorf("EnrichAll(nil) = %v, want empty slice", objects)
	}
}
