package guidance

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Fixed guidance and warning strings.
const (
	// WarningVehicle accompanies critical vehicle guidance.
	WarningVehicle = "Vehicle nearby! Do not move until it passes."
	// WarningCaution accompanies high-priority guidance.
	WarningCaution = "Slow down and stay alert."
	// GuidanceEmptyScene is spoken when nothing actionable is in view.
	GuidanceEmptyScene = "No objects detected. Point your camera at nearby items to explore your surroundings."
)

// indoorVocabulary is the fixed set of labels treated as contextually
// relevant for indoor scene description. Critical and high priority labels
// in the set are consumed by the earlier tiers and never reach grouping.
var indoorVocabulary = map[string]bool{
	"person":       true,
	"bottle":       true,
	"cup":          true,
	"chair":        true,
	"dining table": true,
	"laptop":       true,
	"tv":           true,
	"book":         true,
	"cell phone":   true,
	"keyboard":     true,
	"mouse":        true,
	"couch":        true,
	"bed":          true,
	"potted plant": true,
	"clock":        true,
	"vase":         true,
}

// Analyze evaluates one frame's worth of detected objects and produces the
// navigation context for the cycle. The decision is a strict priority
// cascade: critical objects, then high-priority objects, then indoor scene
// description, then the empty-scene prompt. The first matching tier wins.
//
// Analyze is a pure function of its input; the only side channel is the
// clock used for the output timestamp.
func Analyze(objects []DetectedObject) NavigationContext {
	ctx := NavigationContext{
		Objects:    objects,
		SafeToMove: true,
		Timestamp:  time.Now(),
	}

	if critical := selectRepresentative(objects, PriorityCritical, TypeVehicle); critical != nil {
		ctx.SafeToMove = false
		ctx.Guidance = fmt.Sprintf("STOP! %s detected %s. Wait for it to pass.",
			critical.Label, critical.Direction.Phrase())
		ctx.Warning = WarningVehicle
		return ctx
	}

	if high := selectRepresentative(objects, PriorityHigh, TypePerson); high != nil {
		ctx.Guidance = fmt.Sprintf("%s detected %s. Proceed with caution.",
			high.Label, high.Direction.Phrase())
		ctx.Warning = WarningCaution
		return ctx
	}

	if guidance, ok := describeIndoorScene(objects); ok {
		ctx.Guidance = guidance
		return ctx
	}

	// Objects whose label is outside every table fall through to the
	// empty-scene prompt even though the set is non-empty.
	ctx.Guidance = GuidanceEmptyScene
	return ctx
}

// selectRepresentative picks the object to announce for a tier: the first
// object at the given priority whose type matches preferred, falling back
// to the first object at that priority in input order. Returns nil when the
// tier does not apply.
func selectRepresentative(objects []DetectedObject, p Priority, preferred ObjectType) *DetectedObject {
	var first *DetectedObject
	for i := range objects {
		if objects[i].Priority != p {
			continue
		}
		if objects[i].Type == preferred {
			return &objects[i]
		}
		if first == nil {
			first = &objects[i]
		}
	}
	return first
}

// labelGroup counts occurrences of one label and remembers the first
// object seen with it.
type labelGroup struct {
	label string
	count int
	first *DetectedObject
}

// describeIndoorScene builds the tier-3 description: the most frequent
// indoor label with its count and direction, plus up to two more distinct
// labels. Returns false when no object belongs to the indoor vocabulary.
func describeIndoorScene(objects []DetectedObject) (string, bool) {
	var groups []*labelGroup
	index := make(map[string]*labelGroup)

	for i := range objects {
		label := objects[i].Label
		if !indoorVocabulary[label] {
			continue
		}
		g, ok := index[label]
		if !ok {
			g = &labelGroup{label: label, first: &objects[i]}
			index[label] = g
			groups = append(groups, g)
		}
		g.count++
	}

	if len(groups) == 0 {
		return "", false
	}

	// Descending count; the stable sort keeps first-encountered order
	// among equal counts.
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].count > groups[j].count
	})

	top := groups[0]
	var b strings.Builder
	b.WriteString(top.label)
	if top.count > 1 {
		fmt.Fprintf(&b, " (%d detected)", top.count)
	}
	b.WriteString(" ")
	b.WriteString(top.first.Direction.Phrase())
	b.WriteString(". ")

	if len(groups) > 1 {
		extra := make([]string, 0, 2)
		for _, g := range groups[1:] {
			extra = append(extra, g.label)
			if len(extra) == 2 {
				break
			}
		}
		b.WriteString("Also detected: ")
		b.WriteString(strings.Join(extra, ", "))
		b.WriteString(".")
	}

	return b.String(), true
}
