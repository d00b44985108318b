package lessonplan

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ShapeKind tags what a model response turned out to be.
type ShapeKind int

const (
	// ShapeText is prose with no JSON document.
	ShapeText ShapeKind = iota
	// ShapePlan is a complete lesson plan.
	ShapePlan
	// ShapeSlides is a slide deck ({"slides": [...]}).
	ShapeSlides
	// ShapeOtherJSON is valid JSON of no known structure.
	ShapeOtherJSON
)

func (k ShapeKind) String() string {
	switch k {
	case ShapePlan:
		return "plan"
	case ShapeSlides:
		return "slides"
	case ShapeOtherJSON:
		return "other_json"
	default:
		return "text"
	}
}

// Shape is the validated reading of a model response. Exactly one of Plan or
// Slides is set for the structured kinds; Text always carries the trimmed response.
type Shape struct {
	Kind   ShapeKind
	Plan   *LessonPlan
	Slides *SlideDeck
	Text   string
	// Reason explains why a JSON document was not accepted as a plan.
	Reason string
}

// SlideDeck is the presentation structure the chat assistant may return
// instead of a lesson plan.
type SlideDeck struct {
	Slides []json.RawMessage `json:"slides"`
}

var ErrNotLessonPlan = errors.New("not a lesson plan")

// Inspect extracts and validates a model response. Validators run in order:
// lesson plan, slide deck; anything else is text or unrecognized JSON.
func Inspect(raw string) Shape {
	ex := Extract(raw)
	shape := Shape{Kind: ShapeText, Text: ex.Text}
	if !ex.IsJSON() {
		return shape
	}

	plan, err := ValidatePlan(ex.JSON)
	if err == nil {
		shape.Kind = ShapePlan
		shape.Plan = plan
		return shape
	}
	shape.Reason = err.Error()

	if deck, ok := validateSlides(ex.JSON); ok {
		shape.Kind = ShapeSlides
		shape.Slides = deck
		return shape
	}
	shape.Kind = ShapeOtherJSON
	return shape
}

// ValidatePlan accepts a JSON object carrying a title and all five stage
// objects. Other keys, and the inner shape of each stage, are not checked: the
// returned plan keeps the whole document.
func ValidatePlan(doc json.RawMessage) (*LessonPlan, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(doc, &top); err != nil || top == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrNotLessonPlan)
	}

	title, ok := top[keyTitle]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrNotLessonPlan, keyTitle)
	}
	if isNull(title) || isObject(title) || bytes.HasPrefix(bytes.TrimSpace(title), []byte("[")) {
		return nil, fmt.Errorf("%w: %q must be text", ErrNotLessonPlan, keyTitle)
	}

	for _, key := range StageKeys {
		stage, ok := top[key]
		if !ok {
			return nil, fmt.Errorf("%w: missing stage %q", ErrNotLessonPlan, key)
		}
		if !isObject(stage) {
			return nil, fmt.Errorf("%w: stage %q must be an object", ErrNotLessonPlan, key)
		}
	}

	var plan LessonPlan
	if err := json.Unmarshal(doc, &plan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotLessonPlan, err)
	}
	if plan.CurriculumSuggestions == nil {
		plan.CurriculumSuggestions = []CurriculumSuggestion{}
	}
	return &plan, nil
}

func validateSlides(doc json.RawMessage) (*SlideDeck, bool) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(doc, &top); err != nil || top == nil {
		return nil, false
	}
	raw, ok := top["slides"]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return nil, false
	}
	var deck SlideDeck
	if err := json.Unmarshal(doc, &deck); err != nil {
		return nil, false
	}
	return &deck, true
}

func isObject(b json.RawMessage) bool {
	return bytes.HasPrefix(bytes.TrimSpace(b), []byte("{"))
}

func isNull(b json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}
