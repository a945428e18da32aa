package stride

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Plan is the structured form of an adapted training plan. The coaching
// service streams narrative text; when the accumulated text is a valid plan
// document, ParsePlan recovers this shape.
type Plan struct {
	Summary   string    `json:"summary"`
	Intensity string    `json:"intensity,omitempty"` // e.g. "reduced", "maintain", "increase"
	Workouts  []Workout `json:"workouts"`
}

// Workout is a single scheduled session within a Plan.
type Workout struct {
	Day             string `json:"day"`
	Focus           string `json:"focus"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Details         string `json:"details,omitempty"`
}

// planSchemaJSON constrains what counts as a plan document. Valid JSON of
// the wrong shape (a bare number, an unrelated object) must not be
// mistaken for a plan.
const planSchemaJSON = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["summary", "workouts"],
	"properties": {
		"summary": {"type": "string", "minLength": 1},
		"intensity": {"type": "string"},
		"workouts": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["day", "focus"],
				"properties": {
					"day": {"type": "string", "minLength": 1},
					"focus": {"type": "string", "minLength": 1},
					"duration_minutes": {"type": "integer", "minimum": 0},
					"details": {"type": "string"}
				}
			}
		}
	}
}`

var planSchema = mustCompilePlanSchema()

func mustCompilePlanSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource("plan.json", strings.NewReader(planSchemaJSON)); err != nil {
		panic(fmt.Sprintf("stride: adding plan schema: %v", err))
	}
	s, err := c.Compile("plan.json")
	if err != nil {
		panic(fmt.Sprintf("stride: compiling plan schema: %v", err))
	}
	return s
}

// ParsePlan attempts to reinterpret an accumulated narrative as a
// structured Plan. A non-nil error means the narrative is prose, not a
// plan document; callers fall back to the text itself.
func ParsePlan(text string) (*Plan, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("empty narrative")
	}
	var doc any
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return nil, fmt.Errorf("narrative is not JSON: %w", err)
	}
	if err := planSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("narrative is not a plan document: %w", err)
	}
	var p Plan
	if err := json.Unmarshal([]byte(trimmed), &p); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}
	return &p, nil
}
