package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// insightsPayloadSchema is the explicit optional-field contract the widget
// accepts from the advisor. Sections may be absent, but a present section
// must be well-formed.
const insightsPayloadSchema = `{
	"type": "object",
	"properties": {
		"summary": {
			"type": "object",
			"required": ["balance", "health_score", "net_change", "top_category"],
			"properties": {
				"balance": {"type": "number"},
				"health_score": {"type": "integer", "minimum": 0, "maximum": 100},
				"net_change": {"type": "number"},
				"top_category": {"type": "string"}
			}
		},
		"visualizations": {
			"type": "object",
			"additionalProperties": {
				"type": "object",
				"required": ["type"],
				"properties": {
					"type": {"type": "string", "enum": ["line", "bar", "pie", "gauge"]},
					"title": {"type": "string"},
					"data": {"type": "object", "additionalProperties": {"type": "number"}},
					"value": {"type": "number"}
				}
			}
		},
		"insights": {"type": "string"},
		"timestamp": {"type": "string"}
	}
}`

// JSONSchemaValidator validates insights payloads at the client boundary.
type JSONSchemaValidator struct {
	once     sync.Once
	compiled *jsonschema.Schema
	initErr  error
}

// NewInsightsValidator builds the default payload validator.
func NewInsightsValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{}
}

// Validate ensures the payload satisfies the insights contract.
func (v *JSONSchemaValidator) Validate(payload InsightsPayload) error {
	schema, err := v.schema()
	if err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("assistant: marshal insights payload: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("assistant: normalize insights payload: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("assistant: insights payload failed validation: %w", err)
	}
	return nil
}

func (v *JSONSchemaValidator) schema() (*jsonschema.Schema, error) {
	v.once.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("insights_payload.json", strings.NewReader(insightsPayloadSchema)); err != nil {
			v.initErr = fmt.Errorf("assistant: load insights schema: %w", err)
			return
		}
		compiled, err := compiler.Compile("insights_payload.json")
		if err != nil {
			v.initErr = fmt.Errorf("assistant: compile insights schema: %w", err)
			return
		}
		v.compiled = compiled
	})
	return v.compiled, v.initErr
}

type noopPayloadValidator struct{}

func (noopPayloadValidator) Validate(InsightsPayload) error { return nil }

// SurfaceValidator validates datasets against the schema their surface
// declares. Surfaces without a schema accept any dataset.
type SurfaceValidator interface {
	Validate(def SurfaceDefinition, dataset ChartDataset) error
}

// SurfaceSchemaValidator compiles surface schemas and validates incoming
// datasets against them before rendering.
type SurfaceSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewSurfaceSchemaValidator builds a validator backed by jsonschema v5.
func NewSurfaceSchemaValidator() *SurfaceSchemaValidator {
	return &SurfaceSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures the dataset satisfies the surface schema, when one is set.
func (v *SurfaceSchemaValidator) Validate(def SurfaceDefinition, dataset ChartDataset) error {
	if len(def.Schema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(def)
	if err != nil {
		return err
	}
	data, err := json.Marshal(dataset)
	if err != nil {
		return fmt.Errorf("assistant: marshal dataset for %s: %w", def.ID, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("assistant: normalize dataset for %s: %w", def.ID, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("assistant: dataset for %s failed validation: %w", def.ID, err)
	}
	return nil
}

func (v *SurfaceSchemaValidator) schemaFor(def SurfaceDefinition) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[def.ID]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(def.Schema)
	if err != nil {
		return nil, fmt.Errorf("assistant: marshal schema %s: %w", def.ID, err)
	}
	compiler := jsonschema.NewCompiler()
	name := def.ID + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("assistant: load schema %s: %w", def.ID, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("assistant: compile schema %s: %w", def.ID, err)
	}
	v.mu.Lock()
	v.compiled[def.ID] = compiled
	v.mu.Unlock()
	return compiled, nil
}
