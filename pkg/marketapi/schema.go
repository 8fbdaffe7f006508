package marketapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const opportunitiesSchemaName = "opportunities.json"

// opportunitiesSchema pins the envelope shape; item fields stay loose because
// missing numbers render as zero.
const opportunitiesSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["flipping", "farming", "crafting", "investment"],
  "properties": {
    "flipping":   {"type": "array", "items": {"$ref": "#/$defs/opportunity"}},
    "farming":    {"type": "array", "items": {"$ref": "#/$defs/opportunity"}},
    "crafting":   {"type": "array", "items": {"$ref": "#/$defs/opportunity"}},
    "investment": {"type": "array", "items": {"$ref": "#/$defs/opportunity"}},
    "timestamp":  {"type": ["string", "null"]}
  },
  "$defs": {
    "number": {"type": ["number", "null"]},
    "opportunity": {
      "type": "object",
      "properties": {
        "type":              {"type": ["string", "null"]},
        "path":              {"type": ["array", "string", "null"], "items": {"type": "string"}},
        "chaos_value":       {"$ref": "#/$defs/number"},
        "potential_profit":  {"$ref": "#/$defs/number"},
        "opportunity_score": {"$ref": "#/$defs/number"},
        "estimated_return":  {"$ref": "#/$defs/number"},
        "price_change":      {"$ref": "#/$defs/number"},
        "investment_rating": {"$ref": "#/$defs/number"}
      }
    }
  }
}`

// PayloadValidator checks backend payloads against their JSON schema.
type PayloadValidator struct {
	opportunities *jsonschema.Schema
}

// NewPayloadValidator compiles the embedded schemas.
func NewPayloadValidator() (*PayloadValidator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(opportunitiesSchemaName, strings.NewReader(opportunitiesSchema)); err != nil {
		return nil, fmt.Errorf("marketapi: load schema: %w", err)
	}
	compiled, err := compiler.Compile(opportunitiesSchemaName)
	if err != nil {
		return nil, fmt.Errorf("marketapi: compile schema: %w", err)
	}
	return &PayloadValidator{opportunities: compiled}, nil
}

// ValidateOpportunities validates a raw opportunities payload.
func (v *PayloadValidator) ValidateOpportunities(body []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return fmt.Errorf("marketapi: decode opportunities: %w", err)
	}
	if err := v.opportunities.Validate(payload); err != nil {
		return fmt.Errorf("marketapi: opportunities failed validation: %w", err)
	}
	return nil
}
