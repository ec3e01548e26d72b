package cache

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// payloadSchema guards deserialized cache payloads. Entries are written by
// this process, but the database outlives it; a payload that no longer
// matches the shape we expect reads as a miss instead of propagating
// garbage into the caller.
const payloadSchema = `{
	"type": "object",
	"required": ["doc_type", "month", "year", "pairings"],
	"properties": {
		"doc_type": {"type": "string", "enum": ["final", "prelim"]},
		"month": {"type": "integer", "minimum": 1, "maximum": 12},
		"year": {"type": "integer"},
		"pairings": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "legs"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"legs": {"type": "array", "minItems": 1}
				}
			}
		}
	}
}`

func compilePayloadSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("payload.json", strings.NewReader(payloadSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("payload.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// validatePayload checks a decompressed payload against the schema.
func validatePayload(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("payload does not match schema: %w", err)
	}
	return nil
}
