package rules

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema describes a rules document: a mapping of class name to rule lists.
func Schema() map[string]any {
	str := map[string]any{"type": "string"}
	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "object",
		"additionalProperties": map[string]any{
			"type":                 []any{"object", "null"},
			"additionalProperties": false,
			"properties": map[string]any{
				"keywords": map[string]any{"type": []any{"array", "null"}, "items": str},
				"phrases":  map[string]any{"type": []any{"array", "null"}, "items": str},
				"regexes": map[string]any{
					"type": []any{"array", "null"},
					"items": map[string]any{
						"type":                 "object",
						"additionalProperties": false,
						"required":             []any{"pattern"},
						"properties": map[string]any{
							"pattern": str,
							"weight":  map[string]any{"type": "number"},
						},
					},
				},
				"temperature": map[string]any{"type": "number", "minimum": 0},
			},
		},
	}
}

// Validate checks a JSON-encoded rules document against Schema.
func Validate(data []byte) error {
	return validateJSONAgainstSchema(Schema(), data)
}

func validateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("rules.schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("rules.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("document does not match schema: %w", err)
	}
	return nil
}
