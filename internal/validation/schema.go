package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// RequiredField is a logical field that may appear under several keys.
type RequiredField struct {
	Name    string
	Aliases []string
}

type compiledField struct {
	RequiredField
	schema *jsonschema.Schema
}

// PresenceChecker verifies that extracted records carry every required field
// with a non-null value. It compiles one JSON Schema per field at construction
// and is safe for concurrent use.
type PresenceChecker struct {
	fields []compiledField
}

// NewPresenceChecker compiles the schemas for fields.
func NewPresenceChecker(fields ...RequiredField) (*PresenceChecker, error) {
	pc := &PresenceChecker{}
	for _, f := range fields {
		if len(f.Aliases) == 0 {
			return nil, fmt.Errorf("required field %q has no keys", f.Name)
		}
		schema, err := compileFieldSchema(f)
		if err != nil {
			return nil, err
		}
		pc.fields = append(pc.fields, compiledField{RequiredField: f, schema: schema})
	}
	return pc, nil
}

// FieldSchema returns the JSON Schema document requiring one of the aliases
// of f to be present and non-null.
func FieldSchema(f RequiredField) map[string]any {
	alternatives := make([]any, 0, len(f.Aliases))
	for _, key := range f.Aliases {
		alternatives = append(alternatives, map[string]any{
			"required": []string{key},
			"properties": map[string]any{
				key: map[string]any{"not": map[string]any{"type": "null"}},
			},
		})
	}
	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "object",
		"anyOf":   alternatives,
	}
}

func compileFieldSchema(f RequiredField) (*jsonschema.Schema, error) {
	b, err := json.Marshal(FieldSchema(f))
	if err != nil {
		return nil, fmt.Errorf("marshal schema for %s: %w", f.Name, err)
	}

	url := "presence_" + f.Name + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, strings.NewReader(string(b))); err != nil {
		return nil, fmt.Errorf("add schema for %s: %w", f.Name, err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema for %s: %w", f.Name, err)
	}
	return schema, nil
}

// Missing returns the name of the first required field absent or null in record.
func (pc *PresenceChecker) Missing(record map[string]any) (string, bool) {
	for _, f := range pc.fields {
		if err := f.schema.Validate(toSchemaValue(record)); err != nil {
			return f.Name, true
		}
	}
	return "", false
}

// toSchemaValue converts a decoded record to the generic form the validator
// expects (map[string]interface{} with json.Number for numbers).
func toSchemaValue(record map[string]any) any {
	if record == nil {
		return map[string]any{}
	}
	return record
}
