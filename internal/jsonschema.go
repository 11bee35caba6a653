package internal

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/schemahub/console"
)

func refJSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{"type": "integer", "minimum": 1},
		},
		"required": []string{"id"},
	}
}

func fieldJSONSchema(field *console.Field) map[string]any {
	switch {
	case field.Type.IsRelation():
		if fieldIsMultiple(field) {
			return map[string]any{"type": "array", "items": refJSONSchema()}
		}
		return refJSONSchema()
	case isIntType(field.Type):
		s := map[string]any{"type": "integer"}
		switch field.Type {
		case console.FieldTypeUint, console.FieldTypeUint8, console.FieldTypeUint16,
			console.FieldTypeUint32, console.FieldTypeUint64:
			s["minimum"] = 0
		}
		return s
	case isFloatType(field.Type):
		return map[string]any{"type": "number"}
	case field.Type == console.FieldTypeBool:
		return map[string]any{"type": "boolean"}
	case field.Type == console.FieldTypeTime:
		return map[string]any{"type": "string"}
	case field.Type == console.FieldTypeEnum:
		values := make([]any, 0, len(field.Enums))
		for _, e := range field.Enums {
			values = append(values, e.Value)
		}
		return map[string]any{"type": "string", "enum": values}
	case field.Type == console.FieldTypeJSON:
		return map[string]any{}
	default:
		return map[string]any{"type": "string"}
	}
}

// ExportJSONSchema renders a schema as a JSON Schema document covering the
// user-editable fields. Reserved and system-managed fields are excluded, with
// the same "user" schema exception the form compiler applies.
func ExportJSONSchema(schema *console.Schema) (map[string]any, error) {
	if schema == nil {
		return nil, console.NewSchemaError(console.ErrCodeSchemaInvalid, "cannot export a nil schema")
	}

	properties := map[string]any{}
	required := []string{}
	for i := range schema.Fields {
		field := &schema.Fields[i]
		if console.IsReservedFieldName(field.Name) {
			continue
		}
		if field.IsSystemField && schema.Name != "user" {
			continue
		}
		properties[field.Name] = fieldJSONSchema(field)
		if !field.Optional && !field.Type.IsRelation() {
			required = append(required, field.Name)
		}
	}

	return map[string]any{
		"$schema":    "https://json-schema.org/draft/2020-12/schema",
		"title":      schema.Name,
		"type":       "object",
		"properties": properties,
		"required":   required,
	}, nil
}

// ValidateRecord checks a record against the schema's JSON Schema rendering.
func ValidateRecord(schema *console.Schema, record console.Content) error {
	doc, err := ExportJSONSchema(schema)
	if err != nil {
		return err
	}

	docBytes, err := json.Marshal(doc)
	if err != nil {
		return console.NewInternalError("failed to marshal JSON schema", err)
	}

	var js jsonschema.Schema
	if err := json.Unmarshal(docBytes, &js); err != nil {
		return console.NewInternalError("failed to build JSON schema", err)
	}

	resolved, err := js.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return console.NewInternalError("failed to resolve JSON schema", err)
	}

	// Round-trip the record so typed values validate as plain JSON values.
	recordBytes, err := json.Marshal(record)
	if err != nil {
		return console.NewInternalError("failed to marshal record", err)
	}
	var data any
	if err := json.Unmarshal(recordBytes, &data); err != nil {
		return console.NewInternalError("failed to unmarshal record", err)
	}

	if err := resolved.Validate(data); err != nil {
		return console.NewConsoleError(console.ErrorTypeValidation, console.ErrCodeValidationFailed,
			fmt.Sprintf("record does not match schema '%s'", schema.Name)).WithCause(err)
	}
	return nil
}
