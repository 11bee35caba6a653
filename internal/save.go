package internal

import (
	"fmt"

	"github.com/schemahub/console"
)

func isIntType(t console.FieldType) bool {
	switch t {
	case console.FieldTypeInt, console.FieldTypeInt8, console.FieldTypeInt16,
		console.FieldTypeInt32, console.FieldTypeInt64,
		console.FieldTypeUint, console.FieldTypeUint8, console.FieldTypeUint16,
		console.FieldTypeUint32, console.FieldTypeUint64:
		return true
	}
	return false
}

// normalizeScalar converts validated form input into its storage type, mainly
// numeric strings typed into number inputs.
func normalizeScalar(field *console.Field, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch {
	case isIntType(field.Type):
		n, err := toInt64(value)
		if err != nil {
			return nil, console.NewConsoleError(console.ErrorTypeValidation, console.ErrCodeConversionFailed,
				fmt.Sprintf("%s cannot be converted to an integer", slugToTitle(field.Name))).
				WithField(field.Name).WithCause(err)
		}
		return n, nil
	case isFloatType(field.Type):
		f, err := toFloat64(value)
		if err != nil {
			return nil, console.NewConsoleError(console.ErrorTypeValidation, console.ErrCodeConversionFailed,
				fmt.Sprintf("%s cannot be converted to a number", slugToTitle(field.Name))).
				WithField(field.Name).WithCause(err)
		}
		return f, nil
	}
	return value, nil
}

func refsOfValue(value any) ([]console.ContentRef, bool) {
	switch items := value.(type) {
	case []console.ContentRef:
		return items, true
	case []console.Content:
		refs := make([]console.ContentRef, 0, len(items))
		for _, item := range items {
			if ref, ok := console.RefOf(item); ok {
				refs = append(refs, ref)
			}
		}
		return refs, true
	case []any:
		refs := make([]console.ContentRef, 0, len(items))
		for _, item := range items {
			ref, ok := console.RefOf(item)
			if !ok {
				return nil, false
			}
			refs = append(refs, ref)
		}
		return refs, true
	}
	return nil, false
}

// BuildSavePayload transforms validated form values into the wire payload the
// platform content API expects.
//
// On create the payload is the flat record; multiple-relation selections are
// carried as a bare reference array per field and omitted when empty. On
// update the payload is bucketed: scalar and single-relation assignments under
// "$set", relation additions under "$add", removals under "$clear" (an
// explicit nil single relation becomes `"$clear": true` for that field).
// Untouched relations and empty buckets never appear in the payload.
func BuildSavePayload(schema *console.Schema, values console.Content, existingID uint64) (console.Content, error) {
	if schema == nil {
		return nil, console.NewSchemaError(console.ErrCodeSchemaInvalid, "cannot build a save payload without a schema")
	}

	editing := existingID != 0
	payload := console.Content{}
	set := console.Content{}
	add := console.Content{}
	clear := console.Content{}

	assign := func(name string, value any) {
		if editing {
			set[name] = value
		} else {
			payload[name] = value
		}
	}

	for i := range schema.Fields {
		field := &schema.Fields[i]
		if console.IsReservedFieldName(field.Name) {
			continue
		}
		if field.IsSystemField && schema.Name != "user" {
			continue
		}
		value, ok := values[field.Name]
		if !ok {
			continue
		}

		if !field.Type.IsRelation() {
			normalized, err := normalizeScalar(field, value)
			if err != nil {
				return nil, err
			}
			assign(field.Name, normalized)
			continue
		}

		if !fieldIsMultiple(field) {
			if value == nil {
				if editing {
					clear[field.Name] = true
				}
				continue
			}
			ref, ok := console.RefOf(value)
			if !ok {
				return nil, console.NewConsoleError(console.ErrorTypeValidation, console.ErrCodeInvalidRelation,
					fmt.Sprintf("%s is not a valid record reference", slugToTitle(field.Name))).
					WithField(field.Name)
			}
			assign(field.Name, ref)
			continue
		}

		rv, ok := console.AsRelationValue(value)
		if !ok {
			refs, flat := refsOfValue(value)
			if value != nil && !flat {
				return nil, console.NewConsoleError(console.ErrorTypeValidation, console.ErrCodeInvalidRelation,
					fmt.Sprintf("%s is not a valid relation value", slugToTitle(field.Name))).
					WithField(field.Name)
			}
			rv = &console.RelationValue{Kind: console.RelationEditReplace, Items: refs}
		}

		switch rv.Kind {
		case console.RelationEditUnchanged:
			continue
		case console.RelationEditReplace:
			if len(rv.Items) == 0 {
				continue
			}
			if editing {
				add[field.Name] = rv.Items
			} else {
				payload[field.Name] = rv.Items
			}
		case console.RelationEditPatch:
			if editing {
				if len(rv.Add) > 0 {
					add[field.Name] = rv.Add
				}
				if len(rv.Clear) > 0 {
					clear[field.Name] = rv.Clear
				}
			} else if len(rv.Add) > 0 {
				payload[field.Name] = rv.Add
			}
		}
	}

	if editing {
		if len(set) > 0 {
			payload["$set"] = set
		}
		if len(add) > 0 {
			payload["$add"] = add
		}
		if len(clear) > 0 {
			payload["$clear"] = clear
		}
	}

	return payload, nil
}
