package internal

import (
	"github.com/schemahub/console"
)

// FormMode distinguishes the create and edit lifecycles of a form. Relation
// defaults differ between the two: a fresh record starts with an empty
// reference list, while an edited record starts untouched.
type FormMode string

const (
	FormModeCreate FormMode = "create"
	FormModeEdit   FormMode = "edit"
)

// fieldSpec is the per-type behavior entry of the field type registry: how to
// build the validation rule and the initial form value for a field of that
// type.
type fieldSpec struct {
	rule         func(field *console.Field, label string) Rule
	defaultValue func(field *console.Field, mode FormMode) (any, bool)
}

func scalarDefault(field *console.Field, _ FormMode) (any, bool) {
	if field.Default == nil {
		return nil, false
	}
	return field.DefaultString(), true
}

func boolDefault(field *console.Field, _ FormMode) (any, bool) {
	return field.DefaultString() == "true", true
}

func intDefault(field *console.Field, _ FormMode) (any, bool) {
	if field.Default == nil {
		return nil, false
	}
	n, err := toInt64(field.DefaultString())
	if err != nil {
		return nil, false
	}
	return n, true
}

func floatDefault(field *console.Field, _ FormMode) (any, bool) {
	if field.Default == nil {
		return nil, false
	}
	f, err := toFloat64(field.DefaultString())
	if err != nil {
		return nil, false
	}
	return f, true
}

func enumDefault(field *console.Field, _ FormMode) (any, bool) {
	if field.Default != nil {
		return field.DefaultString(), true
	}
	if len(field.Enums) > 0 {
		return field.Enums[0].Value, true
	}
	return nil, false
}

func jsonDefault(field *console.Field, _ FormMode) (any, bool) {
	if field.Default == nil {
		return nil, false
	}
	return field.Default, true
}

// relationDefault yields the initial relation value: an empty reference list
// for multiple relations on create, the untouched sentinel on edit, and an
// explicit nil for optional single relations.
func relationDefault(field *console.Field, mode FormMode) (any, bool) {
	if fieldIsMultiple(field) {
		if mode == FormModeEdit {
			return console.Unchanged(), true
		}
		return []console.ContentRef{}, true
	}
	if field.Relation != nil && field.Relation.Optional {
		return nil, true
	}
	return nil, false
}

func fieldIsMultiple(field *console.Field) bool {
	if field.Relation != nil {
		return field.Relation.IsMultiple()
	}
	return field.Multiple
}

func stringFieldRule(field *console.Field, label string) Rule {
	if field.Optional {
		return stringRule(label)
	}
	return requiredStringRule(label)
}

func relationFieldRule(field *console.Field, label string) Rule {
	if fieldIsMultiple(field) {
		return relationArrayRule(label)
	}
	return relationSingleRule(label)
}

func plainRule(build func(label string) Rule) func(*console.Field, string) Rule {
	return func(_ *console.Field, label string) Rule {
		return build(label)
	}
}

func builtinFieldSpecs() map[console.FieldType]fieldSpec {
	stringSpec := fieldSpec{rule: stringFieldRule, defaultValue: scalarDefault}
	textSpec := fieldSpec{rule: plainRule(stringRule), defaultValue: scalarDefault}
	intSpec := fieldSpec{rule: plainRule(intRule), defaultValue: intDefault}
	uintSpec := fieldSpec{rule: plainRule(uintRule), defaultValue: intDefault}
	floatSpec := fieldSpec{rule: plainRule(floatRule), defaultValue: floatDefault}
	relationSpec := fieldSpec{rule: relationFieldRule, defaultValue: relationDefault}

	return map[console.FieldType]fieldSpec{
		console.FieldTypeString: stringSpec,
		console.FieldTypeText:   textSpec,
		console.FieldTypeUUID:   textSpec,
		console.FieldTypeBytes:  textSpec,
		console.FieldTypeBool:   {rule: plainRule(boolRule), defaultValue: boolDefault},
		console.FieldTypeTime:   {rule: plainRule(timeRule), defaultValue: scalarDefault},
		console.FieldTypeJSON: {
			rule:         func(_ *console.Field, _ string) Rule { return jsonRule() },
			defaultValue: jsonDefault,
		},
		console.FieldTypeEnum: {
			rule: func(field *console.Field, label string) Rule {
				return enumRule(label, field.Enums)
			},
			defaultValue: enumDefault,
		},
		console.FieldTypeInt:      intSpec,
		console.FieldTypeInt8:     intSpec,
		console.FieldTypeInt16:    intSpec,
		console.FieldTypeInt32:    intSpec,
		console.FieldTypeInt64:    intSpec,
		console.FieldTypeUint:     uintSpec,
		console.FieldTypeUint8:    uintSpec,
		console.FieldTypeUint16:   uintSpec,
		console.FieldTypeUint32:   uintSpec,
		console.FieldTypeUint64:   uintSpec,
		console.FieldTypeFloat32:  floatSpec,
		console.FieldTypeFloat64:  floatSpec,
		console.FieldTypeRelation: relationSpec,
		console.FieldTypeMedia:    relationSpec,
		console.FieldTypeFile:     relationSpec,
	}
}

// FieldTypeRegistry maps field types to their validation and default-value
// behavior. Unknown types fall back to plain string handling so a schema
// declaring a newer type than this build still produces a usable form.
type FieldTypeRegistry struct {
	specs map[console.FieldType]fieldSpec
}

// NewFieldTypeRegistry creates a registry preloaded with the builtin types.
func NewFieldTypeRegistry() *FieldTypeRegistry {
	return &FieldTypeRegistry{specs: builtinFieldSpecs()}
}

// Register installs or replaces the behavior for a field type.
func (r *FieldTypeRegistry) Register(t console.FieldType, rule func(*console.Field, string) Rule, defaultValue func(*console.Field, FormMode) (any, bool)) {
	r.specs[t] = fieldSpec{rule: rule, defaultValue: defaultValue}
}

// Known reports whether the type has a registered behavior.
func (r *FieldTypeRegistry) Known(t console.FieldType) bool {
	_, ok := r.specs[t]
	return ok
}

func (r *FieldTypeRegistry) resolve(t console.FieldType) fieldSpec {
	if spec, ok := r.specs[t]; ok {
		return spec
	}
	return fieldSpec{rule: stringFieldRule, defaultValue: scalarDefault}
}

// New binds a schema field to its type behavior for the given form mode.
func (r *FieldTypeRegistry) New(field *console.Field, mode FormMode) *FieldInstance {
	return &FieldInstance{
		field: field,
		spec:  r.resolve(field.Type),
		mode:  mode,
	}
}

// FieldInstance is one schema field bound to its registry behavior and the
// current form mode.
type FieldInstance struct {
	field *console.Field
	spec  fieldSpec
	mode  FormMode
}

// Field returns the underlying schema field.
func (i *FieldInstance) Field() *console.Field {
	return i.field
}

// Mode returns the form mode the instance was created for.
func (i *FieldInstance) Mode() FormMode {
	return i.mode
}

// Label returns the declared label, falling back to a title derived from the
// field name.
func (i *FieldInstance) Label() string {
	if i.field.Label != "" {
		return i.field.Label
	}
	return slugToTitle(i.field.Name)
}

// IsLocked reports whether the field is one of the reserved identity and
// timestamp fields that forms never expose.
func (i *FieldInstance) IsLocked() bool {
	return console.IsReservedFieldName(i.field.Name)
}

// IsSystemField reports whether the platform manages this field.
func (i *FieldInstance) IsSystemField() bool {
	return i.field.IsSystemField
}

// IsMultiple reports whether the field holds arbitrarily many related records.
func (i *FieldInstance) IsMultiple() bool {
	return fieldIsMultiple(i.field)
}

// ValidationRule builds the field's rule. Messages use the title derived from
// the field name so they read naturally. Optional fields accept nil.
func (i *FieldInstance) ValidationRule() Rule {
	rule := i.spec.rule(i.field, slugToTitle(i.field.Name))
	if i.field.Optional {
		return Optional(rule)
	}
	if i.field.Type.IsRelation() && i.field.Relation != nil && i.field.Relation.Optional {
		return Optional(rule)
	}
	return rule
}

// DefaultValue returns the initial form value for the field. The second return
// reports presence: a false means the field is omitted from the defaults map
// entirely rather than set to nil.
func (i *FieldInstance) DefaultValue() (any, bool) {
	return i.spec.defaultValue(i.field, i.mode)
}
