package internal

import (
	"github.com/schemahub/console"
)

// Builtin renderer classes.
const (
	RendererInput    = "input"
	RendererTextarea = "textarea"
	RendererColor    = "color"
	RendererEditor   = "editor"
	RendererSwitch   = "switch"
	RendererNumber   = "number"
	RendererDatetime = "datetime"
	RendererEnum     = "enum"
	RendererRelation = "relation"
	RendererMedia    = "media"
)

// SettingInlineLabel positions the switch renderer's inline label.
const SettingInlineLabel = "inline_label"

func fieldProps(instance *FieldInstance, value any) map[string]any {
	field := instance.Field()
	props := map[string]any{
		"name":  field.Name,
		"label": instance.Label(),
	}
	if field.Optional {
		props["optional"] = true
	}
	if value != nil {
		props["value"] = value
	}
	if hide, err := toBool(field.Renderer.Setting(SettingHideFormLabel)); err == nil && hide {
		props["hide_label"] = true
	}
	return props
}

// simpleRenderer covers every builtin: a component name plus an optional
// per-class prop decorator.
type simpleRenderer struct {
	class    string
	settings []console.Field
	decorate func(instance *FieldInstance, value any, props map[string]any)
}

func (r *simpleRenderer) Class() string {
	return r.class
}

func (r *simpleRenderer) Settings() []console.Field {
	return r.settings
}

func (r *simpleRenderer) Render(instance *FieldInstance, value any) *RenderNode {
	props := fieldProps(instance, value)
	if r.decorate != nil {
		r.decorate(instance, value, props)
	}
	return &RenderNode{Component: r.class, Props: props}
}

func isFloatType(t console.FieldType) bool {
	return t == console.FieldTypeFloat32 || t == console.FieldTypeFloat64
}

func registerBuiltinRenderers(r *RendererRegistry) {
	r.Register(&simpleRenderer{class: RendererInput},
		console.FieldTypeString, console.FieldTypeUUID)

	r.Register(&simpleRenderer{class: RendererTextarea},
		console.FieldTypeString, console.FieldTypeText,
		console.FieldTypeJSON, console.FieldTypeBytes)

	r.Register(&simpleRenderer{class: RendererColor},
		console.FieldTypeString)

	r.Register(&simpleRenderer{class: RendererEditor},
		console.FieldTypeText)

	r.Register(&simpleRenderer{
		class: RendererSwitch,
		settings: []console.Field{
			{
				Type:  console.FieldTypeEnum,
				Name:  SettingInlineLabel,
				Label: "Inline Label",
				Enums: []console.FieldEnum{
					{Value: "none", Label: "None"},
					{Value: "left", Label: "Left"},
					{Value: "right", Label: "Right"},
					{Value: "boxed", Label: "Boxed"},
				},
			},
		},
		decorate: func(instance *FieldInstance, _ any, props map[string]any) {
			if pos := instance.Field().Renderer.Setting(SettingInlineLabel); pos != nil {
				props[SettingInlineLabel] = pos
			}
		},
	}, console.FieldTypeBool)

	r.Register(&simpleRenderer{
		class: RendererNumber,
		decorate: func(instance *FieldInstance, _ any, props map[string]any) {
			if isFloatType(instance.Field().Type) {
				props["step"] = "any"
			}
		},
	},
		console.FieldTypeInt, console.FieldTypeInt8, console.FieldTypeInt16,
		console.FieldTypeInt32, console.FieldTypeInt64,
		console.FieldTypeUint, console.FieldTypeUint8, console.FieldTypeUint16,
		console.FieldTypeUint32, console.FieldTypeUint64,
		console.FieldTypeFloat32, console.FieldTypeFloat64)

	r.Register(&simpleRenderer{class: RendererDatetime},
		console.FieldTypeTime)

	r.Register(&simpleRenderer{
		class: RendererEnum,
		decorate: func(instance *FieldInstance, _ any, props map[string]any) {
			props["options"] = instance.Field().Enums
		},
	}, console.FieldTypeEnum)

	r.Register(&simpleRenderer{
		class: RendererRelation,
		decorate: func(instance *FieldInstance, _ any, props map[string]any) {
			props["multiple"] = instance.IsMultiple()
			if rel := instance.Field().Relation; rel != nil {
				props["schema"] = rel.Schema
			}
		},
	}, console.FieldTypeRelation)

	r.Register(&simpleRenderer{
		class: RendererMedia,
		decorate: func(instance *FieldInstance, _ any, props map[string]any) {
			props["multiple"] = instance.IsMultiple()
		},
	}, console.FieldTypeMedia, console.FieldTypeFile)
}
