package internal

import (
	"github.com/schemahub/console"
)

// RenderNode is one node of the framework-agnostic UI manifest a compiled form
// produces. Consumers map Component names onto their widget set; Props carry
// everything the widget needs to draw and bind the field.
type RenderNode struct {
	Component string         `json:"component"`
	Props     map[string]any `json:"props,omitempty"`
	Children  []*RenderNode  `json:"children,omitempty"`
}

// Prop returns a prop by name, or nil.
func (n *RenderNode) Prop(name string) any {
	if n == nil || n.Props == nil {
		return nil
	}
	return n.Props[name]
}

// Renderer turns a bound field and its current value into a render node, and
// declares the per-field settings it understands.
type Renderer interface {
	// Class is the stable identifier schemas reference via renderer.class.
	Class() string
	// Render produces the manifest node for the field.
	Render(instance *FieldInstance, value any) *RenderNode
	// Settings lists the renderer-specific settings fields, if any.
	Settings() []console.Field
}

// SettingHideFormLabel is understood by every renderer: when true the widget
// suppresses its form label.
const SettingHideFormLabel = "hide_form_label"

// builtinRendererSettings are offered for every renderer class.
func builtinRendererSettings() []console.Field {
	return []console.Field{
		{
			Type:  console.FieldTypeBool,
			Name:  SettingHideFormLabel,
			Label: "Hide Form Label",
		},
	}
}

// RendererRegistry maps renderer classes to implementations and field types to
// their candidate renderer classes, in priority order.
type RendererRegistry struct {
	byClass map[string]Renderer
	byType  map[console.FieldType][]string
}

// NewRendererRegistry creates a registry preloaded with the builtin renderers
// and the default type-to-renderer assignments.
func NewRendererRegistry() *RendererRegistry {
	r := &RendererRegistry{
		byClass: make(map[string]Renderer),
		byType:  make(map[console.FieldType][]string),
	}
	registerBuiltinRenderers(r)
	return r
}

// Register installs a renderer and appends its class to the candidate list of
// each given field type. Registering an existing class replaces the
// implementation without duplicating candidate entries.
func (r *RendererRegistry) Register(renderer Renderer, types ...console.FieldType) {
	class := renderer.Class()
	_, replacing := r.byClass[class]
	r.byClass[class] = renderer
	if replacing {
		return
	}
	for _, t := range types {
		r.byType[t] = append(r.byType[t], class)
	}
}

// Renderer returns the implementation registered under the class.
func (r *RendererRegistry) Renderer(class string) (Renderer, bool) {
	renderer, ok := r.byClass[class]
	return renderer, ok
}

// RenderersFor returns the candidate renderers of a field type in priority
// order. The first entry is the type's default.
func (r *RendererRegistry) RenderersFor(t console.FieldType) []Renderer {
	classes := r.byType[t]
	out := make([]Renderer, 0, len(classes))
	for _, class := range classes {
		if renderer, ok := r.byClass[class]; ok {
			out = append(out, renderer)
		}
	}
	return out
}

// Resolve picks the renderer for a field: the declared renderer.class when it
// is registered, otherwise the type's default, otherwise the input renderer.
func (r *RendererRegistry) Resolve(field *console.Field) Renderer {
	if field.Renderer != nil && field.Renderer.Class != "" {
		if renderer, ok := r.byClass[field.Renderer.Class]; ok {
			return renderer
		}
	}
	if candidates := r.RenderersFor(field.Type); len(candidates) > 0 {
		return candidates[0]
	}
	return r.byClass[RendererInput]
}

// SettingsFor returns the combined settings of a renderer class: the builtin
// settings every renderer understands plus the class's own.
func (r *RendererRegistry) SettingsFor(class string) []console.Field {
	settings := builtinRendererSettings()
	if renderer, ok := r.byClass[class]; ok {
		settings = append(settings, renderer.Settings()...)
	}
	return settings
}
