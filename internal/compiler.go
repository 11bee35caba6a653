package internal

import (
	"go.uber.org/zap"

	"github.com/schemahub/console"
)

// FieldBinding ties one form field to its type behavior and resolved renderer.
type FieldBinding struct {
	Instance *FieldInstance
	Renderer Renderer
}

// Name returns the bound field's name.
func (b *FieldBinding) Name() string {
	return b.Instance.Field().Name
}

// Form is a compiled, ready-to-render form: the validation contract, the
// current values and the field bindings, all in schema declaration order.
type Form struct {
	Schema   *console.Schema
	Mode     FormMode
	Bindings []*FieldBinding

	contract *Contract
	values   console.Content
}

// Binding returns the binding for a field name, or nil.
func (f *Form) Binding(name string) *FieldBinding {
	for _, b := range f.Bindings {
		if b.Name() == name {
			return b
		}
	}
	return nil
}

// Contract returns the form's validation contract.
func (f *Form) Contract() *Contract {
	return f.contract
}

// Values returns the live form values.
func (f *Form) Values() console.Content {
	return f.values
}

// Value returns the current value of a field and whether it is set.
func (f *Form) Value(name string) (any, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Set updates a form value.
func (f *Form) Set(name string, value any) {
	f.values[name] = value
}

// Validate runs the contract against the current values. A nil return means
// the form can be saved.
func (f *Form) Validate() error {
	return f.contract.Validate(f.values)
}

// Manifest renders the whole form into a UI manifest tree.
func (f *Form) Manifest() *RenderNode {
	root := &RenderNode{
		Component: "form",
		Props: map[string]any{
			"schema": f.Schema.Name,
			"mode":   string(f.Mode),
		},
	}
	for _, b := range f.Bindings {
		value := f.values[b.Name()]
		root.Children = append(root.Children, b.Renderer.Render(b.Instance, value))
	}
	return root
}

// Compiler turns schemas into forms using injected type and renderer
// registries.
type Compiler struct {
	types     *FieldTypeRegistry
	renderers *RendererRegistry
	logger    *zap.Logger
}

// NewCompiler creates a compiler. A nil logger disables logging.
func NewCompiler(types *FieldTypeRegistry, renderers *RendererRegistry, logger *zap.Logger) *Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compiler{types: types, renderers: renderers, logger: logger}
}

// Compile builds the form for a schema. The mode is derived from the content:
// a record with an id compiles an edit form, anything else a create form.
// Content values take precedence over field defaults. Reserved identity and
// timestamp fields are always skipped; system-managed fields are skipped for
// every schema except "user", whose system fields stay editable.
func (c *Compiler) Compile(schema *console.Schema, content console.Content) (*Form, error) {
	if schema == nil {
		return nil, console.NewSchemaError(console.ErrCodeSchemaInvalid, "cannot compile a nil schema")
	}

	mode := FormModeCreate
	if content.ID() != 0 {
		mode = FormModeEdit
	}

	form := &Form{
		Schema:   schema,
		Mode:     mode,
		contract: NewContract(),
		values:   console.Content{},
	}

	seen := make(map[string]struct{}, len(schema.Fields))
	for i := range schema.Fields {
		field := &schema.Fields[i]
		// duplicate names are rejected at schema-save time; a stale schema
		// still compiles, first declaration wins
		if _, dup := seen[field.Name]; dup {
			c.logger.Debug("skipping duplicate field declaration",
				zap.String("schema", schema.Name),
				zap.String("field", field.Name))
			continue
		}
		seen[field.Name] = struct{}{}

		instance := c.types.New(field, mode)
		if instance.IsLocked() {
			continue
		}
		if instance.IsSystemField() && schema.Name != "user" {
			continue
		}
		if !c.types.Known(field.Type) {
			c.logger.Debug("unknown field type, falling back to string behavior",
				zap.String("schema", schema.Name),
				zap.String("field", field.Name),
				zap.String("type", string(field.Type)))
		}

		form.contract.Add(field.Name, instance.ValidationRule())

		// a null in the record is treated like an absent value, so the
		// field still picks up its default
		if value, ok := content[field.Name]; ok && value != nil {
			form.values[field.Name] = value
		} else if dv, present := instance.DefaultValue(); present {
			form.values[field.Name] = dv
		}

		form.Bindings = append(form.Bindings, &FieldBinding{
			Instance: instance,
			Renderer: c.renderers.Resolve(field),
		})
	}

	return form, nil
}

// RendererSettingPrefix namespaces renderer setting fields inside the schema
// editor form so they cannot collide with schema field names.
const RendererSettingPrefix = "renderer.settings."

// RenderSettings compiles the settings form of a renderer class. Every
// setting is optional and its field name is prefixed with
// RendererSettingPrefix; current values are taken from the given renderer
// reference.
func (c *Compiler) RenderSettings(class string, ref *console.RendererRef) (*Form, error) {
	fields := c.renderers.SettingsFor(class)

	schema := &console.Schema{Name: "renderer_settings"}
	content := console.Content{}
	for _, field := range fields {
		name := field.Name
		field.Name = RendererSettingPrefix + name
		field.Optional = true
		schema.Fields = append(schema.Fields, field)
		if ref != nil && ref.Settings != nil {
			if v, ok := ref.Settings[name]; ok {
				content[field.Name] = v
			}
		}
	}

	return c.Compile(schema, content)
}
