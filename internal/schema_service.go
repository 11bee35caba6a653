package internal

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/schemahub/console"
)

// SchemaService manages schema definitions through the platform API.
type SchemaService struct {
	client *Client
	logger *zap.Logger
}

// NewSchemaService creates a schema service.
func NewSchemaService(client *Client, logger *zap.Logger) *SchemaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchemaService{client: client, logger: logger}
}

// List returns all schemas except junction schemas, which only exist to back
// m2m relations and are never edited directly.
func (s *SchemaService) List(ctx context.Context) ([]*console.Schema, error) {
	var schemas []*console.Schema
	if err := s.client.Get(ctx, "/schema", nil, &schemas); err != nil {
		return nil, err
	}
	out := make([]*console.Schema, 0, len(schemas))
	for _, schema := range schemas {
		if schema.IsJunctionSchema {
			continue
		}
		out = append(out, schema)
	}
	return out, nil
}

// Get retrieves one schema by name.
func (s *SchemaService) Get(ctx context.Context, name string) (*console.Schema, error) {
	var schema console.Schema
	if err := s.client.Get(ctx, "/schema/"+name, nil, &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

// Create validates and creates a new schema.
func (s *SchemaService) Create(ctx context.Context, schema *console.Schema) (*console.Schema, error) {
	if err := ValidateSchema(schema); err != nil {
		return nil, err
	}
	var created console.Schema
	if err := s.client.Post(ctx, "/schema", schema, &created); err != nil {
		return nil, err
	}
	s.logger.Info("schema created", zap.String("schema", created.Name))
	return &created, nil
}

type schemaUpdatePayload struct {
	Schema       *console.Schema      `json:"schema"`
	RenameFields []console.RenameItem `json:"rename_fields,omitempty"`
}

// Update validates and updates an existing schema. Field renames are carried
// separately so the platform can migrate stored content.
func (s *SchemaService) Update(ctx context.Context, name string, schema *console.Schema, renames []console.RenameItem) (*console.Schema, error) {
	if err := ValidateSchema(schema); err != nil {
		return nil, err
	}
	var updated console.Schema
	payload := schemaUpdatePayload{Schema: schema, RenameFields: renames}
	if err := s.client.Put(ctx, "/schema/"+name, payload, &updated); err != nil {
		return nil, err
	}
	s.logger.Info("schema updated", zap.String("schema", name), zap.Int("renamed_fields", len(renames)))
	return &updated, nil
}

// Delete removes a schema and all its content.
func (s *SchemaService) Delete(ctx context.Context, name string) error {
	if err := s.client.Delete(ctx, "/schema/"+name, nil, nil); err != nil {
		return err
	}
	s.logger.Info("schema deleted", zap.String("schema", name))
	return nil
}

// labelCapableTypes are the field types a schema label field may have.
var labelCapableTypes = map[console.FieldType]struct{}{
	console.FieldTypeString: {},
	console.FieldTypeText:   {},
	console.FieldTypeEnum:   {},
	console.FieldTypeUUID:   {},
}

// CheckLabelField verifies the schema's label field exists and holds text.
func CheckLabelField(schema *console.Schema) error {
	if schema.LabelField == "" {
		return console.NewSchemaError(console.ErrCodeLabelFieldMissing,
			fmt.Sprintf("schema '%s' has no label field", schema.Name))
	}
	field := schema.FieldByName(schema.LabelField)
	if field == nil {
		return console.NewSchemaError(console.ErrCodeLabelFieldMissing,
			fmt.Sprintf("schema '%s' label field '%s' is not declared", schema.Name, schema.LabelField))
	}
	if _, ok := labelCapableTypes[field.Type]; !ok {
		return console.NewSchemaError(console.ErrCodeSchemaInvalid,
			fmt.Sprintf("schema '%s' label field '%s' must be a text field, got '%s'", schema.Name, schema.LabelField, field.Type))
	}
	return nil
}

// ValidateSchema checks a schema for internal consistency before it is sent
// to the platform: a usable label field, unique field names, and complete
// enum and relation declarations.
func ValidateSchema(schema *console.Schema) error {
	if schema == nil {
		return console.NewSchemaError(console.ErrCodeSchemaInvalid, "schema is nil")
	}
	if schema.Name == "" {
		return console.NewSchemaError(console.ErrCodeSchemaInvalid, "schema name is required")
	}
	if err := CheckLabelField(schema); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(schema.Fields))
	for i := range schema.Fields {
		field := &schema.Fields[i]
		if field.Name == "" {
			return console.NewSchemaError(console.ErrCodeSchemaInvalid,
				fmt.Sprintf("schema '%s' declares a field without a name", schema.Name))
		}
		if _, dup := seen[field.Name]; dup {
			return console.NewSchemaError(console.ErrCodeDuplicateField,
				fmt.Sprintf("schema '%s' declares field '%s' more than once", schema.Name, field.Name))
		}
		seen[field.Name] = struct{}{}

		if field.Type == console.FieldTypeEnum && len(field.Enums) == 0 {
			return console.NewSchemaError(console.ErrCodeSchemaInvalid,
				fmt.Sprintf("enum field '%s.%s' declares no values", schema.Name, field.Name))
		}
		if field.Type == console.FieldTypeRelation {
			if field.Relation == nil || field.Relation.Schema == "" {
				return console.NewSchemaError(console.ErrCodeSchemaInvalid,
					fmt.Sprintf("relation field '%s.%s' declares no target schema", schema.Name, field.Name))
			}
		}
	}
	return nil
}

// CachedSchemaProvider is a console.SchemaProvider that loads schemas through
// the schema service once and serves them from memory until invalidated.
type CachedSchemaProvider struct {
	service *SchemaService

	mu      sync.RWMutex
	schemas map[string]*console.Schema
	loaded  bool
}

// NewCachedSchemaProvider creates an empty provider backed by the service.
func NewCachedSchemaProvider(service *SchemaService) *CachedSchemaProvider {
	return &CachedSchemaProvider{service: service}
}

func (p *CachedSchemaProvider) load() error {
	p.mu.RLock()
	loaded := p.loaded
	p.mu.RUnlock()
	if loaded {
		return nil
	}

	schemas, err := p.service.List(context.Background())
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.schemas = make(map[string]*console.Schema, len(schemas))
	for _, schema := range schemas {
		p.schemas[schema.Name] = schema
	}
	p.loaded = true
	return nil
}

// SchemaByName implements console.SchemaProvider.
func (p *CachedSchemaProvider) SchemaByName(name string) (*console.Schema, error) {
	if err := p.load(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	schema, ok := p.schemas[name]
	if !ok {
		return nil, console.NewSchemaNotFoundError(name)
	}
	return schema, nil
}

// Schemas implements console.SchemaProvider.
func (p *CachedSchemaProvider) Schemas() ([]*console.Schema, error) {
	if err := p.load(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*console.Schema, 0, len(p.schemas))
	for _, schema := range p.schemas {
		out = append(out, schema)
	}
	return out, nil
}

// Invalidate drops the cache so the next lookup reloads from the platform.
func (p *CachedSchemaProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loaded = false
	p.schemas = nil
}
