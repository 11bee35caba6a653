package internal

import (
	"github.com/schemahub/console"
)

// blogSchema is the shared fixture: a post schema exercising every field
// category the compiler handles.
func blogSchema() *console.Schema {
	return &console.Schema{
		Name:       "post",
		Namespace:  "posts",
		LabelField: "title",
		Fields: []console.Field{
			{Type: console.FieldTypeUint64, Name: "id", Label: "ID"},
			{Type: console.FieldTypeString, Name: "title", Label: "Title"},
			{Type: console.FieldTypeText, Name: "body", Label: "Body", Optional: true},
			{Type: console.FieldTypeEnum, Name: "status", Label: "Status", Enums: []console.FieldEnum{
				{Value: "draft", Label: "Draft"},
				{Value: "published", Label: "Published"},
			}},
			{Type: console.FieldTypeBool, Name: "featured", Label: "Featured", Default: "true"},
			{Type: console.FieldTypeInt, Name: "view_count", Label: "View Count", Default: "5", Optional: true},
			{Type: console.FieldTypeFloat32, Name: "rating", Label: "Rating", Default: "5", Optional: true},
			{Type: console.FieldTypeString, Name: "internal_note", Label: "Internal Note", IsSystemField: true},
			{
				Type: console.FieldTypeRelation, Name: "author", Label: "Author",
				Relation: &console.FieldRelation{Schema: "user", Field: "posts", Type: console.RelationO2M, Optional: true},
			},
			{
				Type: console.FieldTypeRelation, Name: "tags", Label: "Tags",
				Relation: &console.FieldRelation{Schema: "tag", Field: "posts", Type: console.RelationM2M},
			},
			{Type: console.FieldTypeTime, Name: "created_at", Label: "Created At"},
			{Type: console.FieldTypeTime, Name: "updated_at", Label: "Updated At"},
		},
	}
}

func tagsField() *console.Field {
	return blogSchema().FieldByName("tags")
}

func authorField() *console.Field {
	return blogSchema().FieldByName("author")
}

type stubSchemaProvider struct {
	schemas map[string]*console.Schema
}

func newStubSchemaProvider(schemas ...*console.Schema) *stubSchemaProvider {
	p := &stubSchemaProvider{schemas: make(map[string]*console.Schema)}
	for _, s := range schemas {
		p.schemas[s.Name] = s
	}
	return p
}

func (p *stubSchemaProvider) SchemaByName(name string) (*console.Schema, error) {
	schema, ok := p.schemas[name]
	if !ok {
		return nil, console.NewSchemaNotFoundError(name)
	}
	return schema, nil
}

func (p *stubSchemaProvider) Schemas() ([]*console.Schema, error) {
	out := make([]*console.Schema, 0, len(p.schemas))
	for _, schema := range p.schemas {
		out = append(out, schema)
	}
	return out, nil
}
