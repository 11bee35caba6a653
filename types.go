package console

import (
	"encoding/json"
	"fmt"
)

// FieldType enumerates the scalar and complex field types a schema may declare.
type FieldType string

const (
	FieldTypeBool     FieldType = "bool"
	FieldTypeTime     FieldType = "time"
	FieldTypeJSON     FieldType = "json"
	FieldTypeUUID     FieldType = "uuid"
	FieldTypeBytes    FieldType = "bytes"
	FieldTypeEnum     FieldType = "enum"
	FieldTypeString   FieldType = "string"
	FieldTypeText     FieldType = "text"
	FieldTypeInt      FieldType = "int"
	FieldTypeInt8     FieldType = "int8"
	FieldTypeInt16    FieldType = "int16"
	FieldTypeInt32    FieldType = "int32"
	FieldTypeInt64    FieldType = "int64"
	FieldTypeUint     FieldType = "uint"
	FieldTypeUint8    FieldType = "uint8"
	FieldTypeUint16   FieldType = "uint16"
	FieldTypeUint32   FieldType = "uint32"
	FieldTypeUint64   FieldType = "uint64"
	FieldTypeFloat32  FieldType = "float32"
	FieldTypeFloat64  FieldType = "float64"
	FieldTypeRelation FieldType = "relation"
	FieldTypeMedia    FieldType = "media"
	FieldTypeFile     FieldType = "file"
)

// IsRelation reports whether the type links to records of another schema.
func (t FieldType) IsRelation() bool {
	return t == FieldTypeRelation || t == FieldTypeMedia || t == FieldTypeFile
}

// RelationType defines the cardinality class of a relation.
type RelationType string

const (
	RelationO2O RelationType = "o2o"
	RelationO2M RelationType = "o2m"
	RelationM2M RelationType = "m2m"
)

// FieldRelation describes the link between a relation field and its target schema.
type FieldRelation struct {
	Schema        string            `json:"schema"`
	Field         string            `json:"field"`
	Type          RelationType      `json:"type"`
	Owner         bool              `json:"owner,omitempty"`
	Optional      bool              `json:"optional,omitempty"`
	FKColumns     map[string]string `json:"fk_columns,omitempty"`
	JunctionTable string            `json:"junction_table,omitempty"`
}

// IsMultiple reports whether the relation holds arbitrarily many linked records.
// A relation is multiple iff it is m2m, or it is o2m and this side is the owner.
// Every other combination holds at most one related item.
func (r *FieldRelation) IsMultiple() bool {
	if r == nil {
		return false
	}
	return r.Type == RelationM2M || (r.Type == RelationO2M && r.Owner)
}

// FieldEnum is one selectable value of an enum field.
type FieldEnum struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldDB carries storage hints that the console round-trips but never interprets.
type FieldDB struct {
	Attr      string `json:"attr,omitempty"`
	Collation string `json:"collation,omitempty"`
	Increment bool   `json:"increment,omitempty"`
	Key       string `json:"key,omitempty"`
}

// RendererRef selects a renderer class and its per-field settings.
type RendererRef struct {
	Class    string         `json:"class,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
}

// Setting returns a renderer setting by name, or nil.
func (r *RendererRef) Setting(name string) any {
	if r == nil || r.Settings == nil {
		return nil
	}
	return r.Settings[name]
}

// Field is one typed, named attribute of a schema.
type Field struct {
	Type          FieldType      `json:"type"`
	Name          string         `json:"name"`
	Label         string         `json:"label"`
	ServerName    string         `json:"server_name,omitempty"`
	Multiple      bool           `json:"multiple,omitempty"`
	Optional      bool           `json:"optional,omitempty"`
	Unique        bool           `json:"unique,omitempty"`
	Sortable      bool           `json:"sortable,omitempty"`
	Filterable    bool           `json:"filterable,omitempty"`
	IsSystemField bool           `json:"is_system_field,omitempty"`
	Size          int            `json:"size,omitempty"`
	Default       any            `json:"default,omitempty"`
	Enums         []FieldEnum    `json:"enums,omitempty"`
	Relation      *FieldRelation `json:"relation,omitempty"`
	Renderer      *RendererRef   `json:"renderer,omitempty"`
	DB            *FieldDB       `json:"db,omitempty"`
}

// DefaultString returns the declared default coerced to a string, or "" when unset.
func (f *Field) DefaultString() string {
	if f.Default == nil {
		return ""
	}
	if s, ok := f.Default.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", f.Default)
}

// Schema is a user-defined description of a content type, akin to a table definition.
type Schema struct {
	Name             string  `json:"name"`
	Namespace        string  `json:"namespace"`
	LabelField       string  `json:"label_field"`
	DisableTimestamp bool    `json:"disable_timestamp"`
	IsSystemSchema   bool    `json:"is_system_schema,omitempty"`
	IsJunctionSchema bool    `json:"is_junction_schema,omitempty"`
	Fields           []Field `json:"fields"`
}

// FieldByName returns the declared field with the given name, or nil.
func (s *Schema) FieldByName(name string) *Field {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// RenameItem records a field rename to be applied on schema update.
type RenameItem struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Reserved identity/timestamp field names. These are never user-editable
// regardless of schema declaration.
const (
	FieldNameID        = "id"
	FieldNameCreatedAt = "created_at"
	FieldNameUpdatedAt = "updated_at"
	FieldNameDeletedAt = "deleted_at"
)

// IsReservedFieldName reports whether name is one of the reserved
// identity/timestamp fields.
func IsReservedFieldName(name string) bool {
	switch name {
	case FieldNameID, FieldNameCreatedAt, FieldNameUpdatedAt, FieldNameDeletedAt:
		return true
	}
	return false
}

// Content is an open record of field name -> value.
type Content map[string]any

// ID returns the record's numeric id, or 0 when absent.
func (c Content) ID() uint64 {
	if c == nil {
		return 0
	}
	return toID(c[FieldNameID])
}

func toID(v any) uint64 {
	switch id := v.(type) {
	case uint64:
		return id
	case uint:
		return uint64(id)
	case int:
		if id > 0 {
			return uint64(id)
		}
	case int64:
		if id > 0 {
			return uint64(id)
		}
	case float64:
		if id > 0 {
			return uint64(id)
		}
	case json.Number:
		if n, err := id.Int64(); err == nil && n > 0 {
			return uint64(n)
		}
	}
	return 0
}

// ContentRef is the minimal wire representation of a linked record.
type ContentRef struct {
	ID uint64 `json:"id"`
}

// RefOf extracts a ContentRef from a record-like value.
func RefOf(v any) (ContentRef, bool) {
	switch item := v.(type) {
	case ContentRef:
		return item, item.ID != 0
	case *ContentRef:
		if item == nil {
			return ContentRef{}, false
		}
		return *item, item.ID != 0
	case Content:
		id := item.ID()
		return ContentRef{ID: id}, id != 0
	case map[string]any:
		id := toID(item[FieldNameID])
		return ContentRef{ID: id}, id != 0
	}
	return ContentRef{}, false
}

// RelationEditKind discriminates the states a multiple-relation field value
// can be in while a record is edited.
type RelationEditKind string

const (
	// RelationEditUnchanged marks a relation the user has not touched.
	RelationEditUnchanged RelationEditKind = "unchanged"
	// RelationEditReplace carries the full new set of linked records (create path).
	RelationEditReplace RelationEditKind = "replace"
	// RelationEditPatch carries incremental add/clear sets (update path).
	RelationEditPatch RelationEditKind = "patch"
)

// RelationValue is the tagged form value of a multiple-cardinality relation
// field. On the wire it collapses to the sentinel shapes the platform API
// expects: `{"$nochange":true,...}` for an untouched relation,
// `{"$add":[...],"$clear":[...]}` for an incremental update, or a plain array
// for a full replace.
type RelationValue struct {
	Kind  RelationEditKind
	Items []ContentRef // replace
	Add   []ContentRef // patch
	Clear []ContentRef // patch
}

// Unchanged returns the untouched-relation sentinel value.
func Unchanged() *RelationValue {
	return &RelationValue{Kind: RelationEditUnchanged, Add: []ContentRef{}, Clear: []ContentRef{}}
}

type relationValueWire struct {
	NoChange *bool        `json:"$nochange,omitempty"`
	Add      []ContentRef `json:"$add,omitempty"`
	Clear    []ContentRef `json:"$clear,omitempty"`
}

// MarshalJSON emits the platform wire shape for each edit kind.
func (v *RelationValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case RelationEditReplace:
		items := v.Items
		if items == nil {
			items = []ContentRef{}
		}
		return json.Marshal(items)
	case RelationEditUnchanged:
		return json.Marshal(struct {
			NoChange bool         `json:"$nochange"`
			Add      []ContentRef `json:"$add"`
			Clear    []ContentRef `json:"$clear"`
		}{NoChange: true, Add: []ContentRef{}, Clear: []ContentRef{}})
	case RelationEditPatch:
		return json.Marshal(relationValueWire{Add: v.Add, Clear: v.Clear})
	}
	return nil, fmt.Errorf("relation value has unknown kind %q", v.Kind)
}

// UnmarshalJSON probes the payload shape and restores the matching edit kind.
func (v *RelationValue) UnmarshalJSON(data []byte) error {
	if firstNonSpace(data) == '[' {
		var items []ContentRef
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		v.Kind = RelationEditReplace
		v.Items = items
		return nil
	}

	var wire relationValueWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	if wire.NoChange != nil && *wire.NoChange {
		v.Kind = RelationEditUnchanged
		v.Add = wire.Add
		v.Clear = wire.Clear
		return nil
	}

	if wire.Add == nil && wire.Clear == nil {
		return fmt.Errorf("invalid relation value: expected '$nochange', '$add' or '$clear'")
	}

	v.Kind = RelationEditPatch
	v.Add = wire.Add
	v.Clear = wire.Clear
	return nil
}

func firstNonSpace(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}

// AsRelationValue normalizes a form value into a RelationValue. It accepts the
// typed variant as well as the raw sentinel map shape produced by decoding
// JSON form state.
func AsRelationValue(v any) (*RelationValue, bool) {
	switch rv := v.(type) {
	case *RelationValue:
		return rv, rv != nil
	case RelationValue:
		return &rv, true
	case map[string]any:
		return relationValueFromMap(rv)
	case Content:
		return relationValueFromMap(rv)
	}
	return nil, false
}

func relationValueFromMap(m map[string]any) (*RelationValue, bool) {
	noChange, hasNoChange := m["$nochange"]
	add, hasAdd := m["$add"]
	cleared, hasClear := m["$clear"]
	if !hasNoChange && !hasAdd && !hasClear {
		return nil, false
	}

	if b, ok := noChange.(bool); ok && b {
		return Unchanged(), true
	}

	out := &RelationValue{Kind: RelationEditPatch}
	if hasAdd {
		out.Add = refsOf(add)
	}
	if hasClear {
		out.Clear = refsOf(cleared)
	}
	return out, true
}

func refsOf(v any) []ContentRef {
	switch items := v.(type) {
	case []ContentRef:
		return items
	case []any:
		refs := make([]ContentRef, 0, len(items))
		for _, item := range items {
			if ref, ok := RefOf(item); ok {
				refs = append(refs, ref)
			}
		}
		return refs
	case []Content:
		refs := make([]ContentRef, 0, len(items))
		for _, item := range items {
			if ref, ok := RefOf(item); ok {
				refs = append(refs, ref)
			}
		}
		return refs
	}
	return nil
}

// Pagination describes one page of a listing response.
type Pagination struct {
	Total       int `json:"total"`
	PerPage     int `json:"per_page"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
}

// Page is a paginated listing response.
type Page[T any] struct {
	Pagination
	Items []T `json:"items"`
}

// ListParams are the query options accepted by listing endpoints.
type ListParams struct {
	Filter Filter `json:"filter,omitempty"`
	Page   int    `json:"page,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Sort   string `json:"sort,omitempty"`
	Select string `json:"select,omitempty"`
}
