package internal

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/schemahub/console"
)

// ContentService reads and writes records through the platform content API.
type ContentService struct {
	client   *Client
	schemas  console.SchemaProvider
	pageSize int
	logger   *zap.Logger
}

// NewContentService creates a content service. pageSize bounds relation
// browser queries; zero falls back to the configured default.
func NewContentService(client *Client, schemas console.SchemaProvider, pageSize int, logger *zap.Logger) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pageSize <= 0 {
		pageSize = console.DefaultConfig().Form.RelationPageSize
	}
	return &ContentService{client: client, schemas: schemas, pageSize: pageSize, logger: logger}
}

func listQuery(params console.ListParams) (url.Values, error) {
	query := url.Values{}
	if len(params.Filter) > 0 {
		encoded, err := json.Marshal(params.Filter)
		if err != nil {
			return nil, console.NewInternalError("failed to encode filter", err)
		}
		query.Set("filter", string(encoded))
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Sort != "" {
		query.Set("sort", params.Sort)
	}
	if params.Select != "" {
		query.Set("select", params.Select)
	}
	return query, nil
}

// List returns one page of records of a schema.
func (s *ContentService) List(ctx context.Context, schema string, params console.ListParams) (*console.Page[console.Content], error) {
	query, err := listQuery(params)
	if err != nil {
		return nil, err
	}
	var page console.Page[console.Content]
	if err := s.client.Get(ctx, "/content/"+schema, query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Detail retrieves one record by id. selectFields narrows the returned
// columns when non-empty.
func (s *ContentService) Detail(ctx context.Context, schema string, id uint64, selectFields string) (console.Content, error) {
	query := url.Values{}
	if selectFields != "" {
		query.Set("select", selectFields)
	}
	var record console.Content
	if err := s.client.Get(ctx, fmt.Sprintf("/content/%s/%d", schema, id), query, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// Save validates nothing itself: callers validate through the compiled form
// first. It transforms the values into the create or update payload and sends
// it. The returned record is the platform's view after the write.
func (s *ContentService) Save(ctx context.Context, schemaName string, values console.Content, existingID uint64) (console.Content, error) {
	schema, err := s.schemas.SchemaByName(schemaName)
	if err != nil {
		return nil, err
	}

	payload, err := BuildSavePayload(schema, values, existingID)
	if err != nil {
		return nil, err
	}

	var saved console.Content
	if existingID == 0 {
		err = s.client.Post(ctx, "/content/"+schemaName, payload, &saved)
	} else {
		err = s.client.Put(ctx, fmt.Sprintf("/content/%s/%d", schemaName, existingID), payload, &saved)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("content saved",
		zap.String("schema", schemaName),
		zap.Uint64("id", saved.ID()),
		zap.Bool("created", existingID == 0))
	return saved, nil
}

// Delete removes one record.
func (s *ContentService) Delete(ctx context.Context, schema string, id uint64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/content/%s/%d", schema, id), nil, nil); err != nil {
		return err
	}
	s.logger.Info("content deleted", zap.String("schema", schema), zap.Uint64("id", id))
	return nil
}

// SearchRelated lists candidate records for a relation field's picker. A
// keyword filters on the target schema's label field, and a non-zero
// contentID narrows the results to records already linked to that record
// through the relation's back-reference. Results carry only the id and label
// columns.
func (s *ContentService) SearchRelated(ctx context.Context, field *console.Field, keyword string, page int, contentID uint64) (*console.Page[console.Content], error) {
	if field.Relation == nil {
		return nil, console.NewConsoleError(console.ErrorTypeValidation, console.ErrCodeInvalidRelation,
			fmt.Sprintf("field '%s' is not a relation", field.Name)).WithField(field.Name)
	}

	target, err := s.schemas.SchemaByName(field.Relation.Schema)
	if err != nil {
		return nil, err
	}
	if err := CheckLabelField(target); err != nil {
		return nil, err
	}

	params := console.ListParams{
		Page:   page,
		Limit:  s.pageSize,
		Sort:   "-id",
		Select: console.FieldNameID + "," + target.LabelField,
	}
	filter := console.Filter{}
	if keyword != "" {
		filter = filter.WhereOp(target.LabelField, console.OpLike, "%"+keyword+"%")
	}
	if contentID != 0 {
		filter = filter.Where(field.Relation.Field+"."+console.FieldNameID, contentID)
	}
	if len(filter) > 0 {
		params.Filter = filter
	}
	return s.List(ctx, target.Name, params)
}
