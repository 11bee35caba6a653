package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemahub/console"
)

func tagSchema() *console.Schema {
	return &console.Schema{
		Name:       "tag",
		LabelField: "name",
		Fields: []console.Field{
			{Type: console.FieldTypeString, Name: "name", Label: "Name"},
		},
	}
}

func newContentAPI(t *testing.T, handler http.HandlerFunc) *ContentService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := console.DefaultConfig().API
	cfg.BaseURL = server.URL
	client := NewClient(cfg, nil, nil)
	provider := newStubSchemaProvider(blogSchema(), tagSchema())
	return NewContentService(client, provider, 20, nil)
}

func TestContentService_List(t *testing.T) {
	var gotQuery map[string][]string
	service := newContentAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/content/post", r.URL.Path)
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"total": 1, "per_page": 20, "current_page": 2, "last_page": 1,
			"items": []map[string]any{{"id": 1, "title": "Hello"}},
		}})
	})

	params := console.ListParams{
		Filter: console.Filter{}.Where("status", "draft"),
		Page:   2,
		Limit:  20,
		Sort:   "-id",
		Select: "id,title",
	}
	page, err := service.List(context.Background(), "post", params)
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, "Hello", page.Items[0]["title"])
	assert.Equal(t, 2, page.CurrentPage)

	assert.JSONEq(t, `{"status":"draft"}`, gotQuery["filter"][0])
	assert.Equal(t, "2", gotQuery["page"][0])
	assert.Equal(t, "20", gotQuery["limit"][0])
	assert.Equal(t, "-id", gotQuery["sort"][0])
	assert.Equal(t, "id,title", gotQuery["select"][0])
}

func TestContentService_Detail(t *testing.T) {
	service := newContentAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/content/post/7", r.URL.Path)
		assert.Equal(t, "id,title", r.URL.Query().Get("select"))
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": 7, "title": "Hello"}})
	})

	record, err := service.Detail(context.Background(), "post", 7, "id,title")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), record.ID())
}

func TestContentService_SaveCreate(t *testing.T) {
	var gotMethod string
	var gotPayload console.Content
	service := newContentAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		assert.Equal(t, "/content/post", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&gotPayload)
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": 11, "title": "Hello"}})
	})

	values := console.Content{
		"title": "Hello",
		"tags":  &console.RelationValue{Kind: console.RelationEditReplace, Items: []console.ContentRef{{ID: 1}}},
	}
	saved, err := service.Save(context.Background(), "post", values, 0)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, uint64(11), saved.ID())
	assert.Equal(t, "Hello", gotPayload["title"])

	// create payloads carry relation selections as a flat reference array
	tags, ok := gotPayload["tags"].([]any)
	require.True(t, ok)
	require.Len(t, tags, 1)
	assert.Equal(t, float64(1), tags[0].(map[string]any)["id"])
}

func TestContentService_SaveUpdate(t *testing.T) {
	var gotMethod, gotPath string
	var gotPayload console.Content
	service := newContentAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotPayload)
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": 11}})
	})

	_, err := service.Save(context.Background(), "post", console.Content{"title": "Changed"}, 11)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/content/post/11", gotPath)

	set, ok := gotPayload["$set"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Changed", set["title"])
}

func TestContentService_SaveUnknownSchema(t *testing.T) {
	service := newContentAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("API must not be called")
	})

	_, err := service.Save(context.Background(), "ghost", console.Content{}, 0)
	require.Error(t, err)
	assert.True(t, console.IsNotFoundError(err))
}

func TestContentService_Delete(t *testing.T) {
	var gotMethod, gotPath string
	service := newContentAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{"data":null}`))
	})

	require.NoError(t, service.Delete(context.Background(), "post", 7))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/content/post/7", gotPath)
}

func TestContentService_SearchRelated(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	service := newContentAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"total": 1, "items": []map[string]any{{"id": 1, "name": "golang"}},
		}})
	})

	page, err := service.SearchRelated(context.Background(), tagsField(), "go", 1, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	assert.Equal(t, "/content/tag", gotPath)
	assert.Equal(t, "id,name", gotQuery["select"][0])
	assert.Equal(t, "20", gotQuery["limit"][0])
	assert.JSONEq(t, `{"name":{"$like":"%go%"}}`, gotQuery["filter"][0])
}

func TestContentService_SearchRelatedConnectedFilter(t *testing.T) {
	var gotQuery map[string][]string
	service := newContentAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"total": 0, "items": []map[string]any{},
		}})
	})

	// editing record 7: the picker narrows to tags already linked to it
	_, err := service.SearchRelated(context.Background(), tagsField(), "go", 1, 7)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":{"$like":"%go%"},"posts.id":7}`, gotQuery["filter"][0])

	// without a keyword only the back-reference clause remains
	_, err = service.SearchRelated(context.Background(), tagsField(), "", 1, 7)
	require.NoError(t, err)
	assert.JSONEq(t, `{"posts.id":7}`, gotQuery["filter"][0])
}

func TestContentService_SearchRelatedRequiresRelation(t *testing.T) {
	service := newContentAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("API must not be called")
	})

	_, err := service.SearchRelated(context.Background(), &console.Field{Type: console.FieldTypeString, Name: "title"}, "", 1, 0)
	require.Error(t, err)
	assert.Equal(t, console.ErrCodeInvalidRelation, err.(*console.ConsoleError).Code)
}
