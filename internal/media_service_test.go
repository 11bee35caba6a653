package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemahub/console"
)

func newMediaAPI(t *testing.T, handler http.HandlerFunc) *MediaService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := console.DefaultConfig().API
	cfg.BaseURL = server.URL
	return NewMediaService(NewClient(cfg, nil, nil), nil)
}

func TestMediaService_Upload(t *testing.T) {
	service := newMediaAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/media/upload", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"success": []map[string]any{{"id": 1, "url": "/m/a.png", "name": "a.png", "size": 3, "type": "image/png"}},
			"error":   []map[string]any{{"name": "b.exe", "type": "application/octet-stream"}},
		}})
	})

	result, err := service.Upload(context.Background(), []UploadFile{
		{Name: "a.png", Reader: strings.NewReader("abc")},
		{Name: "b.exe", Reader: strings.NewReader("mz")},
	})
	require.NoError(t, err)
	require.Len(t, result.Success, 1)
	require.Len(t, result.Error, 1)
	assert.Equal(t, "a.png", result.Success[0].Name)
}

func TestMediaService_UploadNothing(t *testing.T) {
	service := newMediaAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("API must not be called")
	})

	result, err := service.Upload(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Success)
	assert.Empty(t, result.Error)
}

func TestMediaService_Delete(t *testing.T) {
	var gotQuery []string
	service := newMediaAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/media", r.URL.Path)
		gotQuery = r.URL.Query()["id"]
		w.Write([]byte(`{"data":null}`))
	})

	require.NoError(t, service.Delete(context.Background(), []uint64{3, 8}))
	assert.Equal(t, []string{"3", "8"}, gotQuery)

	// deleting nothing is a no-op
	require.NoError(t, service.Delete(context.Background(), nil))
}
