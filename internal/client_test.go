package internal

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemahub/console"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := console.DefaultConfig().API
	cfg.BaseURL = server.URL
	client := NewClient(cfg, console.StaticTokenSource("secret-token"), nil)
	return client, server
}

func TestClient_RequestHeaders(t *testing.T) {
	var gotAuth, gotRequestID string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"data":{"ok":true}}`))
	})

	var out map[string]bool
	require.NoError(t, client.Get(context.Background(), "/ping", nil, &out))
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.True(t, out["ok"])
}

func TestClient_EnvelopeShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"wrapped", `{"data":{"name":"post"}}`, "post"},
		{"bare", `{"name":"post"}`, "post"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(tt.body))
			})
			var out struct {
				Name string `json:"name"`
			}
			require.NoError(t, client.Get(context.Background(), "/schema/post", nil, &out))
			assert.Equal(t, tt.want, out.Name)
		})
	}
}

func TestClient_BareArrayPayload(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"name":"post"},{"name":"tag"}]`))
	})

	var out []console.Schema
	require.NoError(t, client.Get(context.Background(), "/schema", nil, &out))
	require.Len(t, out, 2)
	assert.Equal(t, "tag", out[1].Name)
}

func TestClient_ErrorEnvelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"schema post not found"}}`))
	})

	err := client.Get(context.Background(), "/schema/post", nil, nil)
	require.Error(t, err)
	assert.True(t, console.IsTransportError(err))
	assert.Contains(t, err.Error(), "schema post not found")
}

func TestClient_ErrorStatusWithoutEnvelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`oops`))
	})

	err := client.Get(context.Background(), "/schema", nil, nil)
	require.Error(t, err)
	assert.True(t, console.IsTransportError(err))
	assert.Contains(t, err.Error(), "502")
}

func TestClient_PostBodyAndQuery(t *testing.T) {
	var gotBody map[string]any
	var gotQuery url.Values
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&gotBody)
		}
		w.Write([]byte(`{"data":{"id":1}}`))
	})

	var out console.Content
	require.NoError(t, client.Post(context.Background(), "/content/post", console.Content{"title": "hi"}, &out))
	assert.Equal(t, "hi", gotBody["title"])
	assert.Equal(t, uint64(1), out.ID())

	query := url.Values{}
	query.Set("filter", `{"status":"draft"}`)
	require.NoError(t, client.Get(context.Background(), "/content/post", query, nil))
	assert.Equal(t, `{"status":"draft"}`, gotQuery.Get("filter"))
}

func TestClient_ConnectionFailure(t *testing.T) {
	cfg := console.DefaultConfig().API
	cfg.BaseURL = "http://127.0.0.1:1"
	client := NewClient(cfg, nil, nil)

	err := client.Get(context.Background(), "/schema", nil, nil)
	require.Error(t, err)
	assert.True(t, console.IsTransportError(err))
}

func TestClient_Upload(t *testing.T) {
	var gotContentType string
	var gotFiles []string
	var gotPayload []byte
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		for _, headers := range r.MultipartForm.File["file"] {
			gotFiles = append(gotFiles, headers.Filename)
			f, err := headers.Open()
			require.NoError(t, err)
			data, _ := io.ReadAll(f)
			f.Close()
			gotPayload = append(gotPayload, data...)
		}
		w.Write([]byte(`{"data":{"success":[{"id":1,"url":"/m/a.png","name":"a.png","size":3,"type":"image/png"}],"error":[]}}`))
	})

	var result console.UploadResult
	files := []UploadFile{
		{Name: "a.png", Reader: strings.NewReader("abc")},
		{Name: "b.png", Reader: strings.NewReader("def")},
	}
	require.NoError(t, client.Upload(context.Background(), "/media/upload", files, &result))

	assert.Contains(t, gotContentType, "multipart/form-data")
	assert.Equal(t, []string{"a.png", "b.png"}, gotFiles)
	assert.Equal(t, "abcdef", string(gotPayload))
	require.Len(t, result.Success, 1)
	assert.Equal(t, uint64(1), result.Success[0].ID)
}
