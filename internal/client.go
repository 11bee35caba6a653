package internal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schemahub/console"
)

// Client talks to the platform API. Every response is unwrapped from the
// platform envelope, which is either the bare payload, `{"data": payload}`,
// or `{"error": {"message": ...}}`.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  console.TokenSource
	logger  *zap.Logger
}

// NewClient creates an API client from the console configuration. A nil token
// source sends unauthenticated requests; a nil logger disables logging.
func NewClient(cfg console.APIConfig, tokens console.TokenSource, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout.Std()},
		tokens:  tokens,
		logger:  logger,
	}
}

type errorEnvelope struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type responseEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error *errorEnvelope  `json:"error"`
}

func decodeEnvelope(body []byte, out any) error {
	var envelope responseEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != nil && envelope.Error.Message != "" {
			return console.NewResponseError(envelope.Error.Message)
		}
		if envelope.Data != nil {
			if out == nil {
				return nil
			}
			return json.Unmarshal(envelope.Data, out)
		}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, console.NewTransportError(fmt.Sprintf("failed to build %s %s", method, path), err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, console.NewTransportError("failed to resolve API token", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out any) error {
	path := req.URL.Path
	resp, err := c.http.Do(req)
	if err != nil {
		return console.NewTransportError(fmt.Sprintf("%s %s failed", req.Method, path), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return console.NewTransportError(fmt.Sprintf("failed to read response of %s %s", req.Method, path), err)
	}

	c.logger.Debug("api call",
		zap.String("method", req.Method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode >= http.StatusBadRequest {
		if err := decodeEnvelope(body, nil); err != nil {
			return err
		}
		return console.NewResponseError(fmt.Sprintf("%s %s returned status %d", req.Method, path, resp.StatusCode))
	}

	return decodeEnvelope(body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return console.NewInternalError(fmt.Sprintf("failed to encode %s %s payload", method, path), err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

// Get issues a GET request and decodes the payload into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, in, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, in, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodDelete, path, query, nil, out)
}

// UploadFile is one file of a multipart upload.
type UploadFile struct {
	Name   string
	Reader io.Reader
}

// Upload posts files as multipart form data under the "file" field.
func (c *Client) Upload(ctx context.Context, path string, files []UploadFile, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, file := range files {
		part, err := writer.CreateFormFile("file", file.Name)
		if err != nil {
			return console.NewInternalError(fmt.Sprintf("failed to add '%s' to upload", file.Name), err)
		}
		if _, err := io.Copy(part, file.Reader); err != nil {
			return console.NewInternalError(fmt.Sprintf("failed to read '%s'", file.Name), err)
		}
	}
	if err := writer.Close(); err != nil {
		return console.NewInternalError("failed to finalize upload body", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.send(req, out)
}
