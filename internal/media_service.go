package internal

import (
	"context"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/schemahub/console"
)

// MediaService uploads and removes files through the platform media API.
type MediaService struct {
	client *Client
	logger *zap.Logger
}

// NewMediaService creates a media service.
func NewMediaService(client *Client, logger *zap.Logger) *MediaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaService{client: client, logger: logger}
}

// Upload sends files as one multipart request and returns which the platform
// stored and which it rejected.
func (s *MediaService) Upload(ctx context.Context, files []UploadFile) (*console.UploadResult, error) {
	if len(files) == 0 {
		return &console.UploadResult{Success: []console.Media{}, Error: []console.Media{}}, nil
	}

	var result console.UploadResult
	if err := s.client.Upload(ctx, "/media/upload", files, &result); err != nil {
		return nil, err
	}

	s.logger.Info("media uploaded",
		zap.Int("stored", len(result.Success)),
		zap.Int("rejected", len(result.Error)))
	return &result, nil
}

// Delete removes the media records with the given ids.
func (s *MediaService) Delete(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	query := url.Values{}
	for _, id := range ids {
		query.Add("id", strconv.FormatUint(id, 10))
	}
	if err := s.client.Delete(ctx, "/media", query, nil); err != nil {
		return err
	}
	s.logger.Info("media deleted", zap.Int("count", len(ids)))
	return nil
}

// List returns one page of media records.
func (s *MediaService) List(ctx context.Context, params console.ListParams) (*console.Page[console.Media], error) {
	query, err := listQuery(params)
	if err != nil {
		return nil, err
	}
	var page console.Page[console.Media]
	if err := s.client.Get(ctx, "/media", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
