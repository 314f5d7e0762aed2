package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/nutrigate/internal/client/client"
	"github.com/dmitrijs2005/nutrigate/internal/netx"
)

var ErrEmptyUpload = errors.New("nothing to upload")

// MediaService uploads images to object storage through presigned URLs.
type MediaService interface {
	// Upload stores data and returns the object key assigned by the server.
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

type mediaService struct {
	client client.Client
	http   *http.Client
}

// NewMediaService builds a MediaService. A nil httpClient uses
// http.DefaultClient for the PUT.
func NewMediaService(c client.Client, httpClient *http.Client) MediaService {
	return &mediaService{client: c, http: httpClient}
}

func (s *mediaService) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyUpload
	}

	key, url, err := s.client.GetUploadURL(ctx, contentType)
	if err != nil {
		return "", fmt.Errorf("get upload url: %w", err)
	}

	if err := netx.UploadToPresignedURL(ctx, s.http, url, data, contentType); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}
