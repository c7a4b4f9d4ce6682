// Package storage is the client for the external object store holding post
// attachments. The store itself is not part of this system; uploads are plain
// HTTP PUTs and reads go through the store's public URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/sportsme/sportsme-backend/env"
)

type Store interface {
	// Upload writes the object and returns its public URL.
	Upload(ctx context.Context, bucket, key string, r io.Reader, contentType string) (string, error)
}

type httpStore struct {
	addr   string
	public string
	client *http.Client
}

func New() Store {
	return &httpStore{
		addr:   env.STORAGE_ADDR,
		public: env.STORAGE_PUBLIC_URL,
		client: http.DefaultClient,
	}
}

func (s *httpStore) Upload(ctx context.Context, bucket, key string, r io.Reader, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, fmt.Sprintf("%s/%s/%s", s.addr, bucket, key), r)
	if err != nil {
		return "", err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("storage: upload %s/%s: %s", bucket, key, resp.Status)
	}
	return s.publicURL(bucket, key), nil
}

func (s *httpStore) publicURL(bucket, key string) string {
	base := s.public
	if base == "" {
		base = s.addr
	}
	return fmt.Sprintf("%s/%s/%s", base, bucket, key)
}
