// Package storage adapts the Cloud Storage bucket that holds product images.
package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gcs "cloud.google.com/go/storage"
)

type GCS struct {
	bucket *gcs.BucketHandle
}

func NewGCS(client *gcs.Client, bucket string) *GCS {
	return &GCS{bucket: client.Bucket(bucket)}
}

// Upload writes the object at the given key, overwriting any previous
// content. Keys are freshly generated per product so overwrites do not occur
// in practice.
func (s *GCS) Upload(ctx context.Context, objectPath string, data []byte, contentType string) error {
	w := s.bucket.Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("upload %q: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("upload %q: %w", objectPath, err)
	}

	return nil
}

// SignedURL issues a V4 pre-authenticated GET URL for the object, valid for
// ttl. An error here means "URL unavailable now", not that the object is
// missing; callers degrade rather than fail.
func (s *GCS) SignedURL(objectPath string, ttl time.Duration) (string, error) {
	url, err := s.bucket.SignedURL(objectPath, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("sign %q: %w", objectPath, err)
	}
	return url, nil
}
