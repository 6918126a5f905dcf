// Package storage uploads listing photos to a public bucket and hands back
// download URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// Uploader stores image bytes and returns a public URL for them.
type Uploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
	Close() error
}

type gcsUploader struct {
	client *gcs.Client
	bucket string
}

// NewGCSUploader connects to Google Cloud Storage. credsFile may be empty,
// in which case ambient credentials are used.
func NewGCSUploader(ctx context.Context, bucket, credsFile string) (Uploader, error) {
	var opts []option.ClientOption
	if credsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init storage client: %w", err)
	}
	return &gcsUploader{client: client, bucket: bucket}, nil
}

func (u *gcsUploader) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	token := uuid.NewString()
	obj := u.client.Bucket(u.bucket).Object(objectPath)
	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": token,
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	escapedPath := url.PathEscape(objectPath)
	publicURL := fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		u.bucket, escapedPath, token)
	return publicURL, nil
}

func (u *gcsUploader) Close() error {
	return u.client.Close()
}
