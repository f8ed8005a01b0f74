// Package gcs reads raw document text from Google Cloud Storage objects.
package gcs

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// DefaultMaxBytes caps how much of an object is read as document text.
const DefaultMaxBytes int64 = 1 << 20

// TextSource fetches document text by URI.
type TextSource interface {
	ReadText(ctx context.Context, uri string) (string, error)
}

// Reader reads UTF-8 text objects addressed as gs://bucket/object.
type Reader struct {
	client   *storage.Client
	maxBytes int64
}

var _ TextSource = (*Reader)(nil)

// NewReader creates a storage client. credentialsFile is optional;
// without it Application Default Credentials are used.
func NewReader(ctx context.Context, credentialsFile string) (*Reader, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewReader: creating storage client: %w", err)
	}
	return &Reader{client: client, maxBytes: DefaultMaxBytes}, nil
}

// ParseURI splits gs://bucket/path/to/object into bucket and object name.
func ParseURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}

	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}
	return parts[0], parts[1], nil
}

// ReadText downloads the object at uri and returns it as text.
func (r *Reader) ReadText(ctx context.Context, uri string) (string, error) {
	bucket, object, err := ParseURI(uri)
	if err != nil {
		return "", err
	}

	rc, err := r.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return "", fmt.Errorf("ReadText: reading object %s/%s: %w", bucket, object, err)
	}
	defer rc.Close()

	return readText(rc, r.maxBytes)
}

// readText reads at most limit bytes of valid UTF-8.
func readText(src io.Reader, limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return "", fmt.Errorf("ReadText: reading bytes: %w", err)
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("ReadText: object exceeds %d bytes", limit)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("ReadText: object is not valid UTF-8 text")
	}
	return string(data), nil
}

// Close closes the storage client.
func (r *Reader) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
