package minio_storage

import (
	"context"
	"net/url"
	"slices"
	"strings"

	"github.com/minio/minio-go/v7"
)

// objectRemover is the part of the minio client MediaStorage needs.
type objectRemover interface {
	RemoveObject(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error
}

// MediaStorage removes lesson media and course thumbnails uploaded to the
// media bucket. Objects are addressed path-style: http://host/bucket/key.
type MediaStorage struct {
	client objectRemover
	bucket string
	hosts  []string
}

// NewMediaStorage serves bucket. hosts lists every host name the bucket is
// reachable under, such as the internal endpoint and a public one.
func NewMediaStorage(storage *MinioStorage, bucket string, hosts ...string) *MediaStorage {
	return &MediaStorage{client: storage.client, bucket: bucket, hosts: hosts}
}

// ObjectKey extracts the object key from a media URL. It reports false for
// URLs on other hosts or in other buckets.
func (s *MediaStorage) ObjectKey(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", false
	}
	if !slices.ContainsFunc(s.hosts, func(h string) bool { return strings.EqualFold(h, u.Host) }) {
		return "", false
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	if !ok || bucket != s.bucket || key == "" {
		return "", false
	}
	return key, true
}

// RemoveByURL deletes the object behind rawURL. URLs that do not point into
// the media bucket are left alone.
func (s *MediaStorage) RemoveByURL(ctx context.Context, rawURL string) error {
	key, ok := s.ObjectKey(rawURL)
	if !ok {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
