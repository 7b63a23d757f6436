package minio_storage

import (
	"context"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type removed struct {
	bucket, key string
}

type fakeRemover struct {
	calls []removed
}

func (f *fakeRemover) RemoveObject(_ context.Context, bucket, object string, _ minio.RemoveObjectOptions) error {
	f.calls = append(f.calls, removed{bucket, object})
	return nil
}

func TestObjectKey(t *testing.T) {
	s := &MediaStorage{bucket: "media", hosts: []string{"minio:9000", "cdn.kidlearn.app"}}

	tests := []struct {
		name    string
		url     string
		wantKey string
		wantOK  bool
	}{
		{"internal host", "http://minio:9000/media/lessons/a/video.mp4", "lessons/a/video.mp4", true},
		{"public host", "https://CDN.kidlearn.app/media/courses/b/logo.png", "courses/b/logo.png", true},
		{"other bucket", "http://minio:9000/avatars/x.png", "", false},
		{"foreign host", "https://youtube.com/media/watch", "", false},
		{"bucket only", "http://minio:9000/media/", "", false},
		{"relative", "media/x.png", "", false},
		{"garbage", "://", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := s.ObjectKey(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestRemoveByURL(t *testing.T) {
	fake := &fakeRemover{}
	s := &MediaStorage{client: fake, bucket: "media", hosts: []string{"minio:9000"}}
	ctx := context.Background()

	require.NoError(t, s.RemoveByURL(ctx, "http://minio:9000/media/lessons/a/video.mp4"))
	require.NoError(t, s.RemoveByURL(ctx, "https://example.com/video.mp4"))

	assert.Equal(t, []removed{{"media", "lessons/a/video.mp4"}}, fake.calls)
}
