package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sprachvideo/backend/internal/apierr"
	"github.com/sprachvideo/backend/internal/logger"
)

type fakeBucket struct {
	fail bool
	keys []string
}

func (f *fakeBucket) UploadFile(ctx context.Context, key string, file io.Reader) error {
	if f.fail {
		return errors.New("gcs unreachable")
	}
	f.keys = append(f.keys, key)
	return nil
}

func (f *fakeBucket) DeleteFile(ctx context.Context, key string) error { return nil }

func (f *fakeBucket) GetPublicURL(key string) string {
	return "https://storage.googleapis.com/test-bucket/" + key
}

func newTestMediaService(bucket BucketService) *mediaService {
	fixed := time.UnixMilli(1700000000000)
	return &mediaService{log: logger.NewNop(), bucket: bucket, now: func() time.Time { return fixed }}
}

func TestUploadKeySchemeAndSanitization(t *testing.T) {
	bucket := &fakeBucket{}
	ms := newTestMediaService(bucket)

	url, err := ms.Upload(context.Background(), MediaCategoryImage, "my photo (1).jpg", 1024, strings.NewReader("img"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(bucket.keys) != 1 {
		t.Fatalf("uploads: want=1 got=%d", len(bucket.keys))
	}
	wantKey := "images/1700000000000-my_photo__1_.jpg"
	if bucket.keys[0] != wantKey {
		t.Fatalf("key: want=%q got=%q", wantKey, bucket.keys[0])
	}
	if !strings.HasSuffix(url, wantKey) {
		t.Fatalf("url %q does not reference key %q", url, wantKey)
	}
}

func TestUploadStripsDirectoryComponents(t *testing.T) {
	bucket := &fakeBucket{}
	ms := newTestMediaService(bucket)

	if _, err := ms.Upload(context.Background(), MediaCategoryAudio, "../../etc/passwd.mp3", 10, strings.NewReader("x")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if got := bucket.keys[0]; got != "audios/1700000000000-passwd.mp3" {
		t.Fatalf("key: got %q", got)
	}
}

func TestUploadRejectsInvalidFiles(t *testing.T) {
	cases := []struct {
		name     string
		category string
		filename string
		size     int64
	}{
		{"unknown category", "video", "clip.mp4", 10},
		{"disallowed extension", MediaCategoryImage, "malware.exe", 10},
		{"audio extension in image category", MediaCategoryImage, "sound.mp3", 10},
		{"too large", MediaCategoryImage, "huge.png", 26 << 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bucket := &fakeBucket{}
			ms := newTestMediaService(bucket)
			_, err := ms.Upload(context.Background(), tc.category, tc.filename, tc.size, strings.NewReader("x"))
			var uErr *apierr.UploadError
			if !errors.As(err, &uErr) {
				t.Fatalf("want UploadError, got %v", err)
			}
			if uErr.Code != "invalid_file" {
				t.Fatalf("code: want=invalid_file got=%q", uErr.Code)
			}
			if len(bucket.keys) != 0 {
				t.Fatal("invalid file reached the bucket")
			}
		})
	}
}

func TestUploadClassifiesTransportFailure(t *testing.T) {
	ms := newTestMediaService(&fakeBucket{fail: true})
	_, err := ms.Upload(context.Background(), MediaCategoryAudio, "word.mp3", 10, strings.NewReader("x"))
	var uErr *apierr.UploadError
	if !errors.As(err, &uErr) {
		t.Fatalf("want UploadError, got %v", err)
	}
	if uErr.Code != "transport" {
		t.Fatalf("code: want=transport got=%q", uErr.Code)
	}
}

func TestUploadWithoutBucketFailsAsTransport(t *testing.T) {
	ms := &mediaService{log: logger.NewNop(), now: time.Now}
	_, err := ms.Upload(context.Background(), MediaCategoryImage, "a.png", 10, strings.NewReader("x"))
	var uErr *apierr.UploadError
	if !errors.As(err, &uErr) || uErr.Code != "transport" {
		t.Fatalf("want transport UploadError, got %v", err)
	}
}
