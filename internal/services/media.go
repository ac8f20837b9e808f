package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sprachvideo/backend/internal/apierr"
	"github.com/sprachvideo/backend/internal/logger"
)

const (
	MediaCategoryAudio = "audio"
	MediaCategoryImage = "image"

	maxUploadBytes = 25 << 20
)

var (
	unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9.]`)

	allowedExtensions = map[string]map[string]bool{
		MediaCategoryAudio: {".mp3": true, ".m4a": true, ".ogg": true, ".wav": true, ".webm": true},
		MediaCategoryImage: {".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true},
	}
)

// MediaService is the upload gateway: it validates the file ahead of the
// transport call, writes it under a collision-resistant key and returns the
// durable public URL.
type MediaService interface {
	Upload(ctx context.Context, category, filename string, size int64, file io.Reader) (string, error)
}

type mediaService struct {
	log    *logger.Logger
	bucket BucketService
	now    func() time.Time
}

func NewMediaService(baseLog *logger.Logger, bucket BucketService) MediaService {
	serviceLog := baseLog.With("service", "MediaService")
	return &mediaService{log: serviceLog, bucket: bucket, now: time.Now}
}

func (ms *mediaService) Upload(ctx context.Context, category, filename string, size int64, file io.Reader) (string, error) {
	exts, ok := allowedExtensions[category]
	if !ok {
		return "", &apierr.UploadError{Code: "invalid_file", Err: fmt.Errorf("unknown media category %q", category)}
	}
	if size > maxUploadBytes {
		return "", &apierr.UploadError{Code: "invalid_file", Err: fmt.Errorf("file too large: %d bytes (max %d)", size, maxUploadBytes)}
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !exts[ext] {
		return "", &apierr.UploadError{Code: "invalid_file", Err: fmt.Errorf("extension %q not allowed for %s uploads", ext, category)}
	}

	if ms.bucket == nil {
		return "", &apierr.UploadError{Code: "transport", Err: fmt.Errorf("bucket service unavailable")}
	}

	key := ms.storageKey(category, filename)
	ms.log.Info("Uploading media file", "category", category, "key", key, "size_bytes", size)
	if err := ms.bucket.UploadFile(ctx, key, file); err != nil {
		ms.log.Error("Media upload failed", "error", err, "key", key)
		return "", &apierr.UploadError{Code: "transport", Err: err}
	}
	return ms.bucket.GetPublicURL(key), nil
}

// storageKey namespaces objects under "<category>s/" and prefixes a
// millisecond timestamp so repeated uploads of identically named files do
// not overwrite each other.
func (ms *mediaService) storageKey(category, filename string) string {
	safeName := unsafeKeyChars.ReplaceAllString(filepath.Base(filename), "_")
	return fmt.Sprintf("%ss/%d-%s", category, ms.now().UnixMilli(), safeName)
}
