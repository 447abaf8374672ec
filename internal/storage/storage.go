// Package storage puts, removes and signs document bytes in an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	keyPrefix       = "documents/"
	maxFilenameSize = 255

	// MaxSignedURLTTL is the longest lifetime S3 accepts for a presigned GET.
	MaxSignedURLTTL = 7 * 24 * time.Hour
)

// Gateway is the object storage surface the document service depends on.
type Gateway interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, time.Time, error)
}

// NewKey builds a unique object key for an uploaded file.
func NewKey(filename string, now time.Time) string {
	short := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s%d-%s-%s", keyPrefix, now.UnixMilli(), short, SanitizeFilename(filename))
}

// SanitizeFilename strips path separators and control bytes so the name is safe inside a key.
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, filename)

	filename = strings.Trim(filename, " .")

	if len(filename) > maxFilenameSize {
		ext := filepath.Ext(filename)
		if len(ext) >= maxFilenameSize {
			ext = ""
		}
		base := filename[:len(filename)-len(filepath.Ext(filename))]
		filename = base[:maxFilenameSize-len(ext)] + ext
	}

	if filename == "" {
		filename = "unnamed"
	}
	return filename
}

func clampTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return time.Hour
	}
	if ttl > MaxSignedURLTTL {
		return MaxSignedURLTTL
	}
	return ttl
}
