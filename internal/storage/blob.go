package storage

import (
	"io"
	"strings"

	"github.com/google/uuid"
)

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	URL(key string) string // public path the blob is served from
}

// ImageKey names a new post image. ext keeps its leading dot.
func ImageKey(ext string) string {
	return "images/" + uuid.NewString() + strings.ToLower(ext)
}
