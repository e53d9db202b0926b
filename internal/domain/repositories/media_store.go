package repositories

import "context"

// MediaKind selects the bucket a file lands in
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindAudio MediaKind = "audio"
)

// MediaStore defines the interface for media blob storage.
// Upload returns the public URL and the stored object name.
type MediaStore interface {
	Upload(ctx context.Context, kind MediaKind, filename string, data []byte, contentType string) (url string, storedName string, err error)
}
