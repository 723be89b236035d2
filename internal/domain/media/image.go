package media

import (
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Image is an uploaded file kept in object storage. Only the storage key is
// persisted; URLs are built by the storage backend when rendering.
type Image struct {
	ID          string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StorageKey  string `gorm:"not null;uniqueIndex" json:"-"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Extension returns the lower-cased file extension without the dot.
func Extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// HasValidExtension reports whether filename ends in one of the allowed extensions.
func HasValidExtension(filename string, allowed []string) bool {
	ext := Extension(filename)
	if ext == "" {
		return false
	}
	return slices.Contains(allowed, ext)
}
