package export

import (
	"context"
	"time"
)

// ArtifactStorage stores rendered export artifacts and hands out download
// URLs for them. Implementations live in infrastructure/storage.
type ArtifactStorage interface {
	// Upload stores an artifact under the given key
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error

	// GenerateDownloadURL returns a download URL for a stored artifact and
	// the time at which the URL expires. A zero expiresIn uses the
	// implementation default.
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteArtifact removes a stored artifact
	DeleteArtifact(ctx context.Context, storageKey string) error

	// ArtifactExists reports whether an artifact is stored under the key
	ArtifactExists(ctx context.Context, storageKey string) (bool, error)
}
