package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	exportapp "github.com/labeldesk/backend/internal/application/export"
)

// StubArtifactStorage is an in-memory implementation of ArtifactStorage for
// development and tests. Uploaded artifacts are held in a map; download URLs
// are synthetic and not fetchable.
type StubArtifactStorage struct {
	// BaseURL is the base URL for generated download URLs.
	// Defaults to "https://storage.example.com" if not set.
	BaseURL string

	mu      sync.RWMutex
	objects map[string]stubObject
}

type stubObject struct {
	data        []byte
	contentType string
}

// NewStubArtifactStorage creates a new StubArtifactStorage
func NewStubArtifactStorage() *StubArtifactStorage {
	return &StubArtifactStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string]stubObject),
	}
}

// Ensure StubArtifactStorage implements ArtifactStorage
var _ exportapp.ArtifactStorage = (*StubArtifactStorage)(nil)

// Upload stores the artifact in memory
func (s *StubArtifactStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	copied := make([]byte, len(data))
	copy(copied, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[storageKey] = stubObject{data: copied, contentType: contentType}
	return nil
}

// GenerateDownloadURL generates a synthetic download URL for a stored artifact
func (s *StubArtifactStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/download/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)

	return url, expiresAt, nil
}

// DeleteArtifact removes an artifact from the in-memory store
func (s *StubArtifactStorage) DeleteArtifact(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	return nil
}

// ArtifactExists reports whether an artifact was uploaded
func (s *StubArtifactStorage) ArtifactExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[storageKey]
	return ok, nil
}

// Object returns a stored artifact's bytes and content type. Test helper.
func (s *StubArtifactStorage) Object(storageKey string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[storageKey]
	if !ok {
		return nil, "", false
	}
	copied := make([]byte, len(obj.data))
	copy(copied, obj.data)
	return copied, obj.contentType, true
}
