package storage

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/facturo/backend/internal/application/common"
)

// DefaultMemoryBaseURL is the URL prefix of objects held in memory
const DefaultMemoryBaseURL = "http://localhost:8080/uploads"

var _ common.BlobStore = (*MemoryBlobStore)(nil)

// MemoryBlobStore keeps objects in memory. Use it in development and tests.
type MemoryBlobStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]Object
}

// Object is a stored file
type Object struct {
	Data        []byte
	ContentType string
}

// NewMemoryBlobStore creates an empty MemoryBlobStore. An empty baseURL uses
// DefaultMemoryBaseURL.
func NewMemoryBlobStore(baseURL string) *MemoryBlobStore {
	if baseURL == "" {
		baseURL = DefaultMemoryBaseURL
	}
	return &MemoryBlobStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]Object),
	}
}

// Put stores a copy of data under key
func (s *MemoryBlobStore) Put(_ context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	s.mu.Lock()
	s.objects[key] = Object{Data: append([]byte(nil), data...), ContentType: contentType}
	s.mu.Unlock()
	return s.baseURL + "/" + key, nil
}

// Delete removes key
func (s *MemoryBlobStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Get returns the object stored under key
func (s *MemoryBlobStore) Get(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// Len returns the number of stored objects
func (s *MemoryBlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
