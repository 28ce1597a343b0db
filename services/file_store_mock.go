package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// MockFileStore is an in-memory FileStore for tests
type MockFileStore struct {
	files map[string][]byte
	mu    sync.RWMutex
}

// NewMockFileStore creates an empty in-memory store
func NewMockFileStore() *MockFileStore {
	return &MockFileStore{files: make(map[string][]byte)}
}

// Save stores the content of r under key
func (m *MockFileStore) Save(ctx context.Context, key string, r io.Reader, contentType string) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	m.mu.Lock()
	m.files[key] = content
	m.mu.Unlock()
	return nil
}

// Open returns the content stored under key
func (m *MockFileStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.RLock()
	content, exists := m.files[key]
	m.mu.RUnlock()
	if !exists {
		return nil, ErrFileNotFound
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

// Delete removes key
func (m *MockFileStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.files, key)
	m.mu.Unlock()
	return nil
}

// Put seeds a file directly (for testing)
func (m *MockFileStore) Put(key string, content []byte) {
	m.mu.Lock()
	m.files[key] = content
	m.mu.Unlock()
}

// Files returns a copy of every stored file (for testing assertions)
func (m *MockFileStore) Files() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make(map[string][]byte, len(m.files))
	for k, v := range m.files {
		files[k] = v
	}
	return files
}

// FileExists checks if a file exists in mock storage
func (m *MockFileStore) FileExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.files[key]
	return exists
}
