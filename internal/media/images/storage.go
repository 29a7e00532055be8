// Package images provides cover image processing and file storage.
package images

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage manages flat-file storage under a data directory.
// Thread-safe for concurrent operations.
// Used for cover images and the book PDF files themselves.
type Storage struct {
	basePath string
	ext      string
	mu       sync.RWMutex // Protects file operations
}

// NewCoverStorage creates a Storage instance for cover images.
// basePath should be the data directory (e.g., ~/ShelfNote/data).
// Covers are stored as {basePath}/covers/{id}.jpg.
func NewCoverStorage(basePath string) (*Storage, error) {
	return NewStorageWithSubdir(basePath, "covers", ".jpg")
}

// NewFileStorage creates a Storage instance for book PDF files.
// Files are stored as {basePath}/books/{id}.pdf.
func NewFileStorage(basePath string) (*Storage, error) {
	return NewStorageWithSubdir(basePath, "books", ".pdf")
}

// NewStorageWithSubdir creates a Storage instance with a custom subdirectory
// and file extension. Files are stored in {basePath}/{subdir}/.
func NewStorageWithSubdir(basePath, subdir, ext string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if subdir == "" {
		return nil, fmt.Errorf("subdirectory cannot be empty")
	}

	storagePath := filepath.Join(basePath, subdir)

	// Create directory if it doesn't exist.
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", subdir, err)
	}

	return &Storage{
		basePath: storagePath,
		ext:      ext,
	}, nil
}

// Save stores data for an entity.
// Filename format: {id}{ext}.
func (s *Storage) Save(id string, data []byte) error {
	if id == "" {
		return fmt.Errorf("ID cannot be empty")
	}

	if len(data) == 0 {
		return fmt.Errorf("data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(id)

	// Write file with appropriate permissions.
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Get retrieves data for an entity.
func (s *Storage) Get(id string) ([]byte, error) {
	if id == "" {
		return nil, fmt.Errorf("ID cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.Path(id)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found for %s: %w", id, err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return data, nil
}

// Exists checks if a file exists for an entity.
func (s *Storage) Exists(id string) bool {
	if id == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.Path(id)
	_, err := os.Stat(path)
	return err == nil
}

// Delete removes the file for an entity.
func (s *Storage) Delete(id string) error {
	if id == "" {
		return fmt.Errorf("ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(id)

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			// Already deleted, not an error.
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// Hash computes SHA256 hash of a stored file.
// Returns hex-encoded string for ETag/cache validation.
func (s *Storage) Hash(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("ID cannot be empty")
	}

	data, err := s.Get(id)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Path returns the full filesystem path for an entity's file.
func (s *Storage) Path(id string) string {
	return filepath.Join(s.basePath, id+s.ext)
}
