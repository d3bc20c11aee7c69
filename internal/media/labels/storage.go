// Package labels stores uploaded bottle label images on the filesystem.
package labels

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// allowedExtensions lists the accepted label image formats.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// Storage manages label image filesystem operations.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewStorage creates a new Storage instance.
// basePath should be the data directory (e.g., ~/Cellar).
// Labels are stored in {basePath}/labels/.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	storagePath := filepath.Join(basePath, "labels")
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create labels directory: %w", err)
	}

	return &Storage{basePath: storagePath}, nil
}

// AllowedExtension reports whether ext (with leading dot) is an
// accepted label image format.
func AllowedExtension(ext string) bool {
	return allowedExtensions[strings.ToLower(ext)]
}

// Save stores label image data for a bottle.
// Filename format: {bottleID}{ext}. A bottle has at most one label, so
// any previously saved image with a different extension is removed.
func (s *Storage) Save(bottleID, ext string, data []byte) (string, error) {
	if bottleID == "" {
		return "", fmt.Errorf("bottle ID cannot be empty")
	}
	if len(data) == 0 {
		return "", fmt.Errorf("image data cannot be empty")
	}
	ext = strings.ToLower(ext)
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported label format %q", ext)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(bottleID)

	filename := bottleID + ext
	path := filepath.Join(s.basePath, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write label file: %w", err)
	}

	return filename, nil
}

// Get retrieves label image data by its stored filename.
func (s *Storage) Get(filename string) ([]byte, error) {
	if filename == "" {
		return nil, fmt.Errorf("filename cannot be empty")
	}
	// Reject traversal; filenames are always flat.
	if filepath.Base(filename) != filename {
		return nil, fmt.Errorf("invalid label filename %q", filename)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.basePath, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("label not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read label file: %w", err)
	}
	return data, nil
}

// Delete removes every stored label image for a bottle.
// Deleting a missing label is not an error.
func (s *Storage) Delete(bottleID string) error {
	if bottleID == "" {
		return fmt.Errorf("bottle ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(bottleID)
	return nil
}

// Hash computes the SHA256 hash of a stored label.
// Returns a hex-encoded string for ETag/cache validation.
func (s *Storage) Hash(filename string) (string, error) {
	data, err := s.Get(filename)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// removeLocked deletes any stored image for the bottle, in all formats.
// Callers must hold the write lock.
func (s *Storage) removeLocked(bottleID string) {
	for ext := range allowedExtensions {
		_ = os.Remove(filepath.Join(s.basePath, bottleID+ext))
	}
}
