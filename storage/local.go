package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// LocalStorage implements Storage interface for the local filesystem.
// Files are written flat under basePath as <epoch-millis>-<sanitized-name>.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	// Create base directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

// Upload streams data to a uniquely named file under the uploads
// directory. The reported size comes from a post-write stat of the file,
// never from anything the client declared.
func (s *LocalStorage) Upload(ctx context.Context, filename string, data io.Reader) (string, string, int64, error) {
	file, fullPath, name, err := s.createUnique(filename)
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(file, data); err != nil {
		file.Close()
		os.Remove(fullPath) // Clean up on error
		return "", "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	// Flush to disk before the attachment counts as complete.
	if err := file.Close(); err != nil {
		os.Remove(fullPath)
		return "", "", 0, fmt.Errorf("failed to close file: %w", err)
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to stat written file: %w", err)
	}

	return fullPath, name, info.Size(), nil
}

// createUnique opens a fresh file named <epoch-millis>-<sanitized-name>.
// Two files with the same name can arrive within one millisecond, so the
// open is exclusive and the prefix is bumped until it does not collide.
func (s *LocalStorage) createUnique(filename string) (*os.File, string, string, error) {
	clean := SanitizeFilename(filename)
	millis := time.Now().UnixMilli()

	for {
		name := fmt.Sprintf("%d-%s", millis, clean)
		fullPath := filepath.Join(s.basePath, name)

		file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return file, fullPath, name, nil
		}
		if !os.IsExist(err) {
			return nil, "", "", err
		}
		millis++
	}
}

// Download retrieves a file from local storage
func (s *LocalStorage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	file, err := os.Open(storagePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", storagePath)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete removes a file from local storage
func (s *LocalStorage) Delete(ctx context.Context, storagePath string) error {
	err := os.Remove(storagePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}
