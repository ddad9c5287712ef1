package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Compile-time check that FileBackend implements Backend.
var _ Backend = (*FileBackend)(nil)

// documentFileMode is the permission of the document file.
const documentFileMode fs.FileMode = 0o644

// FileBackend stores the document in a single file on local disk.
type FileBackend struct {
	path string
}

// NewFileBackend creates a new FileBackend for path.
// The parent directory is created if it doesn't exist; the file itself is
// only created by the first Write.
func NewFileBackend(path string) (*FileBackend, error) {
	if path == "" {
		return nil, errors.New("storage: file path is required")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	return &FileBackend{path: path}, nil
}

// Location implements Backend.
func (b *FileBackend) Location() string {
	return "file://" + b.path
}

// Read returns the file content.
func (b *FileBackend) Read(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	data, err := os.ReadFile(b.path) // #nosec G304 - path comes from configuration
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, b.path)
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}
	return data, nil
}

// Write replaces the file content. The data is written to a temporary file
// in the same directory and renamed over the target.
func (b *FileBackend) Write(ctx context.Context, data []byte) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	f, err := os.CreateTemp(filepath.Dir(b.path), filepath.Base(b.path)+"_*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpName := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}

	// CreateTemp creates the file with mode 0600.
	if err := f.Chmod(documentFileMode); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, b.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
