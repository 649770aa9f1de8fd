package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DocumentStore persists uploaded supporting documents as blobs keyed by
// request id + original filename. No versioning; a stored name is returned
// for later retrieval.
type DocumentStore interface {
	Save(requestID uuid.UUID, filename string, src io.Reader) (string, error)
	Open(storedName string) (io.ReadCloser, error)
	Remove(storedName string) error
}

type fileStore struct {
	dir string
}

// NewFileStore creates the upload directory if missing and returns a
// filesystem-backed DocumentStore.
func NewFileStore(dir string) (DocumentStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) Save(requestID uuid.UUID, filename string, src io.Reader) (string, error) {
	storedName := requestID.String() + "_" + sanitizeFilename(filename)

	dst, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		return "", fmt.Errorf("failed to create document file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write document file: %w", err)
	}

	return storedName, nil
}

func (s *fileStore) Open(storedName string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.dir, sanitizeFilename(storedName)))
}

func (s *fileStore) Remove(storedName string) error {
	return os.Remove(filepath.Join(s.dir, sanitizeFilename(storedName)))
}

// sanitizeFilename strips path components so an upload name can never escape
// the store directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." || name == "/" {
		name = "document"
	}
	return name
}
