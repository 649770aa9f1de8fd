package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFileStore_SaveOpenRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	assert.NoError(t, err)

	requestID := uuid.New()
	storedName, err := store.Save(requestID, "receipt.pdf", strings.NewReader("pdf bytes"))
	assert.NoError(t, err)
	assert.Equal(t, requestID.String()+"_receipt.pdf", storedName)

	reader, err := store.Open(storedName)
	assert.NoError(t, err)
	content, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.NoError(t, reader.Close())
	assert.Equal(t, "pdf bytes", string(content))

	assert.NoError(t, store.Remove(storedName))
	_, err = store.Open(storedName)
	assert.Error(t, err)
}

func TestFileStore_StripsPathComponentsFromUploadName(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	assert.NoError(t, err)

	requestID := uuid.New()
	storedName, err := store.Save(requestID, "../../etc/passwd", strings.NewReader("x"))
	assert.NoError(t, err)
	assert.NotContains(t, storedName, "/")
	assert.NotContains(t, storedName, "..")

	// The blob must land inside the store directory.
	_, err = os.Stat(filepath.Join(dir, storedName))
	assert.NoError(t, err)
}

func TestFileStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	_, err := NewFileStore(dir)
	assert.NoError(t, err)

	info, err := os.Stat(dir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())
}
