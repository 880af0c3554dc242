package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageUploadAndRemove(t *testing.T) {
	dir := t.TempDir()
	st, err := NewLocalStorage(dir, "/uploads/")
	require.NoError(t, err)

	url, err := st.Upload("gallery/2026/photo.jpg", []byte("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/gallery/2026/photo.jpg", url)

	data, err := os.ReadFile(filepath.Join(dir, "gallery", "2026", "photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)

	require.NoError(t, st.Remove("gallery/2026/photo.jpg"))
	_, err = os.Stat(filepath.Join(dir, "gallery", "2026", "photo.jpg"))
	assert.True(t, os.IsNotExist(err))

	// removing twice is fine
	assert.NoError(t, st.Remove("gallery/2026/photo.jpg"))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	st, err := NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)

	// cleaned key stays inside the base directory
	url, err := st.Upload("../escape.txt", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/escape.txt", url)
	_, statErr := os.Stat(filepath.Join(dir, "escape.txt"))
	assert.NoError(t, statErr)

	_, err = st.Upload("/", []byte("x"))
	assert.Error(t, err)
}

func TestNewLocalStorageEmptyDir(t *testing.T) {
	_, err := NewLocalStorage("", "/uploads")
	assert.Error(t, err)
}
