package apiclient

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, ok, err := store.Get(StoreKeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(StoreKeyToken, "abc123"))
	require.NoError(t, store.Set(StoreKeyUser, `{"id":1}`))

	token, ok, err := store.Get(StoreKeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc123", token)

	require.NoError(t, store.Delete(StoreKeyToken))
	_, ok, err = store.Get(StoreKeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting a missing key is a no-op.
	require.NoError(t, store.Delete(StoreKeyToken))
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(StoreKeyToken, "abc123"))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	token, ok, err := reopened.Get(StoreKeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc123", token)
}

func TestFileStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "credentials.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(StoreKeyToken, "abc123"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreRejectsEmptyPath(t *testing.T) {
	_, err := NewFileStore("")
	require.Error(t, err)
}
