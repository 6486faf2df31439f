package credstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth", "credential")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, ok := store.Get()
	assert.False(t, ok, "fresh store must be empty")

	require.NoError(t, store.Set("bearer-token-abc"))

	cred, ok := store.Get()
	assert.True(t, ok)
	assert.Equal(t, "bearer-token-abc", cred)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("persisted-token"))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)

	cred, ok := reopened.Get()
	assert.True(t, ok)
	assert.Equal(t, "persisted-token", cred)
}

func TestFileStore_ClearIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("token"))

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	_, ok := store.Get()
	assert.False(t, ok)
}

func TestFileStore_FileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("token"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Get()
	assert.False(t, ok)

	require.NoError(t, store.Set("tok"))
	cred, ok := store.Get()
	assert.True(t, ok)
	assert.Equal(t, "tok", cred)

	require.NoError(t, store.Clear())
	_, ok = store.Get()
	assert.False(t, ok)
}
