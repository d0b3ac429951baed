package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pollweb", "token")
	store := New(path)
	assert.Equal(t, path, store.Path())

	token, ok, err := store.Get()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, token)

	require.NoError(t, store.Set("tok-1"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	token, ok, err = store.Get()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", token)

	require.NoError(t, store.Set("tok-2"))
	token, _, err = New(path).Get()
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token, "a fresh store sees the persisted token")

	require.NoError(t, store.Clear())
	_, ok, err = store.Get()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Clear(), "clearing twice is fine")
}

func TestStoreBlankFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	_, ok, err := New(path).Get()
	require.NoError(t, err)
	assert.False(t, ok)
}
