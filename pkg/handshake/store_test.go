package handshake_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedbridge/feedbridge/internal/logging"
	"github.com/feedbridge/feedbridge/pkg/domain"
	"github.com/feedbridge/feedbridge/pkg/handshake"
)

func newStore(t *testing.T) *handshake.Store {
	t.Helper()
	store, err := handshake.NewStore(filepath.Join(t.TempDir(), "scratch"), logging.NewNop())
	require.NoError(t, err)
	return store
}

func TestNewStore_EnsuresDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	store, err := handshake.NewStore(dir, logging.NewNop())
	require.NoError(t, err)

	info, err := os.Stat(store.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewPath_UniquePerCall(t *testing.T) {
	store := newStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		path := store.NewPath()
		assert.False(t, seen[path], "path generated twice: %s", path)
		seen[path] = true
		assert.True(t, strings.HasPrefix(path, store.Dir()))
		assert.True(t, strings.HasSuffix(path, ".json"))
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	store := newStore(t)
	path := store.NewPath()

	in := domain.NewRecord("looks good, ship it", false, nil)
	require.NoError(t, store.Write(path, in))

	out, err := store.Read(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWriteRead_PreservesImages(t *testing.T) {
	store := newStore(t)
	path := store.NewPath()

	in := domain.Record{
		Feedback:  "",
		Timestamp: 1700000000000,
		Images: []domain.Image{
			{Data: "abc", MimeType: "image/png"},
			{Data: "def", MimeType: "image/jpeg"},
		},
	}
	require.NoError(t, store.Write(path, in))

	out, err := store.Read(path)
	require.NoError(t, err)
	assert.Equal(t, in.Images, out.Images)
	assert.Equal(t, in, out)
}

func TestRead_MissingFile(t *testing.T) {
	store := newStore(t)

	_, err := store.Read(store.NewPath())
	assert.ErrorIs(t, err, domain.ErrRecordUnreadable)
}

func TestRead_MalformedJSON(t *testing.T) {
	store := newStore(t)
	path := store.NewPath()
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := store.Read(path)
	assert.ErrorIs(t, err, domain.ErrRecordUnreadable)
}

func TestRemove_DeletesFile(t *testing.T) {
	store := newStore(t)
	path := store.NewPath()
	require.NoError(t, store.Write(path, domain.NewRecord("x", false, nil)))

	store.Remove(path)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRemove_MissingFileIsNoop(t *testing.T) {
	store := newStore(t)
	// Must not panic or error; a vanished file is an acceptable end state.
	store.Remove(store.NewPath())
}
