package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Scene string  `json:"scene"`
	X     float32 `json:"x"`
}

func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	var got record
	found, err := s.Get(ctx, "session", &got)
	require.NoError(t, err)
	assert.False(t, found)

	want := record{Scene: "darkerScene", X: -3}
	require.NoError(t, s.Set(ctx, "session", want))

	found, err = s.Get(ctx, "session", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	assert.ErrorIs(t, s.Set(ctx, "../escape", want), ErrInvalidKey)
	_, err = s.Get(ctx, "", &got)
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestFileStore(t *testing.T) {
	exerciseStore(t, NewFileStore(t.TempDir()))
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStore(mr.Addr(), "", 0)
	defer s.Close()
	require.NoError(t, s.Ping(context.Background()))

	exerciseStore(t, s)
	assert.True(t, mr.Exists(DefaultRedisPrefix+"session"))
}

func TestFileStoreRejectsCorruptValue(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "bad", "not a record"))

	var r record
	_, err := s.Get(ctx, "bad", &r)
	assert.Error(t, err)
}

func TestFileStoreFailedReplaceCleansUp(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	// A non-empty directory where the value file should go makes the final rename fail.
	require.NoError(t, os.MkdirAll(filepath.Join(s.path("session"), "keep"), 0755))

	err := s.Set(context.Background(), "session", record{Scene: "default"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `storage: replace "session"`)
	_, statErr := os.Stat(s.path("session") + ".tmp")
	assert.True(t, os.IsNotExist(statErr), "temp file left behind")
}
