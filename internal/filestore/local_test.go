package filestore

import (
	"context"
	"os"
	"testing"

	"github.com/emrgen/reader/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStore(dir)
	require.NoError(t, err)

	ok, err := s.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Write(ctx, "a", []byte("mp3 bytes")))
	require.NoError(t, s.Write(ctx, "b", []byte("more bytes")))

	ok, err = s.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := s.Read(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3 bytes"), data)

	// stray files are not assets
	require.NoError(t, os.WriteFile(dir+"/notes.txt", []byte("x"), 0o644))
	ids, err := s.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	require.NoError(t, s.Delete(ctx, "a"))
	assert.ErrorIs(t, s.Delete(ctx, "a"), model.ErrNotFound)

	_, err = s.Read(ctx, "a")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
