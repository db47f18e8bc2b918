package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/emrgen/reader/internal/compress"
	"github.com/emrgen/reader/internal/model"
	"github.com/emrgen/reader/internal/view"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleView() *view.Article {
	p := &model.Paragraph{ID: uuid.NewString(), Text: "Welcome to our AI voice generation app."}
	return &view.Article{
		Article: &model.Article{ID: uuid.NewString(), Name: "sample", ParagraphIDs: []string{p.ID, p.ID}},
		Entries: []view.ArticleEntry{{Paragraph: p}, {Paragraph: p}},
	}
}

func exercise(t *testing.T, c ViewCache) {
	ctx := context.Background()
	v := sampleView()
	id := v.Article.ID

	got, err := c.Get(ctx, id, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, id, 1, v))

	got, err = c.Get(ctx, id, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, v.Article.ParagraphIDs, got.Article.ParagraphIDs)
	assert.Len(t, got.Entries, 2)

	// a newer revision misses
	got, err = c.Get(ctx, id, 2)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Delete(ctx, id))
	got, err = c.Get(ctx, id, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryViewCache(t *testing.T) {
	for _, codec := range []compress.Compress{compress.NewNop(), compress.NewGZip(), compress.NewBrotli(), compress.NewLZ4()} {
		exercise(t, NewMemory(codec, time.Minute))
	}
}

func TestMemoryViewCache_Expires(t *testing.T) {
	c := NewMemory(compress.NewNop(), time.Millisecond)
	v := sampleView()
	require.NoError(t, c.Set(context.Background(), v.Article.ID, 1, v))
	time.Sleep(5 * time.Millisecond)

	got, err := c.Get(context.Background(), v.Article.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisViewCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	c := NewRedisViewCache(addr, "", time.Minute, compress.NewGZip())
	defer c.Close()
	require.NoError(t, c.Ping(context.Background()))
	exercise(t, c)
}
