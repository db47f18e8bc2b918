package app

import (
	"context"
	"testing"
	"time"

	"github.com/emrgen/reader/internal/config"
	"github.com/emrgen/reader/internal/notify"
	"github.com/emrgen/reader/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.Defaults()
	cfg.Files.AudioDir = t.TempDir()
	cfg.Cache.Backend = "memory"
	cfg.Cache.Codec = "brotli"
	return cfg
}

func TestNewWithDb_WiresHub(t *testing.T) {
	a, err := NewWithDb(testConfig(t), tester.Setup(t))
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	sub, err := a.Hub.Subscribe(ctx, notify.Paragraphs())
	require.NoError(t, err)
	defer sub.Close()

	first := <-sub.C()
	assert.Empty(t, first.Paragraphs)

	_, err = a.Paragraphs.CreateParagraph(ctx, "Wired through the app.")
	require.NoError(t, err)

	select {
	case snap := <-sub.C():
		require.NoError(t, snap.Err)
		require.Len(t, snap.Paragraphs, 1)
		assert.Equal(t, "Wired through the app.", snap.Paragraphs[0].Paragraph.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot after write")
	}

	assert.Nil(t, a.Changes)
}

func TestNewWithDb_UnknownCodec(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Codec = "zstd"

	_, err := NewWithDb(cfg, tester.Setup(t))
	assert.Error(t, err)
}
