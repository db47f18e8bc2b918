package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/emrgen/reader/internal/cache"
	"github.com/emrgen/reader/internal/compress"
	"github.com/emrgen/reader/internal/filestore"
	"github.com/emrgen/reader/internal/model"
	"github.com/emrgen/reader/internal/store"
	"github.com/emrgen/reader/internal/synth"
	"github.com/emrgen/reader/internal/tester"
	"github.com/stretchr/testify/require"
)

type fakeSynth struct {
	mu    sync.Mutex
	calls int
	fail  map[string]bool
}

func (f *fakeSynth) Synthesize(_ context.Context, text string, _ model.VoiceOptions) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail[text] {
		return nil, errors.New("network unreachable")
	}
	return []byte("mp3:" + text), nil
}

type fixture struct {
	store      *store.GormStore
	files      *filestore.LocalStore
	synth      *fakeSynth
	pipeline   *synth.Pipeline
	paragraphs *ParagraphService
	articles   *ArticleService
	views      *cache.MemoryViewCache
}

func setup(t *testing.T) *fixture {
	t.Helper()

	s := tester.Store(t)
	files, err := filestore.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	fake := &fakeSynth{fail: map[string]bool{}}
	pipeline := synth.NewPipeline(s, files, fake, 2)
	views := cache.NewMemory(compress.NewGZip(), time.Minute)

	return &fixture{
		store:      s,
		files:      files,
		synth:      fake,
		pipeline:   pipeline,
		paragraphs: NewParagraphService(s, pipeline),
		articles:   NewArticleService(s, pipeline, views),
		views:      views,
	}
}

func (f *fixture) paragraph(t *testing.T, text string) *model.Paragraph {
	t.Helper()
	p, err := f.paragraphs.CreateParagraph(context.Background(), text)
	require.NoError(t, err)
	return p
}
