package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/emrgen/reader/internal/model"
	"github.com/emrgen/reader/internal/store"
	"github.com/emrgen/reader/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	changes []store.Change
}

func (r *recorder) OnChange(change store.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, change)
}

func (r *recorder) all() []store.Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]store.Change(nil), r.changes...)
}

func newParagraph(text string) *model.Paragraph {
	return &model.Paragraph{ID: uuid.NewString(), Text: text}
}

func TestGormStore_ChangesPublishedInCommitOrder(t *testing.T) {
	s := tester.Store(t)
	rec := &recorder{}
	s.Listen(rec)
	ctx := context.Background()

	p1 := newParagraph("one")
	p2 := newParagraph("two")
	require.NoError(t, s.CreateParagraph(ctx, p1))
	require.NoError(t, s.CreateParagraph(ctx, p2))

	changes := rec.all()
	require.Len(t, changes, 2)
	assert.True(t, changes[0].Paragraphs.Contains(p1.ID))
	assert.True(t, changes[1].Paragraphs.Contains(p2.ID))
	assert.Less(t, changes[0].Revision, changes[1].Revision)
	assert.Equal(t, changes[1].Revision, s.Revision())
}

func TestGormStore_TransactionPublishesOnce(t *testing.T) {
	s := tester.Store(t)
	rec := &recorder{}
	s.Listen(rec)
	ctx := context.Background()

	p := newParagraph("hello")
	a := &model.Article{ID: uuid.NewString(), Name: "a"}
	err := s.Transaction(ctx, func(tx store.Store) error {
		if err := tx.CreateParagraph(ctx, p); err != nil {
			return err
		}
		a.ParagraphIDs = []string{p.ID}
		return tx.CreateArticle(ctx, a)
	})
	require.NoError(t, err)

	changes := rec.all()
	require.Len(t, changes, 1)
	assert.True(t, changes[0].Paragraphs.Contains(p.ID))
	assert.True(t, changes[0].Articles.Contains(a.ID))
}

func TestGormStore_RollbackDiscardsChange(t *testing.T) {
	s := tester.Store(t)
	rec := &recorder{}
	s.Listen(rec)
	ctx := context.Background()

	boom := errors.New("boom")
	p := newParagraph("hello")
	err := s.Transaction(ctx, func(tx store.Store) error {
		if err := tx.CreateParagraph(ctx, p); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, rec.all())

	_, err = s.GetParagraph(ctx, p.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGormStore_ListParagraphsOrder(t *testing.T) {
	s := tester.Store(t)
	ctx := context.Background()

	first := newParagraph("first")
	second := newParagraph("second")
	third := newParagraph("third")
	for _, p := range []*model.Paragraph{first, second, third} {
		require.NoError(t, s.CreateParagraph(ctx, p))
	}
	_, err := s.UpdateParagraphOrder(ctx, first.ID, 1)
	require.NoError(t, err)

	got, err := s.ListParagraphs(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// equal order falls back to most recently updated
	assert.Equal(t, third.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
	assert.Equal(t, first.ID, got[2].ID)
}

func TestGormStore_ListArticlesReferencing(t *testing.T) {
	s := tester.Store(t)
	ctx := context.Background()

	p := newParagraph("shared")
	other := newParagraph("other")
	require.NoError(t, s.CreateParagraph(ctx, p))
	require.NoError(t, s.CreateParagraph(ctx, other))

	a1 := &model.Article{ID: uuid.NewString(), Name: "a1", ParagraphIDs: []string{p.ID, other.ID, p.ID}}
	a2 := &model.Article{ID: uuid.NewString(), Name: "a2", ParagraphIDs: []string{other.ID}}
	require.NoError(t, s.CreateArticle(ctx, a1))
	require.NoError(t, s.CreateArticle(ctx, a2))

	got, err := s.ListArticlesReferencing(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a1.ID, got[0].ID)
	assert.Equal(t, []string{p.ID, other.ID, p.ID}, got[0].ParagraphIDs)
}

func TestGormStore_VoiceKeyIsUnique(t *testing.T) {
	s := tester.Store(t)
	ctx := context.Background()

	p := newParagraph("hello")
	require.NoError(t, s.CreateParagraph(ctx, p))

	opts := model.VoiceOptions{Voice: "v", Speed: "1.0", Pitch: "0", Style: "general"}
	v1 := &model.Voice{ID: uuid.NewString(), ParagraphID: p.ID, AudioAssetID: "a1"}
	v1.VoiceValue, v1.SpeedValue, v1.PitchValue, v1.StyleValue = opts.Voice, opts.Speed, opts.Pitch, opts.Style
	require.NoError(t, s.CreateVoice(ctx, v1))

	v2 := *v1
	v2.ID = uuid.NewString()
	v2.AudioAssetID = "a2"
	err := s.CreateVoice(ctx, &v2)
	assert.ErrorIs(t, err, model.ErrConflict)

	got, err := s.GetVoiceByKey(ctx, p.ID, opts)
	require.NoError(t, err)
	assert.Equal(t, v1.ID, got.ID)
}

func TestRefreshDefaultVoice(t *testing.T) {
	s := tester.Store(t)
	ctx := context.Background()

	p := newParagraph("hello")
	require.NoError(t, s.CreateParagraph(ctx, p))

	mk := func(speed string) *model.Voice {
		v := &model.Voice{ID: uuid.NewString(), ParagraphID: p.ID, VoiceValue: "v", SpeedValue: speed, PitchValue: "0", StyleValue: "general", AudioAssetID: uuid.NewString()}
		require.NoError(t, s.CreateVoice(ctx, v))
		require.NoError(t, store.RefreshDefaultVoice(ctx, s, p.ID))
		return v
	}

	first := mk("1.0")
	got, err := s.GetParagraph(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DefaultVoiceID)
	assert.Equal(t, first.ID, *got.DefaultVoiceID)

	second := mk("1.5")
	got, err = s.GetParagraph(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, *got.DefaultVoiceID)

	require.NoError(t, s.DeleteVoice(ctx, first.ID))
	require.NoError(t, store.RefreshDefaultVoice(ctx, s, p.ID))
	got, err = s.GetParagraph(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, *got.DefaultVoiceID)

	require.NoError(t, s.DeleteVoice(ctx, second.ID))
	require.NoError(t, store.RefreshDefaultVoice(ctx, s, p.ID))
	got, err = s.GetParagraph(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DefaultVoiceID)
}
