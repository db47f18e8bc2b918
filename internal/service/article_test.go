package service

import (
	"context"
	"testing"

	"github.com/emrgen/reader/internal/model"
	"github.com/emrgen/reader/internal/synth"
	"github.com/emrgen/reader/internal/tts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleService_CreateArticle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p1 := f.paragraph(t, "one")
	p2 := f.paragraph(t, "two")

	tests := []struct {
		name    string
		title   string
		ids     []string
		wantErr error
	}{
		{name: "with repeats", title: "Playlist", ids: []string{p1.ID, p2.ID, p1.ID}},
		{name: "empty list", title: "Nothing yet", ids: nil},
		{name: "blank name", title: "  ", ids: []string{p1.ID}, wantErr: model.ErrValidation},
		{name: "unknown paragraph", title: "Broken", ids: []string{p1.ID, uuid.NewString()}, wantErr: model.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := f.articles.CreateArticle(ctx, tt.title, tt.ids)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			got, err := f.articles.GetArticle(ctx, a.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.title, got.Name)
			if tt.ids == nil {
				assert.Empty(t, got.ParagraphIDs)
			} else {
				assert.Equal(t, tt.ids, got.ParagraphIDs)
			}
			assert.Equal(t, tts.DefaultOptions, got.Options())
		})
	}

	list, err := f.articles.ListArticles(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestArticleService_ListArticlesStats(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p1 := f.paragraph(t, "one")
	p2 := f.paragraph(t, "two")

	older, err := f.articles.CreateArticle(ctx, "older", []string{p2.ID})
	require.NoError(t, err)
	newer, err := f.articles.CreateArticle(ctx, "newer", []string{p1.ID, p2.ID, p1.ID})
	require.NoError(t, err)

	_, err = f.pipeline.Resolve(ctx, synth.Request{ParagraphID: p1.ID, Text: p1.Text, Options: tts.DefaultOptions})
	require.NoError(t, err)

	list, err := f.articles.ListArticles(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].Article.ID)
	assert.Equal(t, 3, list[0].ParagraphCount)
	assert.Equal(t, int64(1), list[0].VoiceCount)
	assert.Equal(t, older.ID, list[1].Article.ID)
	assert.Equal(t, int64(0), list[1].VoiceCount)

	// touching the older article moves it to the front
	_, err = f.articles.RenameArticle(ctx, older.ID, "renamed")
	require.NoError(t, err)
	list, err = f.articles.ListArticles(ctx)
	require.NoError(t, err)
	assert.Equal(t, older.ID, list[0].Article.ID)
	assert.Equal(t, "renamed", list[0].Article.Name)
}

func TestArticleService_GetArticleView(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p1 := f.paragraph(t, "one")
	p2 := f.paragraph(t, "two")

	a, err := f.articles.CreateArticle(ctx, "view", []string{p1.ID, p2.ID, p1.ID})
	require.NoError(t, err)

	calm := tts.Merge(tts.DefaultOptions, model.VoiceOptions{Style: "calm"})
	selected, err := f.pipeline.Resolve(ctx, synth.Request{ParagraphID: p1.ID, Text: p1.Text, Options: tts.DefaultOptions})
	require.NoError(t, err)
	_, err = f.pipeline.Resolve(ctx, synth.Request{ParagraphID: p1.ID, Text: p1.Text, Options: calm})
	require.NoError(t, err)

	v, err := f.articles.GetArticleView(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, v.Entries, 3)
	assert.Equal(t, []string{p1.ID, p2.ID, p1.ID}, v.ParagraphIDs())
	assert.Len(t, v.Entries[0].Voices, 2)
	require.NotNil(t, v.Entries[0].Selected)
	assert.Equal(t, selected.ID, v.Entries[0].Selected.ID)
	assert.Empty(t, v.Entries[1].Voices)
	assert.Nil(t, v.Entries[1].Selected)

	// a dangling reference is skipped
	require.NoError(t, f.store.DeleteParagraph(ctx, p2.ID))
	v, err = f.articles.GetArticleView(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{p1.ID, p1.ID}, v.ParagraphIDs())
	assert.Equal(t, []string{p1.ID, p2.ID, p1.ID}, v.Article.ParagraphIDs)

	_, err = f.articles.GetArticleView(ctx, uuid.NewString())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestArticleService_GetArticleViewCache(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.paragraph(t, "cached")
	a, err := f.articles.CreateArticle(ctx, "cached", []string{p.ID})
	require.NoError(t, err)

	_, err = f.articles.GetArticleView(ctx, a.ID)
	require.NoError(t, err)

	cached, err := f.views.Get(ctx, a.ID, f.store.Revision())
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, a.ID, cached.Article.ID)

	// any write moves the revision so the entry misses
	_, err = f.articles.RenameArticle(ctx, a.ID, "renamed")
	require.NoError(t, err)
	cached, err = f.views.Get(ctx, a.ID, f.store.Revision())
	require.NoError(t, err)
	assert.Nil(t, cached)

	v, err := f.articles.GetArticleView(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", v.Article.Name)
}

func TestArticleService_Ordering(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p1 := f.paragraph(t, "one")
	p2 := f.paragraph(t, "two")
	p3 := f.paragraph(t, "three")

	a, err := f.articles.CreateArticle(ctx, "order", []string{p1.ID, p2.ID})
	require.NoError(t, err)

	a, err = f.articles.AppendParagraphs(ctx, a.ID, []string{p3.ID, p1.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{p1.ID, p2.ID, p3.ID, p1.ID}, a.ParagraphIDs)

	a, err = f.articles.MoveArticleParagraph(ctx, a.ID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{p3.ID, p1.ID, p2.ID, p1.ID}, a.ParagraphIDs)

	a, err = f.articles.SetArticleParagraphOrder(ctx, a.ID, []string{p2.ID, p2.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{p2.ID, p2.ID}, a.ParagraphIDs)

	_, err = f.articles.SetArticleParagraphOrder(ctx, a.ID, []string{uuid.NewString()})
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = f.articles.AppendParagraphs(ctx, a.ID, []string{uuid.NewString()})
	assert.ErrorIs(t, err, model.ErrValidation)

	got, err := f.articles.GetArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{p2.ID, p2.ID}, got.ParagraphIDs)
}

func TestArticleService_SetVoiceOptions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a, err := f.articles.CreateArticle(ctx, "voices", nil)
	require.NoError(t, err)

	a, err = f.articles.SetVoiceOptions(ctx, a.ID, model.VoiceOptions{Voice: "en-US-JennyNeural", Speed: "1.25"})
	require.NoError(t, err)
	assert.Equal(t, model.VoiceOptions{Voice: "en-US-JennyNeural", Speed: "1.25", Pitch: "0", Style: "general"}, a.Options())

	_, err = f.articles.SetVoiceOptions(ctx, a.ID, model.VoiceOptions{Pitch: "99"})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestArticleService_DeleteKeepsParagraphs(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.paragraph(t, "survivor")
	a, err := f.articles.CreateArticle(ctx, "doomed", []string{p.ID})
	require.NoError(t, err)

	require.NoError(t, f.articles.DeleteArticle(ctx, a.ID))
	_, err = f.articles.GetArticle(ctx, a.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = f.paragraphs.GetParagraph(ctx, p.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, f.articles.DeleteArticle(ctx, a.ID), model.ErrNotFound)
}

func TestArticleService_GenerateVoices(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p1 := f.paragraph(t, "one")
	p2 := f.paragraph(t, "two")
	p3 := f.paragraph(t, "three")
	f.synth.fail["two"] = true

	a, err := f.articles.CreateArticle(ctx, "generate", []string{p1.ID, p2.ID, p3.ID, p1.ID})
	require.NoError(t, err)

	progress := &synth.Progress{}
	res, err := f.articles.GenerateVoices(ctx, a.ID, progress)
	require.NoError(t, err)
	assert.Len(t, res.Succeeded, 2)
	assert.Len(t, res.Failed, 1)
	assert.Equal(t, synth.BatchPartial, res.Status())
	assert.Equal(t, int64(3), progress.Total())
	assert.Equal(t, int64(3), progress.Completed())

	v, err := f.articles.GetArticleView(ctx, a.ID)
	require.NoError(t, err)
	assert.NotNil(t, v.Entries[0].Selected)
	assert.Nil(t, v.Entries[1].Selected)
	assert.NotNil(t, v.Entries[2].Selected)
	assert.NotNil(t, v.Entries[3].Selected)

	delete(f.synth.fail, "two")
	res, err = f.articles.GenerateVoices(ctx, a.ID, nil)
	require.NoError(t, err)
	assert.Len(t, res.Succeeded, 1)
	assert.Len(t, res.Cached, 2)
	assert.Equal(t, 4, f.synth.calls)

	_, err = f.articles.GenerateVoices(ctx, uuid.NewString(), nil)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
