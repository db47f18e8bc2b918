package service

import (
	"context"
	"fmt"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/reader/internal/cache"
	"github.com/emrgen/reader/internal/model"
	"github.com/emrgen/reader/internal/store"
	"github.com/emrgen/reader/internal/synth"
	"github.com/emrgen/reader/internal/tts"
	"github.com/emrgen/reader/internal/view"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NewArticleService creates a new ArticleService.
func NewArticleService(store store.Store, pipeline *synth.Pipeline, views cache.ViewCache) *ArticleService {
	if views == nil {
		views = cache.NewNop()
	}

	return &ArticleService{
		store:    store,
		pipeline: pipeline,
		views:    views,
	}
}

// ArticleService manages articles, the ordered playlists over the paragraph pool.
type ArticleService struct {
	store    store.Store
	pipeline *synth.Pipeline
	views    cache.ViewCache
}

func validateName(name string) (string, error) {
	name = model.NormalizeText(name)
	if name == "" {
		return "", fmt.Errorf("%w: article name is empty", model.ErrValidation)
	}
	return name, nil
}

// checkParagraphs fails unless every id names an existing paragraph.
func checkParagraphs(ctx context.Context, tx store.Store, ids []string) error {
	unique := mapset.NewThreadUnsafeSet(ids...)
	if unique.Cardinality() == 0 {
		return nil
	}

	found, err := tx.ListParagraphsFromIDs(ctx, unique.ToSlice())
	if err != nil {
		return err
	}
	for _, p := range found {
		unique.Remove(p.ID)
	}
	if unique.Cardinality() > 0 {
		missing := unique.ToSlice()
		slices.Sort(missing)
		return fmt.Errorf("%w: unknown paragraphs %v", model.ErrValidation, missing)
	}

	return nil
}

// CreateArticle creates an article over existing paragraphs. The ids are kept
// as given, repeats included.
func (s *ArticleService) CreateArticle(ctx context.Context, name string, paragraphIDs []string) (*model.Article, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	a := &model.Article{
		ID:           uuid.NewString(),
		Name:         name,
		ParagraphIDs: slices.Clone(paragraphIDs),
	}
	if a.ParagraphIDs == nil {
		a.ParagraphIDs = make([]string, 0)
	}
	a.SetOptions(tts.DefaultOptions)

	err = s.store.Transaction(ctx, func(tx store.Store) error {
		if err := checkParagraphs(ctx, tx, a.ParagraphIDs); err != nil {
			return err
		}
		return tx.CreateArticle(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	return a, nil
}

// GetArticle retrieves an article by ID.
func (s *ArticleService) GetArticle(ctx context.Context, id string) (*model.Article, error) {
	return s.store.GetArticle(ctx, id)
}

// ListArticles returns every article with its stats, most recently updated first.
func (s *ArticleService) ListArticles(ctx context.Context) ([]*view.ArticleSummary, error) {
	articles, err := s.store.ListArticles(ctx)
	if err != nil {
		return nil, err
	}

	referenced := mapset.NewThreadUnsafeSet[string]()
	for _, a := range articles {
		referenced.Append(a.ParagraphIDs...)
	}
	counts, err := s.store.CountVoicesByParagraph(ctx, referenced.ToSlice())
	if err != nil {
		return nil, err
	}

	list := make([]*view.ArticleSummary, 0, len(articles))
	for _, a := range articles {
		summary := &view.ArticleSummary{Article: a, ParagraphCount: len(a.ParagraphIDs)}
		for _, id := range mapset.NewThreadUnsafeSet(a.ParagraphIDs...).ToSlice() {
			summary.VoiceCount += counts[id]
		}
		list = append(list, summary)
	}

	return list, nil
}

// update loads an article inside a transaction, applies f and saves it.
func (s *ArticleService) update(ctx context.Context, id string, f func(tx store.Store, a *model.Article) error) (*model.Article, error) {
	var a *model.Article
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		a, err = tx.GetArticle(ctx, id)
		if err != nil {
			return err
		}
		if err := f(tx, a); err != nil {
			return err
		}
		return tx.UpdateArticle(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	return a, nil
}

// RenameArticle changes the name of an article.
func (s *ArticleService) RenameArticle(ctx context.Context, id, name string) (*model.Article, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	return s.update(ctx, id, func(_ store.Store, a *model.Article) error {
		a.Name = name
		return nil
	})
}

// SetArticleParagraphOrder replaces the whole reference sequence of an article.
func (s *ArticleService) SetArticleParagraphOrder(ctx context.Context, id string, orderedIDs []string) (*model.Article, error) {
	return s.update(ctx, id, func(tx store.Store, a *model.Article) error {
		if err := checkParagraphs(ctx, tx, orderedIDs); err != nil {
			return err
		}
		a.ParagraphIDs = slices.Clone(orderedIDs)
		return nil
	})
}

// MoveArticleParagraph drags the reference at from to position to.
func (s *ArticleService) MoveArticleParagraph(ctx context.Context, id string, from, to int) (*model.Article, error) {
	return s.update(ctx, id, func(_ store.Store, a *model.Article) error {
		ordered, err := Move(a.ParagraphIDs, from, to)
		if err != nil {
			return err
		}
		a.ParagraphIDs = ordered
		return nil
	})
}

// AppendParagraphs adds references at the end of an article.
func (s *ArticleService) AppendParagraphs(ctx context.Context, id string, paragraphIDs []string) (*model.Article, error) {
	return s.update(ctx, id, func(tx store.Store, a *model.Article) error {
		if err := checkParagraphs(ctx, tx, paragraphIDs); err != nil {
			return err
		}
		a.ParagraphIDs = append(a.ParagraphIDs, paragraphIDs...)
		return nil
	})
}

// SetVoiceOptions sets the default voice parameters of an article. Empty values
// keep the current ones.
func (s *ArticleService) SetVoiceOptions(ctx context.Context, id string, opts model.VoiceOptions) (*model.Article, error) {
	return s.update(ctx, id, func(_ store.Store, a *model.Article) error {
		merged := tts.Merge(a.Options(), opts)
		if err := tts.Validate(merged); err != nil {
			return err
		}
		a.SetOptions(merged)
		return nil
	})
}

// DeleteArticle deletes an article. Its paragraphs stay in the pool.
func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	if err := s.store.DeleteArticle(ctx, id); err != nil {
		return err
	}

	if err := s.views.Delete(ctx, id); err != nil {
		logrus.Warnf("failed to drop cached view of article %s: %v", id, err)
	}

	return nil
}

// GetArticleView resolves an article into its entries. A reference to a deleted
// paragraph is skipped.
func (s *ArticleService) GetArticleView(ctx context.Context, id string) (*view.Article, error) {
	revision := s.store.Revision()
	if cached, err := s.views.Get(ctx, id, revision); err != nil {
		logrus.Warnf("article view cache read failed for %s: %v", id, err)
	} else if cached != nil {
		return cached, nil
	}

	a, err := s.store.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}

	paragraphs, err := s.store.ListParagraphsFromIDs(ctx, a.ParagraphIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Paragraph, len(paragraphs))
	for _, p := range paragraphs {
		byID[p.ID] = p
	}

	voices, err := s.store.ListVoicesFromParagraphIDs(ctx, a.ParagraphIDs)
	if err != nil {
		return nil, err
	}
	voicesOf := make(map[string][]*model.Voice)
	for _, v := range voices {
		voicesOf[v.ParagraphID] = append(voicesOf[v.ParagraphID], v)
	}

	opts := a.Options()
	out := &view.Article{Article: a, Entries: make([]view.ArticleEntry, 0, len(a.ParagraphIDs))}
	for _, pid := range a.ParagraphIDs {
		p, ok := byID[pid]
		if !ok {
			continue
		}

		entry := view.ArticleEntry{Paragraph: p, Voices: voicesOf[pid]}
		if entry.Voices == nil {
			entry.Voices = make([]*model.Voice, 0)
		}
		for _, v := range entry.Voices {
			if v.Options() == opts {
				entry.Selected = v
				break
			}
		}
		out.Entries = append(out.Entries, entry)
	}

	if err := s.views.Set(ctx, id, revision, out); err != nil {
		logrus.Warnf("article view cache write failed for %s: %v", id, err)
	}

	return out, nil
}

// GenerateVoices resolves a voice for every paragraph of the article with the
// article's voice parameters.
func (s *ArticleService) GenerateVoices(ctx context.Context, id string, progress *synth.Progress) (*synth.BatchResult, error) {
	a, err := s.store.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}

	paragraphs, err := s.store.ListParagraphsFromIDs(ctx, a.ParagraphIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Paragraph, len(paragraphs))
	for _, p := range paragraphs {
		byID[p.ID] = p
	}

	items := make([]synth.Request, 0, len(a.ParagraphIDs))
	for _, pid := range a.ParagraphIDs {
		p, ok := byID[pid]
		if !ok {
			continue
		}
		items = append(items, synth.Request{ParagraphID: p.ID, Text: p.Text, Options: a.Options()})
	}

	return s.pipeline.ResolveBatch(ctx, items, progress), nil
}
