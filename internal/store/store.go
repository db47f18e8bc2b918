package store

import (
	"context"

	"github.com/emrgen/reader/internal/model"
)

type Store interface {
	ParagraphStore
	ArticleStore
	VoiceStore
	// Transaction runs f inside one database transaction. Changes made through tx are
	// published once, after commit. f must only use tx; calling the outer store from f
	// blocks on the write lock.
	Transaction(ctx context.Context, f func(tx Store) error) error
	// Listen registers a listener for committed changes.
	Listen(l ChangeListener)
	// Revision returns the revision of the last published change.
	Revision() uint64
	Migrate() error
}

type ParagraphStore interface {
	// CreateParagraph creates a new paragraph.
	CreateParagraph(ctx context.Context, p *model.Paragraph) error
	// GetParagraph retrieves a paragraph by ID.
	GetParagraph(ctx context.Context, id string) (*model.Paragraph, error)
	// ListParagraphs retrieves all paragraphs sorted by order, then most recently updated.
	ListParagraphs(ctx context.Context) ([]*model.Paragraph, error)
	// ListParagraphsFromIDs retrieves the existing paragraphs among ids.
	ListParagraphsFromIDs(ctx context.Context, ids []string) ([]*model.Paragraph, error)
	// UpdateParagraph saves all fields of a paragraph.
	UpdateParagraph(ctx context.Context, p *model.Paragraph) error
	// UpdateParagraphOrder sets the order of a paragraph, reporting false if it does not exist.
	UpdateParagraphOrder(ctx context.Context, id string, order int) (bool, error)
	// UpdateDefaultVoice sets the default voice of a paragraph.
	UpdateDefaultVoice(ctx context.Context, id string, voiceID *string) error
	// DeleteParagraph deletes a paragraph record by ID.
	DeleteParagraph(ctx context.Context, id string) error
	// CountParagraphs returns the size of the pool.
	CountParagraphs(ctx context.Context) (int64, error)
}

type ArticleStore interface {
	// CreateArticle creates a new article.
	CreateArticle(ctx context.Context, a *model.Article) error
	// GetArticle retrieves an article by ID.
	GetArticle(ctx context.Context, id string) (*model.Article, error)
	// ListArticles retrieves all articles, most recently updated first.
	ListArticles(ctx context.Context) ([]*model.Article, error)
	// ListArticlesReferencing retrieves the articles that list the paragraph.
	ListArticlesReferencing(ctx context.Context, paragraphID string) ([]*model.Article, error)
	// UpdateArticle saves all fields of an article.
	UpdateArticle(ctx context.Context, a *model.Article) error
	// DeleteArticle deletes an article by ID.
	DeleteArticle(ctx context.Context, id string) error
	// CountArticles returns the number of articles.
	CountArticles(ctx context.Context) (int64, error)
}

type VoiceStore interface {
	// CreateVoice creates a new voice.
	CreateVoice(ctx context.Context, v *model.Voice) error
	// GetVoice retrieves a voice by ID.
	GetVoice(ctx context.Context, id string) (*model.Voice, error)
	// GetVoiceByKey retrieves the voice of a paragraph with the given parameter tuple.
	GetVoiceByKey(ctx context.Context, paragraphID string, opts model.VoiceOptions) (*model.Voice, error)
	// ListVoices retrieves the voices of a paragraph, newest first.
	ListVoices(ctx context.Context, paragraphID string) ([]*model.Voice, error)
	// ListVoicesFromParagraphIDs retrieves the voices of several paragraphs, newest first.
	ListVoicesFromParagraphIDs(ctx context.Context, ids []string) ([]*model.Voice, error)
	// ListAllVoices retrieves every voice record.
	ListAllVoices(ctx context.Context) ([]*model.Voice, error)
	// CountVoicesByParagraph returns the voice count of each listed paragraph.
	CountVoicesByParagraph(ctx context.Context, ids []string) (map[string]int64, error)
	// CountVoices returns the total number of voices.
	CountVoices(ctx context.Context) (int64, error)
	// DeleteVoice deletes a voice by ID.
	DeleteVoice(ctx context.Context, id string) error
	// DeleteVoicesByParagraph deletes the voices of a paragraph and returns them.
	DeleteVoicesByParagraph(ctx context.Context, paragraphID string) ([]*model.Voice, error)
}
