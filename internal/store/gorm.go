package store

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/emrgen/reader/internal/model"
	"gorm.io/gorm"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:   db,
		feed: &feed{},
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db   *gorm.DB
	feed *feed
	// change is set on transaction clones only
	change *Change
}

// translate maps gorm errors onto the model error taxonomy.
func translate(err error, what string, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s %s", model.ErrNotFound, what, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s %s: %w", model.ErrConflict, what, id, err)
	default:
		return fmt.Errorf("%w: %s %s: %w", model.ErrStorage, what, id, err)
	}
}

// write runs f against the current connection and records its change. Outside a
// transaction the change is published right away, under the write lock.
func (g *GormStore) write(ctx context.Context, f func(db *gorm.DB, c *Change) error) error {
	if g.change != nil {
		return f(g.db.WithContext(ctx), g.change)
	}

	g.feed.mu.Lock()
	defer g.feed.mu.Unlock()

	c := newChange()
	if err := f(g.db.WithContext(ctx), c); err != nil {
		return err
	}
	g.feed.publish(c)

	return nil
}

func (g *GormStore) CreateParagraph(ctx context.Context, p *model.Paragraph) error {
	return g.write(ctx, func(db *gorm.DB, c *Change) error {
		if err := db.Create(p).Error; err != nil {
			return translate(err, "paragraph", p.ID)
		}
		c.Paragraphs.Add(p.ID)
		return nil
	})
}

func (g *GormStore) GetParagraph(ctx context.Context, id string) (*model.Paragraph, error) {
	var p model.Paragraph
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, translate(err, "paragraph", id)
	}
	return &p, nil
}

func (g *GormStore) ListParagraphs(ctx context.Context) ([]*model.Paragraph, error) {
	var paragraphs []*model.Paragraph
	err := g.db.WithContext(ctx).Order("sort_order asc").Order("updated_at desc").Find(&paragraphs).Error
	return paragraphs, translate(err, "paragraphs", "")
}

func (g *GormStore) ListParagraphsFromIDs(ctx context.Context, ids []string) ([]*model.Paragraph, error) {
	paragraphs := make([]*model.Paragraph, 0)
	if len(ids) == 0 {
		return paragraphs, nil
	}
	err := g.db.WithContext(ctx).Where("id in (?)", ids).Find(&paragraphs).Error
	return paragraphs, translate(err, "paragraphs", "")
}

func (g *GormStore) UpdateParagraph(ctx context.Context, p *model.Paragraph) error {
	return g.write(ctx, func(db *gorm.DB, c *Change) error {
		if err := db.Save(p).Error; err != nil {
			return translate(err, "paragraph", p.ID)
		}
		c.Paragraphs.Add(p.ID)
		return nil
	})
}

func (g *GormStore) UpdateParagraphOrder(ctx context.Context, id string, order int) (bool, error) {
	var found bool
	err := g.write(ctx, func(db *gorm.DB, c *Change) error {
		res := db.Model(&model.Paragraph{}).Where("id = ?", id).UpdateColumn("sort_order", order)
		if res.Error != nil {
			return translate(res.Error, "paragraph", id)
		}
		if res.RowsAffected > 0 {
			found = true
			c.Paragraphs.Add(id)
		}
		return nil
	})

	return found, err
}

func (g *GormStore) UpdateDefaultVoice(ctx context.Context, id string, voiceID *string) error {
	return g.write(ctx, func(db *gorm.DB, c *Change) error {
		res := db.Model(&model.Paragraph{}).Where("id = ?", id).UpdateColumn("default_voice_id", voiceID)
		if res.Error != nil {
			return translate(res.Error, "paragraph", id)
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "paragraph", id)
		}
		c.Paragraphs.Add(id)
		return nil
	})
}

func (g *GormStore) DeleteParagraph(ctx context.Context, id string) error {
	return g.write(ctx, func(db *gorm.DB, c *Change) error {
		res := db.Where("id = ?", id).Delete(&model.Paragraph{})
		if res.Error != nil {
			return translate(res.Error, "paragraph", id)
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "paragraph", id)
		}
		c.Paragraphs.Add(id)
		return nil
	})
}

func (g *GormStore) CountParagraphs(ctx context.Context) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.Paragraph{}).Count(&count).Error
	return count, translate(err, "paragraphs", "")
}

func (g *GormStore) CreateArticle(ctx context.Context, a *model.Article) error {
	return g.write(ctx, func(db *gorm.DB, c *Change) error {
		if a.ParagraphIDs == nil {
			a.ParagraphIDs = make([]string, 0)
		}
		if err := db.Create(a).Error; err != nil {
			return translate(err, "article", a.ID)
		}
		c.Articles.Add(a.ID)
		return nil
	})
}

func (g *GormStore) GetArticle(ctx context.Context, id string) (*model.Article, error) {
	var a model.Article
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if err != nil {
		return nil, translate(err, "article", id)
	}
	return &a, nil
}

func (g *GormStore) ListArticles(ctx context.Context) ([]*model.Article, error) {
	var articles []*model.Article
	err := g.db.WithContext(ctx).Order("updated_at desc").Find(&articles).Error
	return articles, translate(err, "articles", "")
}

// ListArticlesReferencing narrows the candidates with a text match on the json
// column and confirms each one against the decoded list.
func (g *GormStore) ListArticlesReferencing(ctx context.Context, paragraphID string) ([]*model.Article, error) {
	var candidates []*model.Article
	err := g.db.WithContext(ctx).Where("paragraph_ids LIKE ?", "%\""+paragraphID+"\"%").Find(&candidates).Error
	if err != nil {
		return nil, translate(err, "articles", "")
	}

	return slices.DeleteFunc(candidates, func(a *model.Article) bool {
		return !a.References(paragraphID)
	}), nil
}

func (g *GormStore) UpdateArticle(ctx context.Context, a *model.Article) error {
	return g.write(ctx, func(db *gorm.DB, c *Change) error {
		if a.ParagraphIDs == nil {
			a.ParagraphIDs = make([]string, 0)
		}
		if err := db.Save(a).Error; err != nil {
			return translate(err, "article", a.ID)
		}
		c.Articles.Add(a.ID)
		return nil
	})
}

func (g *GormStore) DeleteArticle(ctx context.Context, id string) error {
	return g.write(ctx, func(db *gorm.DB, c *Change) error {
		res := db.Where("id = ?", id).Delete(&model.Article{})
		if res.Error != nil {
			return translate(res.Error, "article", id)
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "article", id)
		}
		c.Articles.Add(id)
		return nil
	})
}

func (g *GormStore) CountArticles(ctx context.Context) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.Article{}).Count(&count).Error
	return count, translate(err, "articles", "")
}

func (g *GormStore) CreateVoice(ctx context.Context, v *model.Voice) error {
	return g.write(ctx, func(db *gorm.DB, c *Change) error {
		if err := db.Create(v).Error; err != nil {
			return translate(err, "voice", v.ID)
		}
		c.touchVoice(v.ID, v.ParagraphID)
		return nil
	})
}

func (g *GormStore) GetVoice(ctx context.Context, id string) (*model.Voice, error) {
	var v model.Voice
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&v).Error
	if err != nil {
		return nil, translate(err, "voice", id)
	}
	return &v, nil
}

func (g *GormStore) GetVoiceByKey(ctx context.Context, paragraphID string, opts model.VoiceOptions) (*model.Voice, error) {
	var v model.Voice
	err := g.db.WithContext(ctx).
		Where("paragraph_id = ? AND voice_value = ? AND speed_value = ? AND pitch_value = ? AND style_value = ?",
			paragraphID, opts.Voice, opts.Speed, opts.Pitch, opts.Style).
		First(&v).Error
	if err != nil {
		return nil, translate(err, "voice", opts.Key(paragraphID))
	}
	return &v, nil
}

func (g *GormStore) ListVoices(ctx context.Context, paragraphID string) ([]*model.Voice, error) {
	var voices []*model.Voice
	err := g.db.WithContext(ctx).Where("paragraph_id = ?", paragraphID).Order("created_at desc").Find(&voices).Error
	return voices, translate(err, "voices", paragraphID)
}

func (g *GormStore) ListVoicesFromParagraphIDs(ctx context.Context, ids []string) ([]*model.Voice, error) {
	voices := make([]*model.Voice, 0)
	if len(ids) == 0 {
		return voices, nil
	}
	err := g.db.WithContext(ctx).Where("paragraph_id in (?)", ids).Order("created_at desc").Find(&voices).Error
	return voices, translate(err, "voices", "")
}

func (g *GormStore) ListAllVoices(ctx context.Context) ([]*model.Voice, error) {
	var voices []*model.Voice
	err := g.db.WithContext(ctx).Order("created_at asc").Find(&voices).Error
	return voices, translate(err, "voices", "")
}

func (g *GormStore) CountVoicesByParagraph(ctx context.Context, ids []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []struct {
		ParagraphID string
		Count       int64
	}
	err := g.db.WithContext(ctx).Model(&model.Voice{}).
		Select("paragraph_id, count(*) as count").
		Where("paragraph_id in (?)", ids).
		Group("paragraph_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "voices", "")
	}

	for _, row := range rows {
		counts[row.ParagraphID] = row.Count
	}

	return counts, nil
}

func (g *GormStore) CountVoices(ctx context.Context) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.Voice{}).Count(&count).Error
	return count, translate(err, "voices", "")
}

func (g *GormStore) DeleteVoice(ctx context.Context, id string) error {
	return g.write(ctx, func(db *gorm.DB, c *Change) error {
		var v model.Voice
		if err := db.Where("id = ?", id).First(&v).Error; err != nil {
			return translate(err, "voice", id)
		}
		if err := db.Where("id = ?", id).Delete(&model.Voice{}).Error; err != nil {
			return translate(err, "voice", id)
		}
		c.touchVoice(v.ID, v.ParagraphID)
		return nil
	})
}

func (g *GormStore) DeleteVoicesByParagraph(ctx context.Context, paragraphID string) ([]*model.Voice, error) {
	var voices []*model.Voice
	err := g.write(ctx, func(db *gorm.DB, c *Change) error {
		if err := db.Where("paragraph_id = ?", paragraphID).Find(&voices).Error; err != nil {
			return translate(err, "voices", paragraphID)
		}
		if len(voices) == 0 {
			return nil
		}
		if err := db.Where("paragraph_id = ?", paragraphID).Delete(&model.Voice{}).Error; err != nil {
			return translate(err, "voices", paragraphID)
		}
		for _, v := range voices {
			c.touchVoice(v.ID, v.ParagraphID)
		}
		return nil
	})

	return voices, err
}

func (g *GormStore) Listen(l ChangeListener) {
	g.feed.listen(l)
}

func (g *GormStore) Revision() uint64 {
	return g.feed.revision.Load()
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

// Transaction holds the write lock from begin until the change is published.
// Nested calls join the outer transaction.
func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	if g.change != nil {
		return f(g)
	}

	g.feed.mu.Lock()
	defer g.feed.mu.Unlock()

	c := newChange()
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx, feed: g.feed, change: c})
	})
	if err != nil {
		return err
	}
	g.feed.publish(c)

	return nil
}
