package service

import (
	"context"
	"fmt"

	"github.com/emrgen/reader/internal/model"
	"github.com/emrgen/reader/internal/store"
	"github.com/emrgen/reader/internal/synth"
	"github.com/emrgen/reader/internal/view"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SampleTexts seed an empty pool.
var SampleTexts = []string{
	"Hello, this is a sample text for AI voice generation.",
	"The quick brown fox jumps over the lazy dog.",
	"Welcome to our AI voice generation app.",
	"This text will be converted to speech using artificial intelligence.",
}

// NewParagraphService creates a new ParagraphService.
func NewParagraphService(store store.Store, pipeline *synth.Pipeline) *ParagraphService {
	return &ParagraphService{
		store:    store,
		pipeline: pipeline,
	}
}

// ParagraphService manages the shared paragraph pool.
type ParagraphService struct {
	store    store.Store
	pipeline *synth.Pipeline
}

// CreateParagraph adds a paragraph to the pool.
func (s *ParagraphService) CreateParagraph(ctx context.Context, text string) (*model.Paragraph, error) {
	text = model.NormalizeText(text)
	if text == "" {
		return nil, fmt.Errorf("%w: paragraph text is empty", model.ErrValidation)
	}

	p := &model.Paragraph{
		ID:   uuid.NewString(),
		Text: text,
	}
	if err := s.store.CreateParagraph(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// GetParagraph retrieves a paragraph by ID.
func (s *ParagraphService) GetParagraph(ctx context.Context, id string) (*model.Paragraph, error) {
	return s.store.GetParagraph(ctx, id)
}

// ListParagraphs returns the pool sorted by order, then most recently updated.
func (s *ParagraphService) ListParagraphs(ctx context.Context) ([]*view.Paragraph, error) {
	paragraphs, err := s.store.ListParagraphs(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		ids = append(ids, p.ID)
	}
	counts, err := s.store.CountVoicesByParagraph(ctx, ids)
	if err != nil {
		return nil, err
	}

	list := make([]*view.Paragraph, 0, len(paragraphs))
	for _, p := range paragraphs {
		list = append(list, &view.Paragraph{Paragraph: p, VoiceCount: counts[p.ID]})
	}

	return list, nil
}

// UpdateParagraphText replaces the text of a paragraph. Voices rendered from the
// old text are dropped. An unchanged text is a no-op.
func (s *ParagraphService) UpdateParagraphText(ctx context.Context, id, text string) (*model.Paragraph, error) {
	text = model.NormalizeText(text)
	if text == "" {
		return nil, fmt.Errorf("%w: paragraph text is empty", model.ErrValidation)
	}

	var p *model.Paragraph
	var assets []string
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		p, err = tx.GetParagraph(ctx, id)
		if err != nil {
			return err
		}
		if p.Text == text {
			return nil
		}

		assets, err = synth.DeleteVoiceRecords(ctx, tx, id)
		if err != nil {
			return err
		}

		p.Text = text
		p.DefaultVoiceID = nil
		return tx.UpdateParagraph(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.pipeline.RemoveAssets(ctx, assets)

	return p, nil
}

// DeleteParagraph deletes a paragraph with its voices and prunes every reference
// to it in one transaction. Asset files are removed after commit.
func (s *ParagraphService) DeleteParagraph(ctx context.Context, id string) error {
	var assets []string
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.GetParagraph(ctx, id); err != nil {
			return err
		}

		articles, err := tx.ListArticlesReferencing(ctx, id)
		if err != nil {
			return err
		}
		for _, a := range articles {
			if !a.Prune(id) {
				continue
			}
			if err := tx.UpdateArticle(ctx, a); err != nil {
				return err
			}
		}

		assets, err = synth.DeleteVoiceRecords(ctx, tx, id)
		if err != nil {
			return err
		}

		return tx.DeleteParagraph(ctx, id)
	})
	if err != nil {
		return err
	}

	logrus.Infof("deleted paragraph %s with %d voices", id, len(assets))
	s.pipeline.RemoveAssets(ctx, assets)

	return nil
}

// ReorderParagraphs sets order = index for every named paragraph. Unknown ids are skipped.
func (s *ParagraphService) ReorderParagraphs(ctx context.Context, orderedIDs []string) error {
	return s.store.Transaction(ctx, func(tx store.Store) error {
		for i, id := range orderedIDs {
			found, err := tx.UpdateParagraphOrder(ctx, id, i)
			if err != nil {
				return err
			}
			if !found {
				logrus.Debugf("reorder skipped unknown paragraph %s", id)
			}
		}
		return nil
	})
}

// MoveParagraph drags the paragraph at from to position to of the current list.
func (s *ParagraphService) MoveParagraph(ctx context.Context, from, to int) error {
	paragraphs, err := s.store.ListParagraphs(ctx)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		ids = append(ids, p.ID)
	}

	ordered, err := Move(ids, from, to)
	if err != nil {
		return err
	}

	return s.ReorderParagraphs(ctx, ordered)
}

// SetDefaultVoice picks the default voice of a paragraph among its own voices.
func (s *ParagraphService) SetDefaultVoice(ctx context.Context, paragraphID, voiceID string) error {
	return s.store.Transaction(ctx, func(tx store.Store) error {
		voice, err := tx.GetVoice(ctx, voiceID)
		if err != nil {
			return err
		}
		if voice.ParagraphID != paragraphID {
			return fmt.Errorf("%w: voice %s does not belong to paragraph %s", model.ErrValidation, voiceID, paragraphID)
		}
		return tx.UpdateDefaultVoice(ctx, paragraphID, &voiceID)
	})
}

// ListVoices returns the voices of a paragraph, newest first.
func (s *ParagraphService) ListVoices(ctx context.Context, paragraphID string) ([]*model.Voice, error) {
	if _, err := s.store.GetParagraph(ctx, paragraphID); err != nil {
		return nil, err
	}

	return s.store.ListVoices(ctx, paragraphID)
}

// SeedSamples fills an empty pool with the sample texts and reports how many were added.
func (s *ParagraphService) SeedSamples(ctx context.Context) (int, error) {
	count, err := s.store.CountParagraphs(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	err = s.store.Transaction(ctx, func(tx store.Store) error {
		for _, text := range SampleTexts {
			p := &model.Paragraph{ID: uuid.NewString(), Text: text}
			if err := tx.CreateParagraph(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(SampleTexts), nil
}
