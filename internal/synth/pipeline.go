// Package synth turns (paragraph, text, voice parameters) requests into cached,
// file-backed voices.
package synth

import (
	"context"
	"errors"
	"fmt"

	"github.com/emrgen/reader/internal/filestore"
	"github.com/emrgen/reader/internal/model"
	"github.com/emrgen/reader/internal/store"
	"github.com/emrgen/reader/internal/tts"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// DefaultConcurrency bounds the remote calls of one batch.
const DefaultConcurrency = 4

// Request asks for the voice of a paragraph text with a parameter tuple.
type Request struct {
	ParagraphID string
	Text        string
	Options     model.VoiceOptions
}

// Key is the cache key of the request.
func (r Request) Key() string {
	return r.Options.Key(r.ParagraphID)
}

// Pipeline resolves synthesis requests against the voice cache.
type Pipeline struct {
	store       store.Store
	files       filestore.Store
	synth       tts.Synthesizer
	concurrency int
	// flights reserves a cache key from probe until commit or failure
	flights singleflight.Group
}

func NewPipeline(store store.Store, files filestore.Store, synth tts.Synthesizer, concurrency int) *Pipeline {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	return &Pipeline{
		store:       store,
		files:       files,
		synth:       synth,
		concurrency: concurrency,
	}
}

// Resolve returns the cached voice of the request or synthesizes a new one.
// Concurrent calls for the same key share one remote call. The shared call is
// detached from every caller's ctx: a caller that gives up stops waiting, but
// the synthesis still completes and commits for the others.
func (p *Pipeline) Resolve(ctx context.Context, req Request) (*model.Voice, error) {
	if req.ParagraphID == "" {
		return nil, fmt.Errorf("%w: missing paragraph id", model.ErrValidation)
	}
	if model.NormalizeText(req.Text) == "" {
		return nil, fmt.Errorf("%w: empty text for paragraph %s", model.ErrValidation, req.ParagraphID)
	}

	detached := context.WithoutCancel(ctx)
	ch := p.flights.DoChan(req.Key(), func() (interface{}, error) {
		return p.resolve(detached, req)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.Voice), nil
	}
}

// probe returns the cached voice of the request if its asset is still present.
// A voice whose asset vanished is deleted and reported as a miss.
func (p *Pipeline) probe(ctx context.Context, req Request) (*model.Voice, error) {
	voice, err := p.store.GetVoiceByKey(ctx, req.ParagraphID, req.Options)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ok, err := p.files.Exists(ctx, voice.AudioAssetID)
	if err != nil {
		return nil, err
	}
	if ok {
		return voice, nil
	}

	logrus.WithField("key", req.Key()).Warnf("voice %s lost its asset %s, dropping it", voice.ID, voice.AudioAssetID)
	err = p.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.DeleteVoice(ctx, voice.ID); err != nil {
			return err
		}
		return store.RefreshDefaultVoice(ctx, tx, voice.ParagraphID)
	})
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	return nil, nil
}

func (p *Pipeline) resolve(ctx context.Context, req Request) (*model.Voice, error) {
	cached, err := p.probe(ctx, req)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	audio, err := p.synth.Synthesize(ctx, req.Text, req.Options)
	if err != nil {
		if errors.Is(err, model.ErrSynthesis) {
			return nil, fmt.Errorf("paragraph %s: %w", req.ParagraphID, err)
		}
		return nil, fmt.Errorf("%w: paragraph %s: %w", model.ErrSynthesis, req.ParagraphID, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: paragraph %s: empty audio", model.ErrSynthesis, req.ParagraphID)
	}

	assetID := uuid.NewString()
	if err := p.files.Write(ctx, assetID, audio); err != nil {
		return nil, err
	}

	voice := &model.Voice{
		ID:           uuid.NewString(),
		ParagraphID:  req.ParagraphID,
		VoiceValue:   req.Options.Voice,
		SpeedValue:   req.Options.Speed,
		PitchValue:   req.Options.Pitch,
		StyleValue:   req.Options.Style,
		AudioAssetID: assetID,
	}

	err = p.store.Transaction(ctx, func(tx store.Store) error {
		// the paragraph may have been deleted while the remote call ran
		if _, err := tx.GetParagraph(ctx, req.ParagraphID); err != nil {
			return err
		}
		if err := tx.CreateVoice(ctx, voice); err != nil {
			return err
		}
		return store.RefreshDefaultVoice(ctx, tx, req.ParagraphID)
	})
	if err != nil {
		p.removeAsset(ctx, assetID)
		if errors.Is(err, model.ErrConflict) {
			// another process committed the same key first
			return p.store.GetVoiceByKey(ctx, req.ParagraphID, req.Options)
		}
		return nil, err
	}

	logrus.WithField("key", req.Key()).Infof("created voice %s with asset %s", voice.ID, assetID)

	return voice, nil
}

// DeleteVoice removes the asset of a voice, then the record.
func (p *Pipeline) DeleteVoice(ctx context.Context, id string) error {
	voice, err := p.store.GetVoice(ctx, id)
	if err != nil {
		return err
	}

	p.removeAsset(ctx, voice.AudioAssetID)

	return p.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.DeleteVoice(ctx, id); err != nil {
			return err
		}
		return store.RefreshDefaultVoice(ctx, tx, voice.ParagraphID)
	})
}

// DeleteVoiceRecords deletes the voice records of a paragraph inside tx and
// returns their asset ids. The caller removes the assets after commit.
func DeleteVoiceRecords(ctx context.Context, tx store.Store, paragraphID string) ([]string, error) {
	voices, err := tx.DeleteVoicesByParagraph(ctx, paragraphID)
	if err != nil {
		return nil, err
	}

	assets := make([]string, 0, len(voices))
	for _, v := range voices {
		assets = append(assets, v.AudioAssetID)
	}

	return assets, nil
}

// RemoveAssets deletes asset files, logging failures.
func (p *Pipeline) RemoveAssets(ctx context.Context, ids []string) {
	for _, id := range ids {
		p.removeAsset(ctx, id)
	}
}

func (p *Pipeline) removeAsset(ctx context.Context, id string) {
	err := p.files.Delete(ctx, id)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrNotFound):
		logrus.Debugf("asset %s already absent", id)
	default:
		logrus.Warnf("failed to remove asset %s: %v", id, err)
	}
}

// Files returns the asset store of the pipeline.
func (p *Pipeline) Files() filestore.Store {
	return p.files
}
