package store

import (
	"context"
)

// RefreshDefaultVoice keeps the default voice of a paragraph pointing at one of its
// voices. A missing or dangling default falls back to the earliest voice, and a
// paragraph without voices has no default.
func RefreshDefaultVoice(ctx context.Context, tx Store, paragraphID string) error {
	p, err := tx.GetParagraph(ctx, paragraphID)
	if err != nil {
		return err
	}

	voices, err := tx.ListVoices(ctx, paragraphID)
	if err != nil {
		return err
	}

	if len(voices) == 0 {
		if p.DefaultVoiceID == nil {
			return nil
		}
		return tx.UpdateDefaultVoice(ctx, paragraphID, nil)
	}

	if p.DefaultVoiceID != nil {
		for _, v := range voices {
			if v.ID == *p.DefaultVoiceID {
				return nil
			}
		}
	}

	earliest := voices[len(voices)-1].ID
	return tx.UpdateDefaultVoice(ctx, paragraphID, &earliest)
}
