// Package tts talks to remote text-to-speech providers.
package tts

import (
	"context"

	"github.com/emrgen/reader/internal/model"
)

// Synthesizer converts text into mp3 bytes with the given voice parameters.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, opts model.VoiceOptions) ([]byte, error)
}

// SynthesizerFunc adapts a function to a Synthesizer.
type SynthesizerFunc func(ctx context.Context, text string, opts model.VoiceOptions) ([]byte, error)

func (f SynthesizerFunc) Synthesize(ctx context.Context, text string, opts model.VoiceOptions) ([]byte, error) {
	return f(ctx, text, opts)
}
