package tts

import (
	"context"
	"time"

	"github.com/emrgen/reader/internal/model"
	"github.com/sirupsen/logrus"
)

// Timed wraps a synthesizer and logs the duration of every call.
func Timed(s Synthesizer) Synthesizer {
	return SynthesizerFunc(func(ctx context.Context, text string, opts model.VoiceOptions) ([]byte, error) {
		start := time.Now()
		audio, err := s.Synthesize(ctx, text, opts)
		if err != nil {
			logrus.Warnf("synthesize %s failed after %v: %v", opts, time.Since(start), err)
			return nil, err
		}
		logrus.Infof("synthesize %s took %v (%d bytes)", opts, time.Since(start), len(audio))
		return audio, nil
	})
}
