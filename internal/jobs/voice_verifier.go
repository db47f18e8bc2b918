package jobs

import (
	"context"
	"time"

	"github.com/emrgen/reader/internal/filestore"
	"github.com/emrgen/reader/internal/store"
	"github.com/emrgen/reader/internal/synth"
	"github.com/sirupsen/logrus"
)

// VoiceVerifier drops voice records whose asset has gone missing, so the next
// resolve synthesizes them again.
type VoiceVerifier struct {
	store    store.Store
	files    filestore.Store
	pipeline *synth.Pipeline
	schedule string
}

func NewVoiceVerifier(schedule string, store store.Store, pipeline *synth.Pipeline) *VoiceVerifier {
	return &VoiceVerifier{
		store:    store,
		files:    pipeline.Files(),
		pipeline: pipeline,
		schedule: schedule,
	}
}

func (v *VoiceVerifier) Name() string {
	return "voice_verifier"
}

func (v *VoiceVerifier) Schedule() string {
	return v.schedule
}

func (v *VoiceVerifier) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dropped, err := v.Verify(ctx)
	if err != nil {
		logrus.Errorf("voice verification failed: %v", err)
		return
	}
	if dropped > 0 {
		logrus.Infof("dropped %d voices with missing assets", dropped)
	}
}

// Verify checks every voice and returns the number of dropped records.
func (v *VoiceVerifier) Verify(ctx context.Context) (int, error) {
	voices, err := v.store.ListAllVoices(ctx)
	if err != nil {
		return 0, err
	}

	dropped := 0
	for _, voice := range voices {
		ok, err := v.files.Exists(ctx, voice.AudioAssetID)
		if err != nil {
			return dropped, err
		}
		if ok {
			continue
		}
		if err := v.pipeline.DeleteVoice(ctx, voice.ID); err != nil {
			logrus.Warnf("failed to drop voice %s: %v", voice.ID, err)
			continue
		}
		dropped++
	}

	return dropped, nil
}
