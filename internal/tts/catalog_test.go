package tts

import (
	"testing"

	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/emrgen/reader/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    model.VoiceOptions
		wantErr bool
	}{
		{name: "default", opts: DefaultOptions},
		{name: "english fast", opts: model.VoiceOptions{Voice: "en-US-GuyNeural", Speed: "2.0", Pitch: "-25", Style: "calm"}},
		{name: "unknown voice", opts: model.VoiceOptions{Voice: "robot", Speed: "1.0", Pitch: "0", Style: "general"}, wantErr: true},
		{name: "unknown speed", opts: Merge(DefaultOptions, model.VoiceOptions{Speed: "3.0"}), wantErr: true},
		{name: "empty style", opts: model.VoiceOptions{Voice: "en-US-GuyNeural", Speed: "1.0", Pitch: "0"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.opts)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetCatalogIsACopy(t *testing.T) {
	c := GetCatalog()
	c.Voices[0].Value = "changed"
	assert.Equal(t, "zh-CN-XiaoxiaoNeural", GetCatalog().Voices[0].Value)
	assert.Len(t, c.Styles, 11)
}

func TestGoogleRequest(t *testing.T) {
	req, err := googleRequest("hi", model.VoiceOptions{Voice: "en-US-JennyNeural", Speed: "1.25", Pitch: "50", Style: "chat"})
	require.NoError(t, err)

	assert.Equal(t, "hi", req.GetInput().GetText())
	assert.Equal(t, "en-US", req.GetVoice().GetLanguageCode())
	assert.Equal(t, ttspb.AudioEncoding_MP3, req.GetAudioConfig().GetAudioEncoding())
	assert.InDelta(t, 1.25, req.GetAudioConfig().GetSpeakingRate(), 1e-9)
	assert.InDelta(t, 5.0, req.GetAudioConfig().GetPitch(), 1e-9)

	_, err = googleRequest("hi", model.VoiceOptions{Voice: "en-US-JennyNeural", Speed: "fast", Pitch: "0"})
	assert.ErrorIs(t, err, model.ErrValidation)
}
